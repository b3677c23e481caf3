package models

import (
	"strings"
	"time"
)

// Listing represents a single item offered on the marketplace.
// Listings are immutable once created.
type Listing struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       Price     `json:"price" gorm:"not null"`
	Currency    string    `json:"currency" gorm:"type:varchar(3)"`
	Address     string    `json:"address" gorm:"type:varchar(100)"`
	Category    Category  `json:"category" gorm:"type:varchar(50);index;not null"`
	Image       string    `json:"image,omitempty" gorm:"type:text"`
	SellerName  string    `json:"seller_name,omitempty" gorm:"type:varchar(50)"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayPrice renders the price for humans, e.g. "$50.00".
func (l Listing) DisplayPrice(symbol string) string {
	return l.Price.Format(symbol)
}

// ListingInput is the payload accepted by create. Ids, currency and creation
// time are assigned by the store.
type ListingInput struct {
	Title       string   `json:"title" yaml:"title" validate:"required,max=100"`
	Description string   `json:"description" yaml:"description" validate:"max=5000"`
	Price       Price    `json:"price" yaml:"price" validate:"gt=0,lte=1000000000"`
	Address     string   `json:"address" yaml:"address" validate:"max=100"`
	Category    Category `json:"category" yaml:"category" validate:"listing_category"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty" validate:"omitempty,datauri|http_url"`
	SellerName  string   `json:"seller_name,omitempty" yaml:"seller_name,omitempty" validate:"max=50"`
}

// Normalized returns a copy with surrounding whitespace removed from the free
// text fields. Category is left untouched since it matches exactly.
func (in ListingInput) Normalized() ListingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	in.Image = strings.TrimSpace(in.Image)
	in.SellerName = strings.TrimSpace(in.SellerName)
	return in
}

// ToListing builds the listing a store persists for this input.
func (in ListingInput) ToListing(currency string) Listing {
	return Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Currency:    currency,
		Address:     in.Address,
		Category:    in.Category,
		Image:       in.Image,
		SellerName:  in.SellerName,
	}
}
