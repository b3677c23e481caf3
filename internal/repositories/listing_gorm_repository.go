package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"pantherexchange/internal/models"
	apperrors "pantherexchange/pkg/errors"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// Create inserts the listing; the database assigns its id.
func (r *GORMListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = 0
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// List retrieves the listings passing the category filter, oldest first.
func (r *GORMListingRepository) List(ctx context.Context, category models.Category) ([]models.Listing, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if !category.MatchesAll() {
		query = query.Where("category = ?", category)
	}

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("listing", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to get listing by ID %d: %w", id, err)
	}
	return &listing, nil
}
