package repositories

import (
	"context"

	"pantherexchange/internal/models"
)

// ListingRepository defines the interface for listing data access.
// Implementations assign ids on Create; ids are unique, increasing and never
// reused. List returns listings in insertion order.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	List(ctx context.Context, category models.Category) ([]models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
}
