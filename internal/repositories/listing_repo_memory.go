package repositories

import (
	"context"
	"strconv"
	"sync"
	"time"

	"pantherexchange/internal/models"
	apperrors "pantherexchange/pkg/errors"
)

// MemoryListingRepository is a process-local implementation of ListingRepository.
type MemoryListingRepository struct {
	listings []models.Listing
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryListingRepository creates a new, empty MemoryListingRepository.
func NewMemoryListingRepository() *MemoryListingRepository {
	return &MemoryListingRepository{nextID: 1}
}

// Create assigns the next id and appends the listing.
func (r *MemoryListingRepository) Create(_ context.Context, listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing.ID = r.nextID
	r.nextID++
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}
	r.listings = append(r.listings, *listing)
	return nil
}

// List returns the listings passing the category filter in insertion order.
func (r *MemoryListingRepository) List(_ context.Context, category models.Category) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if category.Matches(l.Category) {
			result = append(result, l)
		}
	}
	return result, nil
}

// GetByID returns a listing by its ID.
func (r *MemoryListingRepository) GetByID(_ context.Context, id int64) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// ids start at 1 and are never removed, so the id is the position + 1
	if id < 1 || id > int64(len(r.listings)) {
		return nil, apperrors.NewNotFoundError("listing", strconv.FormatInt(id, 10))
	}
	listing := r.listings[id-1]
	return &listing, nil
}
