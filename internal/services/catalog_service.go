package services

import (
	"context"

	"pantherexchange/internal/logging"
	"pantherexchange/internal/models"
	"pantherexchange/internal/repositories"
	apperrors "pantherexchange/pkg/errors"
)

// DefaultMaxImageBytes bounds inline image payloads when no limit is configured.
const DefaultMaxImageBytes int64 = 5 << 20

// Catalog is the operation set the UI layer depends on. It is satisfied by
// CatalogService (in-process store) and by catalogclient.Client (remote store).
// An empty category or models.CategoryAll means no filter.
type Catalog interface {
	List(ctx context.Context, category models.Category) ([]models.Listing, error)
	Create(ctx context.Context, input models.ListingInput) (*models.Listing, error)
	Get(ctx context.Context, id int64) (*models.Listing, error)
}

// EventPublisher receives notifications about stored listings.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing models.Listing) error
}

// CatalogOptions tunes a CatalogService.
type CatalogOptions struct {
	// Currency is the ISO 4217 code stamped on new listings.
	Currency string
	// MaxImageBytes caps the inline image payload. Zero selects DefaultMaxImageBytes.
	MaxImageBytes int64
}

// CatalogService handles business logic related to listings.
type CatalogService struct {
	repo          repositories.ListingRepository
	publisher     EventPublisher
	currency      string
	maxImageBytes int64
}

// NewCatalogService creates a new CatalogService. publisher may be nil.
func NewCatalogService(repo repositories.ListingRepository, publisher EventPublisher, opts CatalogOptions) *CatalogService {
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	return &CatalogService{
		repo:          repo,
		publisher:     publisher,
		currency:      opts.Currency,
		maxImageBytes: opts.MaxImageBytes,
	}
}

// List retrieves the listings in the given category, or all of them.
func (s *CatalogService) List(ctx context.Context, category models.Category) ([]models.Listing, error) {
	return s.repo.List(ctx, category)
}

// Get retrieves a single listing by its ID.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input and stores a new listing. Nothing is stored when
// validation or the size check fails.
func (s *CatalogService) Create(ctx context.Context, input models.ListingInput) (*models.Listing, error) {
	input = input.Normalized()

	if size := int64(len(input.Image)); size > s.maxImageBytes {
		return nil, apperrors.NewPayloadTooLargeError("image", size, s.maxImageBytes)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	listing := input.ToListing(s.currency)
	if err := s.repo.Create(ctx, &listing); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Info().
		Int64("listing_id", listing.ID).
		Str("category", string(listing.Category)).
		Msg("Listing created")

	// The listing is already stored; a failed notification is only reported.
	if s.publisher != nil {
		if err := s.publisher.PublishListingCreated(ctx, listing); err != nil {
			logger.Warn().Err(err).Int64("listing_id", listing.ID).Msg("Failed to publish listing created event")
		}
	}

	return &listing, nil
}
