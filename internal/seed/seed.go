// Package seed loads demo listings from YAML and feeds them through a catalog.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"pantherexchange/internal/logging"
	"pantherexchange/internal/models"
	"pantherexchange/internal/services"
)

// File is the layout of a seed file.
type File struct {
	Listings []models.ListingInput `yaml:"listings"`
}

// LoadFile reads listing inputs from a YAML seed file.
func LoadFile(path string) ([]models.ListingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Unknown keys are rejected.
func Parse(data []byte) ([]models.ListingInput, error) {
	var file File
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return file.Listings, nil
}

// Apply creates every input through the catalog in order and returns the
// stored listings. It stops at the first failure.
func Apply(ctx context.Context, catalog services.Catalog, inputs []models.ListingInput) ([]models.Listing, error) {
	created := make([]models.Listing, 0, len(inputs))
	for i, input := range inputs {
		listing, err := catalog.Create(ctx, input)
		if err != nil {
			return created, fmt.Errorf("seed listing %d (%q): %w", i+1, input.Title, err)
		}
		created = append(created, *listing)
	}
	logging.FromContext(ctx).Info().Int("count", len(created)).Msg("Seeded listings")
	return created, nil
}

// ApplyIfEmpty seeds only a catalog that has no listings yet, so restarting
// against a persistent store does not duplicate the demo data.
func ApplyIfEmpty(ctx context.Context, catalog services.Catalog, inputs []models.ListingInput) ([]models.Listing, error) {
	existing, err := catalog.List(ctx, models.CategoryAll)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect catalog before seeding: %w", err)
	}
	if len(existing) > 0 {
		logging.FromContext(ctx).Debug().Int("existing", len(existing)).Msg("Catalog not empty, skipping seed")
		return nil, nil
	}
	return Apply(ctx, catalog, inputs)
}
