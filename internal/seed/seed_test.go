package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantherexchange/internal/models"
	"pantherexchange/internal/repositories"
	"pantherexchange/internal/seed"
	"pantherexchange/internal/services"
	apperrors "pantherexchange/pkg/errors"
)

func TestLoadFile(t *testing.T) {
	inputs, err := seed.LoadFile(filepath.Join("testdata", "listings.yaml"))
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	assert.Equal(t, "Used Operating Systems Textbook", inputs[0].Title)
	assert.Equal(t, models.Price(50), inputs[0].Price)
	assert.Equal(t, models.CategoryBooks, inputs[0].Category)
	assert.Equal(t, "Sennot Square", inputs[0].Address)

	assert.Equal(t, models.Price(100), inputs[1].Price)
	assert.Equal(t, models.Price(15), inputs[2].Price)
	assert.Equal(t, models.Price(60), inputs[3].Price)
	assert.Equal(t, models.CategoryElectronics, inputs[3].Category)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := seed.LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listings:\n  - title: Lamp\n    colour: red\n"), 0o600))
	_, err = seed.LoadFile(path)
	assert.Error(t, err)

	_, err = seed.Parse([]byte("listings:\n  - title: Lamp\n    price: cheap\n"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	catalog := services.NewCatalogService(repositories.NewMemoryListingRepository(), nil, services.CatalogOptions{})

	inputs, err := seed.LoadFile(filepath.Join("testdata", "listings.yaml"))
	require.NoError(t, err)

	created, err := seed.Apply(ctx, catalog, inputs)
	require.NoError(t, err)
	require.Len(t, created, 4)
	for i, listing := range created {
		assert.Equal(t, int64(i+1), listing.ID)
	}

	electronics, err := catalog.List(ctx, models.CategoryElectronics)
	require.NoError(t, err)
	assert.Len(t, electronics, 2)
}

func TestApply_StopsAtFirstInvalidInput(t *testing.T) {
	ctx := context.Background()
	catalog := services.NewCatalogService(repositories.NewMemoryListingRepository(), nil, services.CatalogOptions{})

	inputs := []models.ListingInput{
		{Title: "Lamp", Price: 12, Category: models.CategoryFurniture},
		{Title: "Headphones", Price: 60, Category: "Electronic"},
		{Title: "Jacket", Price: 30, Category: models.CategoryClothing},
	}

	created, err := seed.Apply(ctx, catalog, inputs)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "seed listing 2")
	assert.Len(t, created, 1)

	all, err := catalog.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApplyIfEmpty(t *testing.T) {
	ctx := context.Background()
	catalog := services.NewCatalogService(repositories.NewMemoryListingRepository(), nil, services.CatalogOptions{})
	inputs := []models.ListingInput{{Title: "Lamp", Price: 12, Category: models.CategoryFurniture}}

	created, err := seed.ApplyIfEmpty(ctx, catalog, inputs)
	require.NoError(t, err)
	assert.Len(t, created, 1)

	created, err = seed.ApplyIfEmpty(ctx, catalog, inputs)
	require.NoError(t, err)
	assert.Empty(t, created)

	all, err := catalog.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
