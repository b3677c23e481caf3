package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantherexchange/internal/config"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "/api/listings", cfg.ListingsPath)
	assert.Equal(t, "", cfg.Envelope)
	assert.Equal(t, int64(5<<20), cfg.MaxImageBytes)
	assert.Equal(t, 8<<20, cfg.BodyLimit)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.False(t, cfg.ConsumeEvents)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"STORE_DRIVER":      "SQLite",
		"RESPONSE_ENVELOPE": "data",
		"CURRENCY":          "eur",
		"LISTINGS_PATH":     "/items",
		"CONSUME_EVENTS":    "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, config.StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "data", cfg.Envelope)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "/items", cfg.ListingsPath)
	assert.True(t, cfg.ConsumeEvents)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown driver":   {"STORE_DRIVER": "mongo"},
		"missing dsn":      {"STORE_DRIVER": "postgres", "DATABASE_DSN": ""},
		"relative path":    {"LISTINGS_PATH": "api/listings"},
		"unknown envelope": {"RESPONSE_ENVELOPE": "items"},
		"bad currency":     {"CURRENCY": "DOLLARS"},
		"zero image limit": {"MAX_IMAGE_BYTES": 0},
		"body below image": {"BODY_LIMIT": 1024},
		"negative rate":    {"CREATE_RATE_LIMIT": -1},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}
