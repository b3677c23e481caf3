package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds the server configuration.
type Config struct {
	AppPort         string
	StoreDriver     string
	DatabaseDSN     string
	RabbitMQURL     string
	ListingsPath    string
	Envelope        string
	MaxImageBytes   int64
	BodyLimit       int
	Currency        string
	SeedFile        string
	CreateRateLimit int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CORSAllowOrigins is a comma separated origin list for browser clients.
	CORSAllowOrigins string
	// ConsumeEvents attaches a logging consumer to the listing event queue.
	// Leave it off when another service owns the queue.
	ConsumeEvents bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("DATABASE_DSN", "file:pantherexchange.db?cache=shared")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LISTINGS_PATH", "/api/listings")
	v.SetDefault("RESPONSE_ENVELOPE", "")
	v.SetDefault("MAX_IMAGE_BYTES", 5<<20)
	v.SetDefault("BODY_LIMIT", 8<<20)
	v.SetDefault("CURRENCY", "USD")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("CREATE_RATE_LIMIT", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("CONSUME_EVENTS", false)
}

// Load reads an optional .env file, then environment variables, on top of the
// defaults. Values already present in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		ListingsPath:    v.GetString("LISTINGS_PATH"),
		Envelope:        v.GetString("RESPONSE_ENVELOPE"),
		MaxImageBytes:   v.GetInt64("MAX_IMAGE_BYTES"),
		BodyLimit:       v.GetInt("BODY_LIMIT"),
		Currency:        strings.ToUpper(v.GetString("CURRENCY")),
		SeedFile:        v.GetString("SEED_FILE"),
		CreateRateLimit: v.GetInt("CREATE_RATE_LIMIT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		ConsumeEvents:    v.GetBool("CONSUME_EVENTS"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver != StoreMemory && c.DatabaseDSN == "" {
		return fmt.Errorf("config: DATABASE_DSN is required for STORE_DRIVER %q", c.StoreDriver)
	}
	if !strings.HasPrefix(c.ListingsPath, "/") {
		return fmt.Errorf("config: LISTINGS_PATH must start with '/', got %q", c.ListingsPath)
	}
	if c.Envelope != "" && c.Envelope != "data" {
		return fmt.Errorf("config: RESPONSE_ENVELOPE must be empty or \"data\", got %q", c.Envelope)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("config: MAX_IMAGE_BYTES must be positive")
	}
	if int64(c.BodyLimit) < c.MaxImageBytes {
		return fmt.Errorf("config: BODY_LIMIT (%d) must not be below MAX_IMAGE_BYTES (%d)", c.BodyLimit, c.MaxImageBytes)
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("config: CURRENCY %q is not an ISO 4217 code: %w", c.Currency, err)
	}
	if c.CreateRateLimit < 0 {
		return fmt.Errorf("config: CREATE_RATE_LIMIT must not be negative")
	}
	return nil
}
