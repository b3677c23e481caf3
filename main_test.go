package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantherexchange/internal/config"
	"pantherexchange/internal/handlers"
	"pantherexchange/internal/middleware"
	"pantherexchange/internal/models"
	"pantherexchange/internal/services"
	"pantherexchange/pkg/rabbitmq"
)

func testConfig(t *testing.T, overrides map[string]any) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	st, err := openStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.close() })

	catalog := services.NewCatalogService(st.repo, nil, services.CatalogOptions{
		Currency:      cfg.Currency,
		MaxImageBytes: cfg.MaxImageBytes,
	})
	return NewApp(cfg, catalog, handlers.NewHealthHandler(cfg.StoreDriver, false, st.ping))
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func createRequest(path string, body map[string]any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNewApp_ServesListings(t *testing.T) {
	cfg := testConfig(t, map[string]any{"LISTINGS_PATH": "/listings", "RESPONSE_ENVELOPE": "data"})
	app := newTestApp(t, cfg)

	resp := do(t, app, createRequest("/listings", map[string]any{
		"title":    "Bluetooth Headphones",
		"price":    "$60",
		"category": "Electronics",
		"address":  "Benedum Hall",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))

	var created struct {
		Data models.Listing `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, int64(1), created.Data.ID)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/listings?category=Electronics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Data []models.Listing `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	assert.Len(t, listed.Data, 1)

	// the default path is not mounted when another one is configured
	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/listings", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestNewApp_BodyLimit(t *testing.T) {
	cfg := testConfig(t, map[string]any{"MAX_IMAGE_BYTES": 512, "BODY_LIMIT": 1024})
	app := newTestApp(t, cfg)
	assert.Equal(t, 1024, app.Config().BodyLimit)

	// an image over MAX_IMAGE_BYTES but within BODY_LIMIT reaches the service
	resp := do(t, app, createRequest("/api/listings", map[string]any{
		"title":    "Huge",
		"price":    1,
		"category": "Other",
		"image":    "data:image/png;base64," + strings.Repeat("A", 600),
	}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Payload too large", body["message"])
}

func TestNewApp_RateLimitsCreate(t *testing.T) {
	cfg := testConfig(t, map[string]any{"CREATE_RATE_LIMIT": 2})
	app := newTestApp(t, cfg)

	for i := 0; i < 2; i++ {
		resp := do(t, app, createRequest("/api/listings", map[string]any{
			"title":    fmt.Sprintf("Lamp %d", i),
			"price":    10,
			"category": "Furniture",
		}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := do(t, app, createRequest("/api/listings", map[string]any{"title": "Lamp", "price": 10, "category": "Furniture"}))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()

	// reads are not limited
	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/listings", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestNewApp_CORSPreflight(t *testing.T) {
	cfg := testConfig(t, map[string]any{"CORS_ALLOW_ORIGINS": "http://localhost:5173"})
	app := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/listings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := do(t, app, req)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewApp_HealthWithSQLiteStore(t *testing.T) {
	cfg := testConfig(t, map[string]any{
		"STORE_DRIVER": config.StoreSQLite,
		"DATABASE_DSN": "file:main_test?mode=memory&cache=shared",
	})
	app := newTestApp(t, cfg)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, config.StoreSQLite, health["store"])
	assert.Equal(t, false, health["events"])
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := openStore(&config.Config{StoreDriver: "mongo"})
	assert.Error(t, err)
}

func TestLogListingEvent(t *testing.T) {
	event := rabbitmq.NewListingCreatedEvent(models.Listing{
		ID:        3,
		Title:     "Laptop Charger",
		Price:     15,
		Currency:  "USD",
		Category:  models.CategoryElectronics,
		CreatedAt: time.Now(),
	})
	assert.NoError(t, logListingEvent(event))
}
