package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"pantherexchange/internal/logging"
	"pantherexchange/internal/models"
	"pantherexchange/internal/services"
	apperrors "pantherexchange/pkg/errors"
)

// EnvelopeData wraps every success payload as {"data": <payload>}.
const EnvelopeData = "data"

// ListingHandlerOptions configures routes and response shape.
type ListingHandlerOptions struct {
	// Path is the listing collection path. Defaults to /api/listings.
	Path string
	// CategoriesPath serves the category list. Defaults to /api/categories.
	CategoriesPath string
	// Envelope is "" for bare payloads or EnvelopeData.
	Envelope string
}

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	catalog services.Catalog
	opts    ListingHandlerOptions
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(catalog services.Catalog, opts ListingHandlerOptions) *ListingHandler {
	if opts.Path == "" {
		opts.Path = "/api/listings"
	}
	if opts.CategoriesPath == "" {
		opts.CategoriesPath = "/api/categories"
	}
	return &ListingHandler{
		catalog: catalog,
		opts:    opts,
	}
}

// RegisterRoutes registers the listing routes. createMiddleware runs in front
// of the create handler only, e.g. a rate limiter.
func (h *ListingHandler) RegisterRoutes(router fiber.Router, createMiddleware ...fiber.Handler) {
	router.Get(h.opts.CategoriesPath, h.HandleGetCategories)

	router.Get(h.opts.Path, h.HandleListListings)
	createHandlers := append(append([]fiber.Handler{}, createMiddleware...), h.HandleCreateListing)
	router.Post(h.opts.Path, createHandlers...)
	router.Get(h.opts.Path+"/:id", h.HandleGetListing)
}

// CategoryInfo describes one entry of the category list.
type CategoryInfo struct {
	Name       models.Category `json:"name"`
	FilterOnly bool            `json:"filter_only"`
}

// HandleGetCategories lists the categories, "All" first.
func (h *ListingHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories := make([]CategoryInfo, 0, len(models.Categories)+1)
	categories = append(categories, CategoryInfo{Name: models.CategoryAll, FilterOnly: true})
	for _, cat := range models.Categories {
		categories = append(categories, CategoryInfo{Name: cat})
	}
	return h.respond(c, fiber.StatusOK, categories)
}

// HandleListListings retrieves listings, optionally filtered by ?category=.
func (h *ListingHandler) HandleListListings(c *fiber.Ctx) error {
	category := models.Category(c.Query("category"))
	listings, err := h.catalog.List(c.UserContext(), category)
	if err != nil {
		return h.listingError(c, err, "Could not retrieve listings")
	}
	return h.respond(c, fiber.StatusOK, listings)
}

// HandleGetListing retrieves a single listing by its ID.
func (h *ListingHandler) HandleGetListing(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid listing id %q", c.Params("id")),
		})
	}

	listing, err := h.catalog.Get(c.UserContext(), int64(id))
	if err != nil {
		return h.listingError(c, err, "Could not retrieve listing")
	}
	return h.respond(c, fiber.StatusOK, listing)
}

// HandleCreateListing creates a new listing from a JSON body.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var input models.ListingInput
	if err := c.BodyParser(&input); err != nil {
		logging.FromContext(c.UserContext()).Debug().Err(err).Msg("Error parsing listing request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	listing, err := h.catalog.Create(c.UserContext(), input)
	if err != nil {
		return h.listingError(c, err, "Could not create listing")
	}
	return h.respond(c, fiber.StatusCreated, listing)
}

func (h *ListingHandler) respond(c *fiber.Ctx, status int, payload interface{}) error {
	if h.opts.Envelope == EnvelopeData {
		return c.Status(status).JSON(fiber.Map{EnvelopeData: payload})
	}
	return c.Status(status).JSON(payload)
}

func (h *ListingHandler) listingError(c *fiber.Ctx, err error, message string) error {
	var validationErr *apperrors.ValidationError
	switch {
	case apperrors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case apperrors.Is(err, apperrors.ErrPayloadTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"message": "Payload too large",
			"error":   err.Error(),
		})
	case apperrors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Listing not found",
			"error":   err.Error(),
		})
	default:
		logging.FromContext(c.UserContext()).Error().Err(err).Msg(message)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
