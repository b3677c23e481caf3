// Package catalogclient talks to a remote listing catalog over HTTP. A Client
// offers the same operations as the in-process catalog service so callers can
// switch between the two without changes.
//
// Requests are sent once. Failed calls are never retried.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pantherexchange/internal/logging"
	"pantherexchange/internal/models"
	apperrors "pantherexchange/pkg/errors"
)

const (
	// DefaultTimeout bounds every call when no timeout option is given.
	DefaultTimeout = 10 * time.Second
	// DefaultPath is the listing collection path on the server.
	DefaultPath = "/api/listings"
	// DefaultMaxImageBytes matches the server's default image ceiling.
	DefaultMaxImageBytes int64 = 5 << 20
	// DefaultMaxBodyBytes caps an encoded create request.
	DefaultMaxBodyBytes int64 = 8 << 20
	// EnvelopeData expects success payloads wrapped as {"data": <payload>}.
	EnvelopeData = "data"

	maxResponseBytes int64 = 64 << 20
)

// Client is a remote catalog.
type Client struct {
	baseURL       string
	path          string
	envelope      string
	http          *http.Client
	timeout       time.Duration
	maxImageBytes int64
	maxBodyBytes  int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A client without a
// timeout of its own gets DefaultTimeout unless WithTimeout is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPath sets the listing collection path, e.g. "/listings".
func WithPath(path string) Option {
	return func(c *Client) {
		c.path = path
	}
}

// WithEnvelope selects the response shape: "" for bare payloads or EnvelopeData.
func WithEnvelope(envelope string) Option {
	return func(c *Client) {
		c.envelope = envelope
	}
}

// WithMaxImageBytes sets the image ceiling checked before sending.
func WithMaxImageBytes(n int64) Option {
	return func(c *Client) {
		c.maxImageBytes = n
	}
}

// WithMaxBodyBytes sets the ceiling for an encoded create request.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		c.maxBodyBytes = n
	}
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog URL %q: expected http(s)://host", baseURL)
	}

	c := &Client{
		baseURL:       strings.TrimRight(u.String(), "/"),
		path:          DefaultPath,
		http:          &http.Client{Timeout: DefaultTimeout},
		maxImageBytes: DefaultMaxImageBytes,
		maxBodyBytes:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.envelope != "" && c.envelope != EnvelopeData {
		return nil, fmt.Errorf("unsupported envelope %q", c.envelope)
	}
	if !strings.HasPrefix(c.path, "/") {
		c.path = "/" + c.path
	}
	c.path = strings.TrimRight(c.path, "/")
	if c.timeout <= 0 && c.http.Timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// Timeout reports the bound applied to every call.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// List retrieves the listings in the given category. An empty category or
// models.CategoryAll returns every listing.
func (c *Client) List(ctx context.Context, category models.Category) ([]models.Listing, error) {
	target := c.baseURL + c.path
	if !category.MatchesAll() {
		target += "?" + url.Values{"category": {string(category)}}.Encode()
	}

	listings := []models.Listing{}
	if err := c.do(ctx, http.MethodGet, target, nil, http.StatusOK, &listings); err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

// Get retrieves a single listing by its ID.
func (c *Client) Get(ctx context.Context, id int64) (*models.Listing, error) {
	target := c.baseURL + c.path + "/" + strconv.FormatInt(id, 10)

	var listing models.Listing
	err := c.do(ctx, http.MethodGet, target, nil, http.StatusOK, &listing)
	if err != nil {
		var reqErr *apperrors.RequestError
		if apperrors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
			reqErr.Err = apperrors.NewNotFoundError("listing", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return &listing, nil
}

// Create validates the input locally and sends it to the server. The returned
// listing carries the id the server assigned.
func (c *Client) Create(ctx context.Context, input models.ListingInput) (*models.Listing, error) {
	input = input.Normalized()

	if size := int64(len(input.Image)); size > c.maxImageBytes {
		return nil, apperrors.NewPayloadTooLargeError("image", size, c.maxImageBytes)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode listing: %w", err)
	}
	if size := int64(len(body)); size > c.maxBodyBytes {
		return nil, apperrors.NewPayloadTooLargeError("request body", size, c.maxBodyBytes)
	}

	var listing models.Listing
	if err := c.do(ctx, http.MethodPost, c.baseURL+c.path, body, http.StatusCreated, &listing); err != nil {
		return nil, err
	}
	if listing.ID <= 0 {
		return nil, apperrors.NewRequestError(http.MethodPost, c.baseURL+c.path, 0,
			fmt.Errorf("response carries no listing id"))
	}
	return &listing, nil
}

// errorBody is the server's error shape.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, want int, out interface{}) error {
	logger := logging.FromContext(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperrors.NewRequestError(method, target, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("method", method).Str("url", target).Msg("Catalog request failed")
		return apperrors.NewRequestError(method, target, 0, err)
	}
	defer resp.Body.Close()

	logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Catalog request")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return apperrors.NewRequestError(method, target, 0, fmt.Errorf("read response: %w", err))
	}
	if int64(len(raw)) > maxResponseBytes {
		return apperrors.NewRequestError(method, target, 0,
			apperrors.NewPayloadTooLargeError("response body", -1, maxResponseBytes))
	}

	if resp.StatusCode != want {
		return apperrors.NewRequestError(method, target, resp.StatusCode, statusError(resp.StatusCode, raw))
	}

	if err := c.decode(raw, out); err != nil {
		return apperrors.NewRequestError(method, target, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) decode(raw []byte, out interface{}) error {
	if c.envelope == EnvelopeData {
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return err
		}
		if len(wrapped.Data) == 0 {
			return fmt.Errorf("missing %q field", EnvelopeData)
		}
		raw = wrapped.Data
	}
	return json.Unmarshal(raw, out)
}

// statusError turns a non-success response into the most specific error kind
// it describes.
func statusError(status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Message
	switch {
	case message == "":
		message = body.Error
	case body.Error != "":
		message += ": " + body.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest && len(body.Errors) > 0:
		return &apperrors.ValidationError{Fields: body.Errors}
	case status == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", apperrors.ErrPayloadTooLarge, message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, message)
	default:
		return fmt.Errorf("%s", message)
	}
}
