package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantherexchange/internal/handlers"
	"pantherexchange/internal/models"
	"pantherexchange/internal/repositories"
	"pantherexchange/internal/services"
	apperrors "pantherexchange/pkg/errors"
)

func startServer(t *testing.T) string {
	t.Helper()

	catalog := services.NewCatalogService(repositories.NewMemoryListingRepository(), nil, services.CatalogOptions{})
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, DisableStartupMessage: true})
	handlers.NewListingHandler(catalog, handlers.ListingHandlerOptions{}).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_CreateListGet(t *testing.T) {
	url := startServer(t)

	out, err := execute(t, "--url", url, "-o", "json", "create",
		"--title", "Premium Desk Chair",
		"--price", "$1,200",
		"--category", "Furniture",
		"--address", "Cathedral of Learning",
		"--seller", "Sam")
	require.NoError(t, err)
	var created models.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, models.Price(1200), created.Price)
	assert.Equal(t, "Sam", created.SellerName)

	_, err = execute(t, "--url", url, "-o", "json", "create",
		"--title", "Laptop Charger", "--price", "15", "--category", "Electronics")
	require.NoError(t, err)

	out, err = execute(t, "--url", url, "-o", "table", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Premium Desk Chair")
	assert.Contains(t, out, "$1,200.00")
	assert.Contains(t, out, "Laptop Charger")

	out, err = execute(t, "--url", url, "-o", "json", "list", "--category", "Electronics")
	require.NoError(t, err)
	var electronics []models.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &electronics))
	require.Len(t, electronics, 1)
	assert.Equal(t, "Laptop Charger", electronics[0].Title)

	out, err = execute(t, "--url", url, "-o", "yaml", "get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Laptop Charger")

	out, err = execute(t, "--url", url, "-o", "table", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cathedral of Learning")
}

func TestCommands_ListEmpty(t *testing.T) {
	url := startServer(t)

	out, err := execute(t, "--url", url, "-o", "table", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No listings found")
}

func TestCommands_Errors(t *testing.T) {
	url := startServer(t)

	_, err := execute(t, "--url", url, "get", "99")
	require.Error(t, err)
	assert.Equal(t, ExitRequestFailed, ExitCode(err))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = execute(t, "--url", url, "get", "abc")
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	_, err = execute(t, "--url", url, "create", "--title", "Toy", "--price", "5", "--category", "Toys")
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	_, err = execute(t, "--url", url, "create", "--title", "Toy", "--price", "cheap", "--category", "Other")
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	_, err = execute(t, "--url", url, "create", "--title", "Toy", "--price", "1e400", "--category", "Other")
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	_, err = execute(t, "--url", url, "-o", "xml", "list")
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	_, err = execute(t, "--url", "not a url", "-o", "json", "list")
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	// nothing listens on port 1
	_, err = execute(t, "--url", "http://127.0.0.1:1", "-o", "json", "list")
	assert.Equal(t, ExitRequestFailed, ExitCode(err))

	out, err := execute(t, "--url", url, "-o", "json", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, "-o", "json", "categories")
	require.NoError(t, err)

	var rows []categoryRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, len(models.Categories)+1)
	assert.Equal(t, models.CategoryAll, rows[0].Name)
	assert.True(t, rows[0].FilterOnly)

	out, err = execute(t, "-o", "table", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "filter only")
	assert.Contains(t, out, "Clothing")
}

func TestImageDataURI(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "chair.png")
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, os.WriteFile(png, pngHeader, 0o600))

	uri, err := imageDataURI(png, 1024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	_, err = imageDataURI(png, 8)
	assert.True(t, apperrors.Is(err, apperrors.ErrPayloadTooLarge))

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0o600))
	_, err = imageDataURI(notes, 1024)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = imageDataURI(filepath.Join(dir, "missing.png"), 1024)
	assert.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$50.00", formatPrice(50, "USD"))
	assert.Equal(t, "$1,200.00", formatPrice(1200, ""))
	assert.Equal(t, "EUR 15.50", formatPrice(15.5, "EUR"))
}

func TestDescribeImage(t *testing.T) {
	assert.Equal(t, "https://example.com/a.jpg", describeImage("https://example.com/a.jpg"))
	assert.Contains(t, describeImage("data:image/png;base64,AAAA"), "inline image/png")
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitPayloadTooLarge, ExitCode(apperrors.NewPayloadTooLargeError("image", 10, 5)))
	assert.Equal(t, ExitInvalidInput, ExitCode(apperrors.NewValidationError("title", "is required")))
	assert.Equal(t, ExitRequestFailed, ExitCode(apperrors.NewRequestError("GET", "http://x", 500, nil)))
	assert.Equal(t, ExitError, ExitCode(assert.AnError))
}
