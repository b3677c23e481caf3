package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pantherexchange/internal/models"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates s. An empty value picks table on a terminal and JSON
// when stdout is piped.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	case "":
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return FormatTable, nil
		}
		return FormatJSON, nil
	default:
		return "", usageError("invalid output format %q: must be one of: table, json, yaml", s)
	}
}

var printer = message.NewPrinter(language.English)

// formatPrice renders a price with grouping, e.g. "$1,200.00" or "EUR 15.00".
func formatPrice(price models.Price, currency string) string {
	amount := printer.Sprintf("%.2f", float64(price))
	if currency == "" || currency == "USD" {
		return "$" + amount
	}
	return currency + " " + amount
}

// describeImage keeps inline images from flooding the terminal.
func describeImage(image string) string {
	if strings.HasPrefix(image, "data:") {
		mediaType := strings.TrimPrefix(image, "data:")
		if i := strings.IndexAny(mediaType, ";,"); i >= 0 {
			mediaType = mediaType[:i]
		}
		return printer.Sprintf("inline %s (%d bytes)", mediaType, len(image))
	}
	return image
}

func writeStructured(w io.Writer, format Format, data any) error {
	switch format {
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewTable(w)

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	table.Header(headerCells...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeListings(w io.Writer, format Format, listings []models.Listing) error {
	if format != FormatTable {
		return writeStructured(w, format, listings)
	}
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No listings found")
		return err
	}

	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			strconv.FormatInt(l.ID, 10),
			l.Title,
			string(l.Category),
			formatPrice(l.Price, l.Currency),
			l.Address,
			l.SellerName,
		})
	}
	return renderTable(w, []string{"ID", "Title", "Category", "Price", "Address", "Seller"}, rows)
}

func writeListing(w io.Writer, format Format, l *models.Listing) error {
	if format != FormatTable {
		return writeStructured(w, format, l)
	}

	rows := [][]string{
		{"ID", strconv.FormatInt(l.ID, 10)},
		{"Title", l.Title},
		{"Category", string(l.Category)},
		{"Price", formatPrice(l.Price, l.Currency)},
		{"Address", l.Address},
		{"Description", l.Description},
	}
	if l.SellerName != "" {
		rows = append(rows, []string{"Seller", l.SellerName})
	}
	if l.Image != "" {
		rows = append(rows, []string{"Image", describeImage(l.Image)})
	}
	if !l.CreatedAt.IsZero() {
		rows = append(rows, []string{"Created", l.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	return renderTable(w, []string{"Field", "Value"}, rows)
}
