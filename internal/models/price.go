package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount in the catalog's display currency, rounded to
// cents. At the boundary it accepts either a number (50, 12.5) or a
// formatted string ("$50", "1,200.00").
type Price float64

// MaxPrice is the largest amount a listing may ask for.
const MaxPrice Price = 1_000_000_000

var maxPriceDecimal = decimal.NewFromFloat(float64(MaxPrice))

// ParsePrice normalizes a formatted price string. A leading currency symbol
// and grouping commas are dropped.
func ParsePrice(s string) (Price, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimLeftFunc(trimmed, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '+' && r != '.'
	})
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	if trimmed == "" {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return priceFromDecimal(d)
}

// priceFromDecimal rounds d to cents. Amounts beyond MaxPrice in either
// direction are rejected.
func priceFromDecimal(d decimal.Decimal) (Price, error) {
	if d.Abs().GreaterThan(maxPriceDecimal) {
		return 0, fmt.Errorf("invalid price %s: exceeds the maximum of %s", d.String(), maxPriceDecimal.String())
	}
	return Price(d.Round(2).InexactFloat64()), nil
}

// Finite reports whether p is neither infinite nor NaN.
func (p Price) Finite() bool {
	return !math.IsInf(float64(p), 0) && !math.IsNaN(float64(p))
}

// UnmarshalJSON accepts a JSON number, a formatted string or null.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", b, err)
	}
	parsed, err := priceFromDecimal(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (p *Price) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = 0
	case string:
		parsed, err := ParsePrice(v)
		if err != nil {
			return err
		}
		*p = parsed
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("invalid price %v", v)
		}
		parsed, err := priceFromDecimal(decimal.NewFromFloat(v))
		if err != nil {
			return err
		}
		*p = parsed
	case int:
		return p.setInt(decimal.NewFromInt(int64(v)))
	case int64:
		return p.setInt(decimal.NewFromInt(v))
	case uint64:
		return p.setInt(decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0))
	default:
		return fmt.Errorf("invalid price %v", raw)
	}
	return nil
}

func (p *Price) setInt(d decimal.Decimal) error {
	parsed, err := priceFromDecimal(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Format renders the price with a currency symbol and two decimals, e.g. "$50.00".
func (p Price) Format(symbol string) string {
	if !p.Finite() {
		return symbol + strconv.FormatFloat(float64(p), 'f', 2, 64)
	}
	return symbol + decimal.NewFromFloat(float64(p)).StringFixed(2)
}
