package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a decimal amount that travels as a bare JSON number. It also accepts
// numeric strings on input.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// MustPrice parses s and panics on failure. Intended for fixtures.
func MustPrice(s string) Price {
	return Price{Decimal: decimal.RequireFromString(s)}
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDecimal(data)
	if err != nil {
		return err
	}
	p.Decimal = parsed
	return nil
}

// ParseDecimal reads a JSON number or numeric string. null and empty input
// yield zero.
func ParseDecimal(data []byte) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, fmt.Errorf("price: %w", err)
		}
		raw = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price: %w", err)
	}
	return d, nil
}
