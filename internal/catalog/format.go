package catalog

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const dateLayout = "January 2, 2006"

// FormatPrice renders an amount with two decimals in Turkish lira.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " TL"
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// CategoryLabel is the display name for a category filter.
func CategoryLabel(category string) string {
	if strings.TrimSpace(category) == "" {
		return "All"
	}
	return Capitalize(category)
}
