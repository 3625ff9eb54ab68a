package products

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Unknown is shown in place of a value the catalog does not have.
const Unknown = "-"

// FormatPrice renders a price with two decimals and a dollar sign.
func FormatPrice(p *float64) string {
	if p == nil {
		return Unknown
	}
	return "$" + decimal.NewFromFloat(*p).StringFixed(2)
}

// FormatStock renders a stock count.
func FormatStock(s *int) string {
	if s == nil {
		return Unknown
	}
	return strconv.Itoa(*s)
}

// FormatText renders a string field, showing Unknown for blanks.
func FormatText(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
