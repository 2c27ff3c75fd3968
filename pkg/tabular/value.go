package tabular

import (
	"strconv"
	"strings"
)

// Quantity parses a stock quantity cell. Supplier exports use European
// decimal commas and occasional grouping spaces ("1 234,0"), and some feeds
// ship fractional quantities for what is logically a unit count; the value
// is truncated toward zero. Malformed or empty cells parse as 0, a
// data-quality condition the caller counts rather than fails on.
func Quantity(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
