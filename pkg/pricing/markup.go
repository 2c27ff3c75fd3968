package pricing

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/normalize"
)

// MarkupTable maps a normalized brand name to its price multiplier. Keys are
// normalized with normalize.Trademark so lookups survive casing and spacing
// differences between the markup file and the catalog tags.
type MarkupTable map[string]decimal.Decimal

// ParseMarkupTable reads a tab-separated markup listing of the form
//
//	TRADEMARK\tMarkup
//	BBURAGO\t1,9
//
// The first line is treated as a header and skipped. Markup values use
// either a dot or a European decimal comma. Blank lines and lines without a
// value column are ignored.
func ParseMarkupTable(r io.Reader) (MarkupTable, error) {
	table := make(MarkupTable)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 2 {
			continue
		}

		brand := normalize.Trademark(fields[0])
		raw := strings.TrimSpace(strings.ReplaceAll(fields[1], ",", "."))
		if brand == "" || raw == "" {
			continue
		}

		markup, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &errors.ParseError{
				Format:  "markup table",
				Line:    line,
				Message: "invalid markup value " + fields[1],
				Err:     err,
			}
		}
		table[brand] = markup
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapParse("markup", "", err)
	}
	return table, nil
}

// LoadMarkupTable reads a markup table from a file on disk.
func LoadMarkupTable(path string) (MarkupTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()
	return ParseMarkupTable(f)
}

// Lookup returns the markup for a brand, normalizing the key first.
func (t MarkupTable) Lookup(brand string) (decimal.Decimal, bool) {
	m, ok := t[normalize.Trademark(brand)]
	return m, ok
}
