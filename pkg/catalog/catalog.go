// Package catalog models the e-commerce catalog export whose quantities are
// being corrected.
package catalog

import (
	"strings"

	"github.com/vroomi/stocksync/pkg/tabular"
)

// Columns names the catalog columns the reconciler reads. Additional
// columns in the export are passed through untouched.
type Columns struct {
	SKU       string `yaml:"sku"`
	Quantity  string `yaml:"quantity"`
	Trademark string `yaml:"trademark"` // optional; catalog rows often carry no brand
}

// DefaultColumns returns the column names of the standard Shopify-style
// products export.
func DefaultColumns() Columns {
	return Columns{
		SKU:      "Variant SKU",
		Quantity: "Variant Inventory Qty",
	}
}

// Entry is one row from the catalog export.
type Entry struct {
	SKU       string
	Quantity  int
	Trademark string // blank when the export carries no brand column
	Line      int    // 1-based data row number in the source table

	// MalformedQuantity marks rows whose quantity cell held text that did
	// not parse as a number. The row reads as quantity 0 and still
	// reconciles; the condition is counted, not fatal.
	MalformedQuantity bool
}

// Parse converts a catalog table into entries. SKU and quantity columns are
// required; a configured trademark column is read when present and silently
// skipped otherwise. Duplicate SKUs are kept here in input order, the
// reconciler counts and skips them during its pass.
func Parse(t *tabular.Table, cols Columns) ([]Entry, error) {
	idxs, err := t.Require(cols.SKU, cols.Quantity)
	if err != nil {
		return nil, err
	}
	skuIdx, qtyIdx := idxs[0], idxs[1]

	tmIdx, hasTrademark := -1, false
	if cols.Trademark != "" {
		tmIdx, hasTrademark = t.Column(cols.Trademark)
	}

	entries := make([]Entry, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		raw := t.Cell(i, qtyIdx)
		qty, ok := tabular.Quantity(raw)
		entry := Entry{
			SKU:               t.Cell(i, skuIdx),
			Quantity:          qty,
			Line:              i + 1,
			MalformedQuantity: !ok && strings.TrimSpace(raw) != "",
		}
		if hasTrademark {
			entry.Trademark = t.Cell(i, tmIdx)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
