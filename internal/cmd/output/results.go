package output

import (
	"os"
	"strconv"

	"github.com/vroomi/stocksync/pkg/pricing"
	"github.com/vroomi/stocksync/pkg/reconcile"
)

// FormatUpdates writes the quantity update rows in the requested format.
func FormatUpdates(updates []reconcile.Update, format Format) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, "":
		rows := make([][]string, 0, len(updates))
		for _, u := range updates {
			rows = append(rows, []string{u.SKU, strconv.Itoa(u.Quantity)})
		}
		data = Data{Headers: []string{"SKU", "Quantity"}, Rows: rows}
	default:
		data = updates
	}

	return formatter.Format(os.Stdout, data)
}

// FormatStats writes the run counters in the requested format.
func FormatStats(stats reconcile.Stats, format Format) error {
	return NewFormatter(format).Format(os.Stdout, stats)
}

// FormatPriceUpdates writes the price update rows in the requested format.
func FormatPriceUpdates(updates []pricing.PriceUpdate, format Format) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, "":
		rows := make([][]string, 0, len(updates))
		for _, u := range updates {
			rows = append(rows, []string{u.SKU, u.Cost.StringFixed(2), u.Price.StringFixed(2)})
		}
		data = Data{Headers: []string{"SKU", "Cost", "Price"}, Rows: rows}
	default:
		data = updates
	}

	return formatter.Format(os.Stdout, data)
}
