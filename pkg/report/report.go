// Package report renders a Markdown summary of a run for operator review:
// the counter table, per-source match numbers, the supplier duplicate
// listing, the per-SKU change log and the pricing section.
package report

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/pricing"
	"github.com/vroomi/stocksync/pkg/reconcile"
	"github.com/vroomi/stocksync/pkg/sources"
)

// Report bundles the run artifacts that feed the Markdown summary. Either
// part may be absent: a reconciliation-only run omits the pricing section
// and a price-only run omits the counters, but at least one must be set.
type Report struct {
	Result *reconcile.Result
	Price  *pricing.PriceResult
}

// Write renders the report to w.
func (r *Report) Write(w io.Writer) error {
	if r.Result == nil && r.Price == nil {
		return &errors.ValidationError{Field: "report", Message: "needs a reconciliation result or a price result"}
	}

	doc := md.NewMarkdown(w)
	doc.H1("Inventory Sync Report").LF()

	if r.Result != nil {
		writeReconcileSections(doc, r.Result)
	}
	if r.Price != nil {
		writePriceSection(doc, r.Price)
	}

	return doc.Build()
}

func writeReconcileSections(doc *md.Markdown, result *reconcile.Result) {
	meta := result.Metadata
	stats := result.Stats

	doc.PlainTextf("Run completed %s in %s.",
		meta.EndTime.Format(time.RFC3339), meta.Duration.Round(time.Millisecond)).LF()
	doc.PlainTextf("Sources consulted: %s. Conflict strategy: %s.",
		joinSources(meta.Sources), meta.Strategy).LF()

	doc.H2("Counters").LF()
	doc.Table(md.TableSet{
		Header: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Catalog rows seen", strconv.Itoa(stats.RowsSeen)},
			{"Empty SKUs skipped", strconv.Itoa(stats.EmptySKUs)},
			{"Duplicate SKUs skipped", strconv.Itoa(stats.DuplicateSKUs)},
			{"Malformed quantities", strconv.Itoa(stats.MalformedQuantities)},
			{"Matched", strconv.Itoa(stats.MatchedTotal())},
			{"Unmatched", strconv.Itoa(stats.Unmatched)},
			{"Filtered by brand policy", strconv.Itoa(stats.Filtered)},
			{"Ambiguous (multi-source)", strconv.Itoa(stats.Ambiguous)},
			{"Clamped to zero", strconv.Itoa(stats.Clamped)},
			{"No change", strconv.Itoa(stats.NoChange)},
			{"Updates emitted", strconv.Itoa(stats.Updates)},
		},
	}).LF()

	doc.H2("Per-Source Matches").LF()
	doc.Table(md.TableSet{
		Header: []string{"Source", "Matched", "Supplier Duplicates"},
		Rows:   perSourceRows(stats),
	}).LF()

	if rows := duplicateRows(result.DuplicateCodes); len(rows) > 0 {
		doc.H2("Duplicate Supplier Codes").LF()
		doc.Table(md.TableSet{
			Header: []string{"Source", "Code", "Trademark", "Allowed", "Line"},
			Rows:   rows,
		}).LF()
	}

	if rows := changeRows(result.Matches); len(rows) > 0 {
		doc.H2("Change Log").LF()
		doc.Table(md.TableSet{
			Header: []string{"SKU", "Source", "Old Qty", "New Qty", "Notes"},
			Rows:   rows,
		}).LF()
	}
}

// WriteFile renders the report to a file on disk.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func joinSources(ids []sources.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ", ")
}

func perSourceRows(stats reconcile.Stats) [][]string {
	names := make([]string, 0, len(stats.Matched))
	for name := range stats.Matched {
		names = append(names, name)
	}
	for name := range stats.SupplierDuplicates {
		if _, ok := stats.Matched[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{
			name,
			strconv.Itoa(stats.Matched[name]),
			strconv.Itoa(stats.SupplierDuplicates[name]),
		})
	}
	return rows
}

func duplicateRows(dups []reconcile.DuplicateCode) [][]string {
	rows := make([][]string, 0, len(dups))
	for _, d := range dups {
		rows = append(rows, []string{
			d.Source,
			d.Code,
			d.Trademark,
			strconv.FormatBool(d.Allowed),
			strconv.Itoa(d.Line),
		})
	}
	return rows
}

func changeRows(matches []reconcile.Match) [][]string {
	var rows [][]string
	for _, m := range matches {
		if !m.Matched() || m.NoChange {
			continue
		}
		var notes []string
		if m.Ambiguous {
			notes = append(notes, "multi-source")
		}
		if m.Clamped {
			notes = append(notes, "clamped")
		}
		rows = append(rows, []string{
			m.CatalogSKU,
			m.Source.String(),
			strconv.Itoa(m.CatalogQuantity),
			strconv.Itoa(m.Quantity),
			strings.Join(notes, ", "),
		})
	}
	return rows
}

func writePriceSection(doc *md.Markdown, price *pricing.PriceResult) {
	stats := price.Stats

	doc.H2("Pricing").LF()
	doc.PlainTextf("Rows seen: %d. Unidentified: %d.",
		stats.RowsSeen, stats.Unidentified).LF()

	names := make([]string, 0, len(stats.BySource))
	for name := range stats.BySource {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{
			name,
			strconv.Itoa(stats.BySource[name]),
			strconv.Itoa(stats.CostUpdates[name]),
			strconv.Itoa(stats.PriceUpdates[name]),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Source", "Products", "Cost Updates", "Price Updates"},
		Rows:   rows,
	}).LF()

	if len(stats.MissingMarkupBrands) > 0 {
		doc.PlainTextf("Brands without a configured markup: %s.",
			strings.Join(stats.MissingMarkupBrands, ", ")).LF()
	}

	if len(price.Updates) > 0 {
		rows := make([][]string, 0, len(price.Updates))
		for _, u := range price.Updates {
			rows = append(rows, []string{u.SKU, u.Cost.StringFixed(2), u.Price.StringFixed(2)})
		}
		doc.H3("Price Changes").LF()
		doc.Table(md.TableSet{
			Header: []string{"SKU", "New Cost", "New Price"},
			Rows:   rows,
		}).LF()
	}
}
