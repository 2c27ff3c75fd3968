// Package pricing recomputes catalog costs and prices from the supplier
// cost columns the export carries. BBR products take their cost from the
// CostoBBRModels column and price at a fixed markup; MCWS products take
// their cost from the Net Price column and price at a per-brand markup from
// the markup table.
package pricing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vroomi/stocksync/pkg/brands"
	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/sources"
	"github.com/vroomi/stocksync/pkg/tabular"
)

// Columns names the catalog export columns the pricing pass reads.
type Columns struct {
	SKU      string `yaml:"sku" mapstructure:"sku"`
	Cost     string `yaml:"cost" mapstructure:"cost"`
	Price    string `yaml:"price" mapstructure:"price"`
	Tags     string `yaml:"tags" mapstructure:"tags"`
	BBRCost  string `yaml:"bbr_cost" mapstructure:"bbr_cost"`
	NetPrice string `yaml:"net_price" mapstructure:"net_price"`
}

// DefaultColumns returns the column names of the standard catalog export.
func DefaultColumns() Columns {
	return Columns{
		SKU:      "Variant SKU",
		Cost:     "Variant Cost",
		Price:    "Variant Price",
		Tags:     "Tags",
		BBRCost:  "CostoBBRModels",
		NetPrice: "Net Price",
	}
}

// DefaultBBRMarkup is the fixed multiplier applied to BBR costs.
var DefaultBBRMarkup = decimal.NewFromFloat(1.75)

var brandTagPattern = regexp.MustCompile(`brand_([a-z0-9\-]+)`)

// BrandFromTags extracts the brand name from a catalog tags field. Tags of
// the form "brand_bbr-models" win; otherwise any known brand name appearing
// verbatim in the tags is used. Returns "" when no brand is recognizable.
func BrandFromTags(tags string, known *brands.AllowList) string {
	if tags == "" {
		return ""
	}
	lower := strings.ToLower(tags)

	if m := brandTagPattern.FindStringSubmatch(lower); m != nil {
		return normalize.Trademark(strings.ReplaceAll(m[1], "-", " "))
	}

	if known != nil {
		for _, name := range known.Names() {
			needle := strings.ToLower(strings.ReplaceAll(name, "-", " "))
			if strings.Contains(lower, needle) {
				return name
			}
		}
	}
	return ""
}

// PriceUpdate is one output row of the price pass: the catalog identifier
// with its recomputed cost and price.
type PriceUpdate struct {
	SKU   string          `json:"sku" yaml:"sku"`
	Cost  decimal.Decimal `json:"cost" yaml:"cost"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

// PriceStats accumulates counters for one price pass.
type PriceStats struct {
	RowsSeen            int            `json:"rows_seen" yaml:"rows_seen"`
	CostUpdates         map[string]int `json:"cost_updates" yaml:"cost_updates"`
	PriceUpdates        map[string]int `json:"price_updates" yaml:"price_updates"`
	BySource            map[string]int `json:"by_source" yaml:"by_source"`
	Unidentified        int            `json:"unidentified" yaml:"unidentified"`
	MissingMarkupBrands []string       `json:"missing_markup_brands" yaml:"missing_markup_brands"`
}

// PriceResult is the outcome of a price pass.
type PriceResult struct {
	Updates []PriceUpdate
	Stats   PriceStats
}

// Pricer recomputes costs and prices for catalog rows.
type Pricer struct {
	columns   Columns
	markups   MarkupTable
	bbrMarkup decimal.Decimal
	known     *brands.AllowList
}

// NewPricer creates a pricer. The markup table supplies per-brand MCWS
// multipliers; known brands improve tag-based brand extraction.
func NewPricer(markups MarkupTable, known *brands.AllowList, opts ...PricerOption) (*Pricer, error) {
	p := &Pricer{
		columns:   DefaultColumns(),
		markups:   markups,
		bbrMarkup: DefaultBBRMarkup,
		known:     known,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// PricerOption configures a Pricer.
type PricerOption func(*Pricer) error

// WithColumns overrides the catalog column names.
func WithColumns(cols Columns) PricerOption {
	return func(p *Pricer) error {
		if cols.SKU == "" || cols.Cost == "" || cols.Price == "" {
			return &errors.ValidationError{
				Field:   "columns",
				Message: "sku, cost and price column names are required",
			}
		}
		p.columns = cols
		return nil
	}
}

// WithBBRMarkup overrides the fixed BBR multiplier.
func WithBBRMarkup(markup decimal.Decimal) PricerOption {
	return func(p *Pricer) error {
		if markup.LessThanOrEqual(decimal.Zero) {
			return &errors.ValidationError{
				Field:   "bbr_markup",
				Value:   markup.String(),
				Message: "must be positive",
			}
		}
		p.bbrMarkup = markup
		return nil
	}
}

// Run computes cost and price updates for every row of a catalog export.
// Only rows where the cost or the price actually changed are emitted.
func (p *Pricer) Run(t *tabular.Table) (*PriceResult, error) {
	idx, err := t.Require(p.columns.SKU, p.columns.Cost, p.columns.Price)
	if err != nil {
		return nil, err
	}
	skuCol, costCol, priceCol := idx[0], idx[1], idx[2]

	// The supplier cost columns are optional; rows without them fall back
	// to brand identification.
	bbrCol, hasBBR := t.Column(p.columns.BBRCost)
	netCol, hasNet := t.Column(p.columns.NetPrice)
	tagsCol, hasTags := t.Column(p.columns.Tags)

	stats := PriceStats{
		CostUpdates:  make(map[string]int),
		PriceUpdates: make(map[string]int),
		BySource:     make(map[string]int),
	}
	missing := make(map[string]bool)
	var updates []PriceUpdate

	for row := 0; row < t.Len(); row++ {
		stats.RowsSeen++

		sku := strings.TrimSpace(t.Cell(row, skuCol))
		if sku == "" {
			continue
		}

		cost, _ := Money(t.Cell(row, costCol))
		price, _ := Money(t.Cell(row, priceCol))
		var bbrCost, netPrice decimal.Decimal
		if hasBBR {
			bbrCost, _ = Money(t.Cell(row, bbrCol))
		}
		if hasNet {
			netPrice, _ = Money(t.Cell(row, netCol))
		}
		var tags string
		if hasTags {
			tags = t.Cell(row, tagsCol)
		}

		src := p.identify(bbrCost, netPrice, cost, tags)
		if src == sources.None {
			stats.Unidentified++
			continue
		}
		stats.BySource[src.String()]++

		newCost := cost
		switch src {
		case sources.BBR:
			if bbrCost.IsPositive() && !cost.Equal(bbrCost) {
				newCost = bbrCost
				stats.CostUpdates[src.String()]++
			}
		case sources.MCWS:
			if netPrice.IsPositive() && !cost.Equal(netPrice) {
				newCost = netPrice
				stats.CostUpdates[src.String()]++
			}
		}

		newPrice := price
		switch src {
		case sources.BBR:
			expected := newCost.Mul(p.bbrMarkup).Round(2)
			if !price.Equal(expected) {
				newPrice = expected
				stats.PriceUpdates[src.String()]++
			}
		case sources.MCWS:
			brand := BrandFromTags(tags, p.known)
			if markup, ok := p.markups.Lookup(brand); ok {
				expected := newCost.Mul(markup).Round(2)
				if !price.Equal(expected) {
					newPrice = expected
					stats.PriceUpdates[src.String()]++
				}
			} else if brand != "" {
				missing[brand] = true
			}
		}

		if !newCost.Equal(cost) || !newPrice.Equal(price) {
			updates = append(updates, PriceUpdate{SKU: sku, Cost: newCost, Price: newPrice})
		}
	}

	for brand := range missing {
		stats.MissingMarkupBrands = append(stats.MissingMarkupBrands, brand)
	}
	sort.Strings(stats.MissingMarkupBrands)

	return &PriceResult{Updates: updates, Stats: stats}, nil
}

// identify decides which supplier a catalog row belongs to. A positive BBR
// cost marks it BBR, a positive net price marks it MCWS; rows with neither
// but a known cost fall back to the tag brand, defaulting to MCWS.
func (p *Pricer) identify(bbrCost, netPrice, cost decimal.Decimal, tags string) sources.ID {
	if bbrCost.IsPositive() {
		return sources.BBR
	}
	if netPrice.IsPositive() {
		return sources.MCWS
	}
	if !cost.IsPositive() {
		return sources.None
	}
	if brand := BrandFromTags(tags, p.known); strings.Contains(brand, "BBR") {
		return sources.BBR
	}
	return sources.MCWS
}

// Money parses a monetary cell, accepting a European decimal comma. The
// second return is false for blank or unparseable cells, which read as zero.
func Money(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
