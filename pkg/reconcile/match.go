package reconcile

import (
	"github.com/vroomi/stocksync/pkg/sources"
)

// Match is the transient outcome of reconciling one catalog entry. Matches
// exist only for the duration of a run; the output builder projects the
// emittable subset into update rows.
type Match struct {
	// CatalogSKU is the raw SKU as it appears in the catalog export; output
	// rows carry this form, never the normalized key.
	CatalogSKU string

	// Source is the supplier source the entry resolved to, or None.
	Source sources.ID

	// Quantity is the resolved quantity after negative clamping.
	// Meaningless when Source is None or the match was filtered.
	Quantity int

	// CatalogQuantity is the quantity the catalog currently holds.
	CatalogQuantity int

	// Ambiguous marks entries that matched more than one source before
	// priority resolution.
	Ambiguous bool

	// Filtered marks entries whose code matched but whose brand fell
	// outside the allow-list; treated like unmatched for output purposes.
	Filtered bool

	// NoChange marks matched entries whose resolved quantity equals the
	// catalog quantity.
	NoChange bool

	// Clamped marks entries whose supplier quantity was negative.
	Clamped bool
}

// Matched reports whether the entry resolved to a supplier record that is
// eligible for an update.
func (m Match) Matched() bool {
	return m.Source != sources.None && !m.Filtered
}

// Update is one row of the bulk-update import file: the catalog identifier
// and its new quantity.
type Update struct {
	SKU      string `json:"sku" yaml:"sku"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// IncludeFunc decides whether a match contributes an output row.
type IncludeFunc func(Match) bool

// Include returns the output predicate for the configured no-change policy.
// Unmatched and filtered entries never emit.
func Include(unchanged bool) IncludeFunc {
	return func(m Match) bool {
		if !m.Matched() {
			return false
		}
		return unchanged || !m.NoChange
	}
}

// BuildUpdates projects matches into output rows, preserving the relative
// order of the catalog input. Pure projection, no other side effects.
func BuildUpdates(matches []Match, include IncludeFunc) []Update {
	updates := make([]Update, 0, len(matches))
	for _, m := range matches {
		if include(m) {
			updates = append(updates, Update{SKU: m.CatalogSKU, Quantity: m.Quantity})
		}
	}
	return updates
}
