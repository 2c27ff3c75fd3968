package reconcile

// Stats accumulates per-run counters. It is owned exclusively by the
// Reconciler for the duration of one run, mutated at most once per catalog
// row during the pass, and exposed read-only (by value) on the Result once
// the pass completes.
type Stats struct {
	// RowsSeen counts every catalog row the pass looked at.
	RowsSeen int `json:"rows_seen" yaml:"rows_seen"`

	// EmptySKUs counts rows whose SKU normalized to the empty key.
	EmptySKUs int `json:"empty_skus" yaml:"empty_skus"`

	// DuplicateSKUs counts rows whose normalized SKU was already processed
	// earlier in the pass; the first occurrence wins.
	DuplicateSKUs int `json:"duplicate_skus" yaml:"duplicate_skus"`

	// MalformedQuantities counts rows whose quantity cell did not parse as
	// a number; the row reads as quantity 0 and still reconciles.
	MalformedQuantities int `json:"malformed_quantities" yaml:"malformed_quantities"`

	// SupplierDuplicates counts, per source, supplier rows whose code
	// collided with an earlier row during index build.
	SupplierDuplicates map[string]int `json:"supplier_duplicates" yaml:"supplier_duplicates"`

	// Matched counts, per source, rows that matched and passed the
	// trademark filter.
	Matched map[string]int `json:"matched" yaml:"matched"`

	// Ambiguous counts rows that matched more than one source; each such
	// row still resolves to the priority source and is counted here exactly
	// once.
	Ambiguous int `json:"ambiguous" yaml:"ambiguous"`

	// Filtered counts rows with a code match outside the brand allow-list.
	Filtered int `json:"filtered" yaml:"filtered"`

	// Unmatched counts rows present in no supplier index.
	Unmatched int `json:"unmatched" yaml:"unmatched"`

	// NoChange counts matched rows whose resolved quantity equals the
	// catalog quantity.
	NoChange int `json:"no_change" yaml:"no_change"`

	// Clamped counts negative supplier quantities clamped to zero.
	Clamped int `json:"clamped" yaml:"clamped"`

	// Updates counts output rows emitted.
	Updates int `json:"updates" yaml:"updates"`
}

// newStats creates an empty accumulator.
func newStats() *Stats {
	return &Stats{
		SupplierDuplicates: make(map[string]int),
		Matched:            make(map[string]int),
	}
}

// MatchedTotal returns the number of matched rows across all sources.
func (s *Stats) MatchedTotal() int {
	total := 0
	for _, n := range s.Matched {
		total += n
	}
	return total
}

// Considered returns the number of catalog rows that reached the match
// step: rows seen minus the empty- and duplicate-SKU data-quality skips.
func (s *Stats) Considered() int {
	return s.RowsSeen - s.EmptySKUs - s.DuplicateSKUs
}

// Balanced reports whether every considered row landed in exactly one of
// the unmatched, filtered or matched buckets. It holds for every run and is
// checked by the reconciler after the pass.
func (s *Stats) Balanced() bool {
	return s.Unmatched+s.Filtered+s.MatchedTotal() == s.Considered()
}
