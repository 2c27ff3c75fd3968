package sources

import (
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/tabular"
)

// Index maps normalized codes to the supplier record that owns them.
// Lookups are constant-time; the reconciliation pass consults one Index per
// configured source for every catalog row.
type Index struct {
	source     ID
	entries    map[normalize.Code]*Record
	duplicates []Duplicate
	rows       int
}

// Duplicate records one key collision during the index build: a later row
// whose normalized code was already present. The colliding row wins the
// index slot; the collision is reported so operators can clean the feed.
type Duplicate struct {
	Code      normalize.Code
	Trademark string
	Line      int
}

// BuildIndex parses a supplier table through its feed and indexes the
// resulting records. When two records normalize to the same key, the later
// record in input order overwrites the earlier one; each overwrite is
// counted rather than failing the run.
func BuildIndex(feed Feed, t *tabular.Table) (*Index, error) {
	records, err := feed.Records(t)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		source:  feed.ID(),
		entries: make(map[normalize.Code]*Record, len(records)),
		rows:    len(records),
	}
	for i := range records {
		rec := &records[i]
		for _, key := range rec.Keys {
			if prev, exists := idx.entries[key]; exists && prev != rec {
				idx.duplicates = append(idx.duplicates, Duplicate{
					Code:      key,
					Trademark: rec.Trademark,
					Line:      rec.Line,
				})
			}
			idx.entries[key] = rec
		}
	}
	return idx, nil
}

// Lookup returns the record for a normalized code. The empty code never
// matches.
func (i *Index) Lookup(code normalize.Code) (*Record, bool) {
	if code == "" {
		return nil, false
	}
	rec, ok := i.entries[code]
	return rec, ok
}

// Source returns the supplier source this index covers.
func (i *Index) Source() ID {
	return i.source
}

// Len returns the number of distinct keys in the index.
func (i *Index) Len() int {
	return len(i.entries)
}

// Rows returns the number of supplier rows that were indexed.
func (i *Index) Rows() int {
	return i.rows
}

// Duplicates returns how many key collisions were overwritten during the
// build.
func (i *Index) Duplicates() int {
	return len(i.duplicates)
}

// DuplicateCodes returns the individual key collisions, in input order.
func (i *Index) DuplicateCodes() []Duplicate {
	out := make([]Duplicate, len(i.duplicates))
	copy(out, i.duplicates)
	return out
}
