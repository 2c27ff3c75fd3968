package reconcile

import (
	"fmt"
	"time"

	"github.com/vroomi/stocksync/pkg/sources"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// Matches holds one entry per considered catalog row, in input order.
	Matches []Match

	// Updates is the output row set, in catalog input order.
	Updates []Update

	// Stats is the read-only counter snapshot for the run.
	Stats Stats

	// DuplicateCodes lists the individual supplier key collisions, for the
	// run report's duplicate-code section.
	DuplicateCodes []DuplicateCode

	// Metadata contains metadata about the run.
	Metadata Metadata
}

// DuplicateCode is one supplier key collision, annotated with whether the
// colliding row's brand passes the allow-list policy.
type DuplicateCode struct {
	Source    string `json:"source" yaml:"source"`
	Code      string `json:"code" yaml:"code"`
	Trademark string `json:"trademark" yaml:"trademark"`
	Line      int    `json:"line" yaml:"line"`
	Allowed   bool   `json:"allowed" yaml:"allowed"`
}

// Metadata contains metadata about the reconciliation run.
type Metadata struct {
	// StartTime when reconciliation started.
	StartTime time.Time

	// EndTime when reconciliation completed.
	EndTime time.Time

	// Duration of the run.
	Duration time.Duration

	// Sources that were consulted, in lookup order.
	Sources []sources.ID

	// Strategy used for conflict resolution.
	Strategy StrategyType

	// IncludeUnchanged records the no-change output policy for the run.
	IncludeUnchanged bool
}

// HasUpdates returns true if the run produced any output rows.
func (r *Result) HasUpdates() bool {
	return len(r.Updates) > 0
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	s := r.Stats
	return fmt.Sprintf(
		"Reconciled %d catalog rows in %s: %d matched, %d unmatched, %d filtered, %d ambiguous, %d updates emitted",
		s.RowsSeen, r.Metadata.Duration.Round(time.Millisecond),
		s.MatchedTotal(), s.Unmatched, s.Filtered, s.Ambiguous, s.Updates,
	)
}

// newResult creates a result with run metadata started.
func newResult(srcs []sources.ID, strategy StrategyType, includeUnchanged bool) *Result {
	return &Result{
		Metadata: Metadata{
			StartTime:        time.Now(),
			Sources:          srcs,
			Strategy:         strategy,
			IncludeUnchanged: includeUnchanged,
		},
	}
}

// finalize calculates duration and marks completion.
func (r *Result) finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
