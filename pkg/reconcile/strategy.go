package reconcile

import (
	"fmt"

	"github.com/vroomi/stocksync/pkg/sources"
)

// StrategyType represents the type of conflict-resolution strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// StrategyTypeSourceOrder resolves conflicts using a fixed source
// precedence order.
const StrategyTypeSourceOrder StrategyType = "source-order"

// Candidate is one supplier record competing for a catalog entry. The
// reconciler collects candidates in index order, so resolution fallbacks
// stay deterministic.
type Candidate struct {
	Source sources.ID
	Record *sources.Record
}

// Strategy decides which supplier record wins when a catalog SKU matches
// more than one source.
type Strategy interface {
	// Type returns the strategy type.
	Type() StrategyType

	// Description returns a human-readable description.
	Description() string

	// Resolve picks the winning candidate. The reason string is used in
	// debug logs and the run report.
	Resolve(candidates []Candidate) (*sources.Record, sources.ID, string)
}

// SourceOrderStrategy resolves conflicts using a fixed source precedence
// order. Sources earlier in the priority slice have higher precedence.
type SourceOrderStrategy struct {
	priorityOrder []sources.ID // first element = highest priority
}

// NewSourceOrderStrategy creates a source priority order strategy.
// Earlier elements have higher priority.
func NewSourceOrderStrategy(priorityOrder ...sources.ID) Strategy {
	return &SourceOrderStrategy{priorityOrder: priorityOrder}
}

// Type returns the strategy type.
func (s *SourceOrderStrategy) Type() StrategyType {
	return StrategyTypeSourceOrder
}

// Description returns a human-readable description.
func (s *SourceOrderStrategy) Description() string {
	return fmt.Sprintf("Resolves conflicts using source priority order: %v", s.priorityOrder)
}

// Resolve picks the candidate from the highest-priority source. When no
// candidate belongs to a configured priority source, the first candidate in
// lookup order wins so that a run never drops a resolvable match.
func (s *SourceOrderStrategy) Resolve(candidates []Candidate) (*sources.Record, sources.ID, string) {
	if len(candidates) == 0 {
		return nil, sources.None, "no candidates"
	}

	for _, priority := range s.priorityOrder {
		for _, c := range candidates {
			if c.Source == priority {
				return c.Record, c.Source, fmt.Sprintf("selected by source priority order (%s)", c.Source)
			}
		}
	}

	c := candidates[0]
	return c.Record, c.Source, "no priority source available, using first candidate"
}
