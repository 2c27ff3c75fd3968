// Package reconcile implements the core reconciliation pass: matching
// catalog entries against the supplier indexes, resolving conflicts by
// source priority, applying the brand allow-list and computing the quantity
// updates plus run statistics.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vroomi/stocksync/pkg/catalog"
	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/logging"
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/sources"
)

// Reconciler drives one in-memory pass over the catalog entries, consulting
// the supplier indexes. Runs are independent and stateless; nothing is
// carried over between invocations.
type Reconciler interface {
	// Run reconciles catalog entries against the supplier indexes, in index
	// lookup order. The indexes must have been built with the same
	// normalizer the reconciler is configured with.
	Run(ctx context.Context, entries []catalog.Entry, indexes ...*sources.Index) (*Result, error)
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{opts: options}, nil
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	opts *options
}

// Run performs the reconciliation pass.
func (r *reconciler) Run(ctx context.Context, entries []catalog.Entry, indexes ...*sources.Index) (*Result, error) {
	if len(indexes) == 0 {
		return nil, &errors.ValidationError{
			Field:   "indexes",
			Message: "at least one supplier index is required",
		}
	}

	logger := logging.FromContext(ctx)

	srcs := make([]sources.ID, len(indexes))
	for i, idx := range indexes {
		srcs[i] = idx.Source()
	}

	result := newResult(srcs, r.opts.strategy.Type(), r.opts.includeUnchanged)
	stats := newStats()
	for _, idx := range indexes {
		stats.SupplierDuplicates[idx.Source().String()] = idx.Duplicates()
		for _, d := range idx.DuplicateCodes() {
			result.DuplicateCodes = append(result.DuplicateCodes, DuplicateCode{
				Source:    idx.Source().String(),
				Code:      string(d.Code),
				Trademark: d.Trademark,
				Line:      d.Line,
				Allowed:   r.allowed(idx.Source(), d.Trademark),
			})
		}
	}

	seen := make(map[normalize.Code]bool, len(entries))
	matches := make([]Match, 0, len(entries))

	for _, entry := range entries {
		stats.RowsSeen++

		if entry.MalformedQuantity {
			stats.MalformedQuantities++
			logger.Debug().Str("sku", entry.SKU).Int("line", entry.Line).Msg("Malformed catalog quantity read as zero")
		}

		key := r.opts.normalizer.Code(entry.SKU)
		if key == "" {
			stats.EmptySKUs++
			continue
		}
		if seen[key] {
			stats.DuplicateSKUs++
			logger.Debug().Str("sku", entry.SKU).Msg("Duplicate catalog SKU skipped")
			continue
		}
		seen[key] = true

		matches = append(matches, r.reconcileEntry(logger, stats, entry, key, indexes))
	}

	include := Include(r.opts.includeUnchanged)
	result.Matches = matches
	result.Updates = BuildUpdates(matches, include)
	stats.Updates = len(result.Updates)
	result.Stats = *stats
	result.finalize()

	if !result.Stats.Balanced() {
		// Accounting drift means a code path above skipped a counter; a run
		// must never report numbers that do not add up.
		return nil, errors.NewValidationError("stats", result.Stats, "counters do not balance")
	}

	logger.Info().
		Int("rows", stats.RowsSeen).
		Int("matched", stats.MatchedTotal()).
		Int("unmatched", stats.Unmatched).
		Int("filtered", stats.Filtered).
		Int("ambiguous", stats.Ambiguous).
		Int("updates", stats.Updates).
		Msg("Reconciliation pass complete")

	return result, nil
}

// reconcileEntry resolves a single catalog entry against the indexes.
func (r *reconciler) reconcileEntry(logger *zerolog.Logger, stats *Stats, entry catalog.Entry, key normalize.Code, indexes []*sources.Index) Match {
	match := Match{
		CatalogSKU:      entry.SKU,
		Source:          sources.None,
		CatalogQuantity: entry.Quantity,
	}

	var candidates []Candidate
	for _, idx := range indexes {
		if rec, ok := idx.Lookup(key); ok {
			candidates = append(candidates, Candidate{Source: idx.Source(), Record: rec})
		}
	}

	if len(candidates) == 0 {
		stats.Unmatched++
		return match
	}

	rec, src := candidates[0].Record, candidates[0].Source
	if len(candidates) > 1 {
		// A value still resolves, but the disagreement is counted so
		// operators can audit how often the feeds overlap.
		match.Ambiguous = true
		stats.Ambiguous++

		var reason string
		rec, src, reason = r.opts.strategy.Resolve(candidates)
		logger.Debug().
			Str("sku", entry.SKU).
			Str("source", src.String()).
			Str("reason", reason).
			Msg("Conflicting supplier matches resolved")
	}

	match.Source = src
	if !r.allowed(rec.Source, rec.Trademark) {
		match.Filtered = true
		stats.Filtered++
		return match
	}

	stats.Matched[src.String()]++

	qty := rec.Quantity
	if qty < 0 {
		qty = 0
		match.Clamped = true
		stats.Clamped++
	}
	match.Quantity = qty

	if qty == entry.Quantity {
		match.NoChange = true
		stats.NoChange++
	}
	return match
}

// allowed applies the trademark policy: per-row brand against the
// allow-list when the feed carries one, the run-level source scope
// otherwise.
func (r *reconciler) allowed(src sources.ID, trademark string) bool {
	if trademark != "" {
		return r.opts.allowList.Allows(trademark)
	}
	return r.opts.scope[src]
}
