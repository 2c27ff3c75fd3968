package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomi/stocksync/pkg/brands"
	"github.com/vroomi/stocksync/pkg/catalog"
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/reconcile"
	"github.com/vroomi/stocksync/pkg/sources"
	"github.com/vroomi/stocksync/pkg/tabular"
)

var testNorm = normalize.New()

func buildMCWS(t *testing.T, rows ...[]string) *sources.Index {
	t.Helper()
	table := tabular.New("mcws", "Our Code", "Code", "Trademark", "Quantity")
	for _, row := range rows {
		table.Append(row...)
	}
	idx, err := sources.BuildIndex(sources.NewMCWSFeed(testNorm, sources.DefaultMCWSColumns()), table)
	require.NoError(t, err)
	return idx
}

func buildBBR(t *testing.T, rows ...[]string) *sources.Index {
	t.Helper()
	table := tabular.New("bbr", "DescrizioneVariante", "QtaResidua")
	for _, row := range rows {
		table.Append(row...)
	}
	idx, err := sources.BuildIndex(sources.NewBBRFeed(testNorm, sources.DefaultBBRColumns(), nil), table)
	require.NoError(t, err)
	return idx
}

func newReconciler(t *testing.T, opts ...reconcile.Option) reconcile.Reconciler {
	t.Helper()
	base := []reconcile.Option{
		reconcile.WithNormalizer(testNorm),
		reconcile.WithAllowList(brands.NewAllowList([]string{"NOREV", "SCHUCO"})),
	}
	r, err := reconcile.New(append(base, opts...)...)
	require.NoError(t, err)
	return r
}

func TestSingleSourceMatchTakesSupplierQuantityVerbatim(t *testing.T) {
	// Catalog "ABC-123" qty 5; MCWS has "abc123" qty 12 under an
	// allow-listed brand; no BBR match.
	mcws := buildMCWS(t, []string{"abc123", "", "NOREV", "12"})
	bbr := buildBBR(t)

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "ABC-123", Quantity: 5, Line: 1}},
		mcws, bbr)
	require.NoError(t, err)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, reconcile.Update{SKU: "ABC-123", Quantity: 12}, result.Updates[0])
	assert.Equal(t, 1, result.Stats.Matched["mcws"])
	assert.Equal(t, 0, result.Stats.Ambiguous)
	assert.Equal(t, 0, result.Stats.Unmatched)
}

func TestUnmatchedEntryEmitsNoOutput(t *testing.T) {
	mcws := buildMCWS(t, []string{"other", "", "NOREV", "1"})
	bbr := buildBBR(t)

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "ABSENT-1", Quantity: 4}},
		mcws, bbr)
	require.NoError(t, err)

	assert.Empty(t, result.Updates)
	assert.Equal(t, 1, result.Stats.Unmatched)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, sources.None, result.Matches[0].Source)
}

func TestDisallowedBrandIsFilteredDespiteCodeMatch(t *testing.T) {
	mcws := buildMCWS(t, []string{"xyz9", "", "NOT-ALLOWED", "8"})
	bbr := buildBBR(t)

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "XYZ-9", Quantity: 3}},
		mcws, bbr)
	require.NoError(t, err)

	assert.Empty(t, result.Updates)
	assert.Equal(t, 1, result.Stats.Filtered)
	assert.Equal(t, 0, result.Stats.MatchedTotal())
	require.Len(t, result.Matches, 1)
	assert.True(t, result.Matches[0].Filtered)
}

func TestSupplierDuplicatesCarryBrandPolicy(t *testing.T) {
	// MCWS collides on K123 with a disallowed brand on the winning row;
	// BBR collides on BBR9 with no brand at all, so the run-level scope
	// decides its Allowed flag.
	mcws := buildMCWS(t,
		[]string{"K123", "", "NOREV", "5"},
		[]string{"k 123", "", "NOT-ALLOWED", "9"},
	)
	bbr := buildBBR(t,
		[]string{"BBR9 first", "2"},
		[]string{"BBR9 second", "4"},
	)

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "K123", Quantity: 1}},
		mcws, bbr)
	require.NoError(t, err)

	require.Len(t, result.DuplicateCodes, 2)

	assert.Equal(t, reconcile.DuplicateCode{
		Source: "mcws", Code: "K123", Trademark: "NOT-ALLOWED", Line: 2, Allowed: false,
	}, result.DuplicateCodes[0])
	assert.Equal(t, reconcile.DuplicateCode{
		Source: "bbr", Code: "BBR9", Trademark: "", Line: 2, Allowed: true,
	}, result.DuplicateCodes[1])

	assert.Equal(t, 1, result.Stats.SupplierDuplicates["mcws"])
	assert.Equal(t, 1, result.Stats.SupplierDuplicates["bbr"])
}

func TestConflictResolvesToPrioritySource(t *testing.T) {
	// Same code in both feeds: MCWS qty 7, BBR qty 4; default priority
	// prefers MCWS.
	mcws := buildMCWS(t, []string{"DUAL-1", "", "NOREV", "7"})
	bbr := buildBBR(t, []string{"DUAL-1 spare text", "4"})

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "dual-1", Quantity: 1}},
		mcws, bbr)
	require.NoError(t, err)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, 7, result.Updates[0].Quantity)
	assert.Equal(t, 1, result.Stats.Ambiguous)
	assert.Equal(t, 1, result.Stats.Matched["mcws"])
	assert.Equal(t, 0, result.Stats.Matched["bbr"])
}

func TestConflictWithReversedPriority(t *testing.T) {
	mcws := buildMCWS(t, []string{"DUAL-1", "", "NOREV", "7"})
	bbr := buildBBR(t, []string{"DUAL-1", "4"})

	r := newReconciler(t, reconcile.WithPriority(sources.BBR, sources.MCWS))
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "DUAL-1", Quantity: 1}},
		mcws, bbr)
	require.NoError(t, err)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, 4, result.Updates[0].Quantity)
	assert.Equal(t, 1, result.Stats.Matched["bbr"])
}

func TestNegativeSupplierQuantityClampedToZero(t *testing.T) {
	bbr := buildBBR(t, []string{"NEG-1", "-3"})

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "NEG-1", Quantity: 2}},
		bbr)
	require.NoError(t, err)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, 0, result.Updates[0].Quantity)
	assert.Equal(t, 1, result.Stats.Clamped)
}

func TestNoChangeRowsExcludedByDefault(t *testing.T) {
	bbr := buildBBR(t, []string{"SAME-1", "5"})
	entries := []catalog.Entry{{SKU: "SAME-1", Quantity: 5}}

	r := newReconciler(t)
	result, err := r.Run(context.Background(), entries, bbr)
	require.NoError(t, err)

	assert.Empty(t, result.Updates)
	assert.Equal(t, 1, result.Stats.NoChange)
	assert.Equal(t, 1, result.Stats.Matched["bbr"], "no-change rows still count as matched")

	// Opting in re-includes them.
	r = newReconciler(t, reconcile.WithIncludeUnchanged(true))
	result, err = r.Run(context.Background(), entries, bbr)
	require.NoError(t, err)
	require.Len(t, result.Updates, 1)
	assert.Equal(t, reconcile.Update{SKU: "SAME-1", Quantity: 5}, result.Updates[0])
}

func TestBBRScopeCanBeClosed(t *testing.T) {
	bbr := buildBBR(t, []string{"B-1", "9"})

	r := newReconciler(t, reconcile.WithSourceScope(sources.BBR, false))
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "B-1", Quantity: 1}},
		bbr)
	require.NoError(t, err)

	assert.Empty(t, result.Updates)
	assert.Equal(t, 1, result.Stats.Filtered)
}

func TestDataQualitySkips(t *testing.T) {
	mcws := buildMCWS(t, []string{"A-1", "", "NOREV", "2"})

	entries := []catalog.Entry{
		{SKU: "A-1", Quantity: 1},
		{SKU: "a-1 ", Quantity: 1}, // duplicate after normalization
		{SKU: "   ", Quantity: 1}, // empty key
		{SKU: "..", Quantity: 1},  // normalizes to empty
	}

	r := newReconciler(t)
	result, err := r.Run(context.Background(), entries, mcws)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.RowsSeen)
	assert.Equal(t, 1, result.Stats.DuplicateSKUs)
	assert.Equal(t, 2, result.Stats.EmptySKUs)
	assert.Equal(t, 1, result.Stats.MatchedTotal())
	require.Len(t, result.Updates, 1)
	assert.Equal(t, "A-1", result.Updates[0].SKU, "first occurrence wins")
}

func TestMalformedQuantityCountedNotFatal(t *testing.T) {
	mcws := buildMCWS(t, []string{"Q-1", "", "NOREV", "9"})

	entries := []catalog.Entry{
		{SKU: "Q-1", Quantity: 0, MalformedQuantity: true},
	}

	r := newReconciler(t)
	result, err := r.Run(context.Background(), entries, mcws)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.MalformedQuantities)
	require.Len(t, result.Updates, 1, "the row still reconciles")
	assert.Equal(t, 9, result.Updates[0].Quantity)
	assert.True(t, result.Stats.Balanced())
}

func TestCountersBalanceAcrossMixedRun(t *testing.T) {
	mcws := buildMCWS(t,
		[]string{"M-1", "", "NOREV", "10"},
		[]string{"M-2", "", "NOT-ALLOWED", "3"},
		[]string{"BOTH-1", "", "SCHUCO", "6"},
	)
	bbr := buildBBR(t,
		[]string{"B-1", "4"},
		[]string{"BOTH-1", "2"},
	)

	entries := []catalog.Entry{
		{SKU: "M-1", Quantity: 0},
		{SKU: "M-2", Quantity: 0},
		{SKU: "B-1", Quantity: 0},
		{SKU: "BOTH-1", Quantity: 0},
		{SKU: "NOWHERE", Quantity: 0},
		{SKU: "", Quantity: 0},
	}

	r := newReconciler(t)
	result, err := r.Run(context.Background(), entries, mcws, bbr)
	require.NoError(t, err)

	s := result.Stats
	assert.True(t, s.Balanced())
	assert.Equal(t, s.Considered(), s.Unmatched+s.Filtered+s.MatchedTotal())
	assert.Equal(t, 2, s.Matched["mcws"])
	assert.Equal(t, 1, s.Matched["bbr"])
	assert.Equal(t, 1, s.Filtered)
	assert.Equal(t, 1, s.Unmatched)
	assert.Equal(t, 1, s.Ambiguous)
	assert.Equal(t, 3, s.Updates)
}

func TestOutputPreservesCatalogOrder(t *testing.T) {
	bbr := buildBBR(t,
		[]string{"C-3", "3"},
		[]string{"C-1", "1"},
		[]string{"C-2", "2"},
	)

	entries := []catalog.Entry{
		{SKU: "C-1", Quantity: 0},
		{SKU: "C-2", Quantity: 0},
		{SKU: "C-3", Quantity: 0},
	}

	r := newReconciler(t)
	result, err := r.Run(context.Background(), entries, bbr)
	require.NoError(t, err)

	require.Len(t, result.Updates, 3)
	assert.Equal(t, "C-1", result.Updates[0].SKU)
	assert.Equal(t, "C-2", result.Updates[1].SKU)
	assert.Equal(t, "C-3", result.Updates[2].SKU)
}

func TestSupplierDuplicateCounterSurfacesInStats(t *testing.T) {
	bbr := buildBBR(t,
		[]string{"DUP-9 a", "1"},
		[]string{"DUP-9 b", "2"},
	)

	r := newReconciler(t)
	result, err := r.Run(context.Background(), nil, bbr)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.SupplierDuplicates["bbr"])
}

func TestRunRequiresAtLeastOneIndex(t *testing.T) {
	r := newReconciler(t)
	_, err := r.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestResultSummaryMentionsCounts(t *testing.T) {
	bbr := buildBBR(t, []string{"S-1", "2"})

	r := newReconciler(t)
	result, err := r.Run(context.Background(),
		[]catalog.Entry{{SKU: "S-1", Quantity: 0}},
		bbr)
	require.NoError(t, err)

	summary := result.Summary()
	assert.Contains(t, summary, "1 matched")
	assert.Contains(t, summary, "1 updates emitted")
}
