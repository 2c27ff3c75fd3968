package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vroomi/stocksync/internal/cmd/output"
	"github.com/vroomi/stocksync/internal/config"
	"github.com/vroomi/stocksync/pkg/catalog"
	"github.com/vroomi/stocksync/pkg/logging"
	"github.com/vroomi/stocksync/pkg/reconcile"
	"github.com/vroomi/stocksync/pkg/report"
	"github.com/vroomi/stocksync/pkg/sources"
	"github.com/vroomi/stocksync/pkg/tabular"
)

var (
	reconcileCatalogFile      string
	reconcileMCWSFile         string
	reconcileBBRFile          string
	reconcileOutFile          string
	reconcileReportFile       string
	reconcileIncludeUnchanged bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the catalog against the supplier feeds",
	Long: `Reconcile matches every catalog row against the MCWS and BBR stock
feeds on normalized product codes and writes the corrected-quantity rows.

The output file carries only the rows whose quantity actually changes,
unless --include-unchanged is given. Run counters go to stderr; a Markdown
run report can be written with --report.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileCatalogFile, "catalog", "", "catalog export file (csv or xlsx)")
	reconcileCmd.Flags().StringVar(&reconcileMCWSFile, "mcws", "", "MCWS stock feed file")
	reconcileCmd.Flags().StringVar(&reconcileBBRFile, "bbr", "", "BBR stock feed file")
	reconcileCmd.Flags().StringVar(&reconcileOutFile, "out", "", "output file for the quantity updates (default stdout)")
	reconcileCmd.Flags().StringVar(&reconcileReportFile, "report", "", "write a Markdown run report to this file")
	reconcileCmd.Flags().BoolVar(&reconcileIncludeUnchanged, "include-unchanged", false, "keep no-change rows in the output")

	_ = reconcileCmd.MarkFlagRequired("catalog")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.Default()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("include-unchanged") {
		cfg.IncludeUnchanged = reconcileIncludeUnchanged
	}

	opts, norm, err := cfg.ReconcileOptions()
	if err != nil {
		return err
	}

	if reconcileMCWSFile == "" && reconcileBBRFile == "" {
		return fmt.Errorf("at least one supplier feed is required: --mcws or --bbr")
	}

	catalogTable, err := tabular.Load(reconcileCatalogFile, "catalog")
	if err != nil {
		return err
	}
	entries, err := catalog.Parse(catalogTable, cfg.Catalog)
	if err != nil {
		return err
	}
	logger.Info().Str("file", reconcileCatalogFile).Int("rows", len(entries)).Msg("Catalog loaded")

	var indexes []*sources.Index
	if reconcileMCWSFile != "" {
		idx, err := loadFeed(reconcileMCWSFile, sources.NewMCWSFeed(norm, cfg.MCWS))
		if err != nil {
			return err
		}
		indexes = append(indexes, idx)
	}
	if reconcileBBRFile != "" {
		extract, err := cfg.BBRTokenFunc()
		if err != nil {
			return err
		}
		idx, err := loadFeed(reconcileBBRFile, sources.NewBBRFeed(norm, cfg.BBR, extract))
		if err != nil {
			return err
		}
		indexes = append(indexes, idx)
	}

	r, err := reconcile.New(opts...)
	if err != nil {
		return err
	}
	result, err := r.Run(ctx, entries, indexes...)
	if err != nil {
		return err
	}

	if reconcileOutFile != "" {
		if err := writeUpdates(reconcileOutFile, cfg, result.Updates); err != nil {
			return err
		}
		logger.Info().Str("file", reconcileOutFile).Int("rows", len(result.Updates)).Msg("Updates written")

		// With the rows on disk, stdout carries the run counters.
		if err := output.FormatStats(result.Stats, output.Format(outputFormat)); err != nil {
			return err
		}
	} else {
		if err := output.FormatUpdates(result.Updates, output.Format(outputFormat)); err != nil {
			return err
		}
	}

	if reconcileReportFile != "" {
		rep := &report.Report{Result: result}
		if err := rep.WriteFile(reconcileReportFile); err != nil {
			return err
		}
		logger.Info().Str("file", reconcileReportFile).Msg("Report written")
	}

	fmt.Fprintln(os.Stderr, result.Summary())
	return nil
}

// loadFeed reads one supplier file and builds its lookup index.
func loadFeed(path string, feed sources.Feed) (*sources.Index, error) {
	table, err := tabular.Load(path, feed.ID().String())
	if err != nil {
		return nil, err
	}
	idx, err := sources.BuildIndex(feed, table)
	if err != nil {
		return nil, err
	}
	logging.Default().Info().
		Str("source", feed.ID().String()).
		Str("file", path).
		Int("codes", idx.Len()).
		Int("duplicates", idx.Duplicates()).
		Msg("Supplier feed indexed")
	return idx, nil
}

// writeUpdates saves the two-column update file next to the catalog schema:
// the SKU column name and the quantity column name are reused so the file
// imports cleanly.
func writeUpdates(path string, cfg *config.Config, updates []reconcile.Update) error {
	table := tabular.New("updates", cfg.Catalog.SKU, cfg.Catalog.Quantity)
	for _, u := range updates {
		table.Append(u.SKU, strconv.Itoa(u.Quantity))
	}
	return tabular.Save(path, table)
}
