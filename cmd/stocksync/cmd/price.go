package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vroomi/stocksync/internal/cmd/output"
	"github.com/vroomi/stocksync/internal/config"
	"github.com/vroomi/stocksync/pkg/logging"
	"github.com/vroomi/stocksync/pkg/pricing"
	"github.com/vroomi/stocksync/pkg/report"
	"github.com/vroomi/stocksync/pkg/tabular"
)

var (
	priceCatalogFile string
	priceOutFile     string
	priceMarkupFile  string
	priceReportFile  string
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Recompute catalog costs and prices",
	Long: `Price recomputes the cost and price columns of the catalog export.

BBR products take their cost from the CostoBBRModels column and price at a
fixed markup. MCWS products take their cost from the Net Price column and
price at the per-brand markup from the markup table. Only rows where the
cost or the price actually changed are emitted.`,
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&priceCatalogFile, "catalog", "", "catalog export file (csv or xlsx)")
	priceCmd.Flags().StringVar(&priceOutFile, "out", "", "output file for the price updates (default stdout)")
	priceCmd.Flags().StringVar(&priceMarkupFile, "markup", "", "per-brand markup table (overrides config)")
	priceCmd.Flags().StringVar(&priceReportFile, "report", "", "write a Markdown run report to this file")

	_ = priceCmd.MarkFlagRequired("catalog")
}

func runPrice(cmd *cobra.Command, _ []string) error {
	logger := logging.Default()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if priceMarkupFile != "" {
		cfg.MarkupFile = priceMarkupFile
	}

	pricer, err := cfg.Pricer()
	if err != nil {
		return err
	}

	table, err := tabular.Load(priceCatalogFile, "catalog")
	if err != nil {
		return err
	}

	result, err := pricer.Run(table)
	if err != nil {
		return err
	}

	logger.Info().
		Int("rows", result.Stats.RowsSeen).
		Int("updates", len(result.Updates)).
		Int("unidentified", result.Stats.Unidentified).
		Msg("Price pass complete")
	if len(result.Stats.MissingMarkupBrands) > 0 {
		logger.Warn().
			Strs("brands", result.Stats.MissingMarkupBrands).
			Msg("Brands without a configured markup")
	}

	if priceReportFile != "" {
		rep := report.Report{Price: result}
		if err := rep.WriteFile(priceReportFile); err != nil {
			return err
		}
		logger.Info().Str("file", priceReportFile).Msg("Run report written")
	}

	if priceOutFile != "" {
		if err := writePriceUpdates(priceOutFile, cfg, result.Updates); err != nil {
			return err
		}
		logger.Info().Str("file", priceOutFile).Int("rows", len(result.Updates)).Msg("Price updates written")
		return nil
	}

	return output.FormatPriceUpdates(result.Updates, output.Format(outputFormat))
}

// writePriceUpdates saves the three-column price file using the catalog
// column names so the file imports cleanly.
func writePriceUpdates(path string, cfg *config.Config, updates []pricing.PriceUpdate) error {
	cols := pricing.DefaultColumns()
	table := tabular.New("price-updates", cfg.Catalog.SKU, cols.Cost, cols.Price)
	for _, u := range updates {
		table.Append(u.SKU, u.Cost.StringFixed(2), u.Price.StringFixed(2))
	}
	return tabular.Save(path, table)
}
