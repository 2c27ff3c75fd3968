// Package config holds the run configuration: file locations, column
// names, the brand allow-list and the reconciliation policies. Values come
// from the config file (via viper), environment variables and flags, in the
// usual precedence order.
package config

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/vroomi/stocksync/pkg/brands"
	"github.com/vroomi/stocksync/pkg/catalog"
	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/pricing"
	"github.com/vroomi/stocksync/pkg/reconcile"
	"github.com/vroomi/stocksync/pkg/sources"
)

// DefaultBrands is the built-in brand allow-list, used when the config file
// does not carry one.
var DefaultBrands = []string{
	"ACME-MODELS", "ALERTE", "AUTOART", "AVENUE43", "BBR-MODELS", "BURAGO",
	"CMC", "CMR", "ELIGOR", "ESVAL MODEL", "GP-REPLICAS", "GT-SPIRIT",
	"IXO-MODELS", "KK-SCALE", "KYOSHO", "LCD-MODEL", "LOOKSMART", "MAXIMA",
	"MINI HELMET", "MINICHAMPS", "MITICA", "MITICA-DIECAST", "MITICA-R",
	"MOTORHELIX", "MR-MODELS", "NOREV", "NZG", "OTTO-MOBILE", "RIO-MODELS",
	"SCHUCO", "SOLIDO", "SPARK-MODEL", "STAMP-MODELS", "TECNOMODEL",
	"TOPMARQUES", "TROFEU", "TRUESCALE", "WERK83", "DM-MODELS",
	"UNIVERSAL HOBBIES", "LS-COLLECTIBLES", "MCG", "SUN-STAR",
}

// Config is the full run configuration.
type Config struct {
	// Brands is the trademark allow-list.
	Brands []string `yaml:"brands" mapstructure:"brands"`

	// Priority is the source precedence for conflicting matches, highest
	// first.
	Priority []string `yaml:"priority" mapstructure:"priority"`

	// IncludeUnchanged keeps no-change rows in the output file.
	IncludeUnchanged bool `yaml:"include_unchanged" mapstructure:"include_unchanged"`

	// BBRInScope declares whether BBR matches pass the brand policy.
	BBRInScope bool `yaml:"bbr_in_scope" mapstructure:"bbr_in_scope"`

	// Alphabet is the set of characters kept during code normalization,
	// in range notation such as "A-Z0-9-". Empty means the default set
	// (letters and digits).
	Alphabet string `yaml:"alphabet" mapstructure:"alphabet"`

	// TrimLeadingZeros strips leading zeros from normalized codes.
	TrimLeadingZeros bool `yaml:"trim_leading_zeros" mapstructure:"trim_leading_zeros"`

	// Catalog names the catalog export columns.
	Catalog catalog.Columns `yaml:"catalog" mapstructure:"catalog"`

	// MCWS names the MCWS feed columns.
	MCWS sources.MCWSColumns `yaml:"mcws" mapstructure:"mcws"`

	// BBR names the BBR feed columns.
	BBR sources.BBRColumns `yaml:"bbr" mapstructure:"bbr"`

	// BBRExtraction selects how the code is pulled from the BBR description
	// column: "leading-token" (default) or "whole-field".
	BBRExtraction string `yaml:"bbr_extraction" mapstructure:"bbr_extraction"`

	// MarkupFile is the per-brand markup table path for the price pass.
	MarkupFile string `yaml:"markup_file" mapstructure:"markup_file"`

	// BBRMarkup is the fixed BBR price multiplier, as a decimal string.
	BBRMarkup string `yaml:"bbr_markup" mapstructure:"bbr_markup"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Brands:           DefaultBrands,
		Priority:         []string{"mcws", "bbr"},
		BBRInScope:       true,
		TrimLeadingZeros: true,
		Catalog:          catalog.DefaultColumns(),
		MCWS:             sources.DefaultMCWSColumns(),
		BBR:              sources.DefaultBBRColumns(),
		BBRExtraction:    "leading-token",
		MarkupFile:       "Vroomi_Markup.txt",
		BBRMarkup:        "1.75",
	}
}

// Load builds the configuration from viper on top of the defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &errors.ConfigError{
			Component: "config",
			Message:   "cannot unmarshal configuration",
			Err:       err,
		}
	}
	return cfg, nil
}

// Normalizer builds the code normalizer the configuration describes.
func (c *Config) Normalizer() (*normalize.Normalizer, error) {
	opts := []normalize.Option{normalize.WithTrimLeadingZeros(c.TrimLeadingZeros)}
	if c.Alphabet != "" {
		opts = append(opts, normalize.WithAlphabet(normalize.AlphabetOf(c.Alphabet)))
	}
	return normalize.New(opts...), nil
}

// AllowList builds the brand allow-list.
func (c *Config) AllowList() *brands.AllowList {
	return brands.NewAllowList(c.Brands)
}

// PriorityOrder parses the configured source precedence.
func (c *Config) PriorityOrder() ([]sources.ID, error) {
	order := make([]sources.ID, 0, len(c.Priority))
	for _, name := range c.Priority {
		id, err := sources.ParseID(name)
		if err != nil {
			return nil, err
		}
		order = append(order, id)
	}
	if len(order) == 0 {
		return nil, &errors.ConfigError{
			Component: "priority",
			Message:   "source priority cannot be empty",
		}
	}
	return order, nil
}

// ReconcileOptions assembles the reconciler options the configuration
// describes. The returned normalizer must also be used to build the
// supplier indexes.
func (c *Config) ReconcileOptions() ([]reconcile.Option, *normalize.Normalizer, error) {
	norm, err := c.Normalizer()
	if err != nil {
		return nil, nil, err
	}
	order, err := c.PriorityOrder()
	if err != nil {
		return nil, nil, err
	}

	opts := []reconcile.Option{
		reconcile.WithNormalizer(norm),
		reconcile.WithAllowList(c.AllowList()),
		reconcile.WithPriority(order...),
		reconcile.WithSourceScope(sources.BBR, c.BBRInScope),
		reconcile.WithIncludeUnchanged(c.IncludeUnchanged),
	}
	return opts, norm, nil
}

// BBRTokenFunc returns the configured BBR code extraction rule.
func (c *Config) BBRTokenFunc() (sources.TokenFunc, error) {
	switch c.BBRExtraction {
	case "", "leading-token":
		return sources.LeadingToken, nil
	case "whole-field":
		return sources.WholeField, nil
	default:
		return nil, &errors.ConfigError{
			Component: "bbr_extraction",
			Message:   "unknown extraction rule " + c.BBRExtraction,
		}
	}
}

// Pricer assembles the pricing pass from the configuration. The markup
// table is loaded from MarkupFile; a missing file is an error because the
// price pass is useless without per-brand multipliers.
func (c *Config) Pricer() (*pricing.Pricer, error) {
	markups, err := pricing.LoadMarkupTable(c.MarkupFile)
	if err != nil {
		return nil, err
	}

	var opts []pricing.PricerOption
	if c.BBRMarkup != "" {
		markup, err := decimal.NewFromString(c.BBRMarkup)
		if err != nil {
			return nil, &errors.ConfigError{
				Component: "bbr_markup",
				Message:   "invalid decimal value " + c.BBRMarkup,
				Err:       err,
			}
		}
		opts = append(opts, pricing.WithBBRMarkup(markup))
	}

	return pricing.NewPricer(markups, c.AllowList(), opts...)
}
