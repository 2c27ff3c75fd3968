package config_test

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomi/stocksync/internal/config"
	"github.com/vroomi/stocksync/pkg/sources"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, []string{"mcws", "bbr"}, cfg.Priority)
	assert.True(t, cfg.BBRInScope)
	assert.True(t, cfg.TrimLeadingZeros)
	assert.False(t, cfg.IncludeUnchanged)
	assert.Equal(t, "Variant SKU", cfg.Catalog.SKU)
	assert.Equal(t, "Our Code", cfg.MCWS.Primary)
	assert.Equal(t, "DescrizioneVariante", cfg.BBR.Description)
	assert.True(t, cfg.AllowList().Allows("norev"))
	assert.False(t, cfg.AllowList().Allows("unknown brand"))
}

func TestLoadOverridesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
priority:
  - bbr
  - mcws
include_unchanged: true
bbr_in_scope: false
brands:
  - NOREV
mcws:
  primary: Codice
`)))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"bbr", "mcws"}, cfg.Priority)
	assert.True(t, cfg.IncludeUnchanged)
	assert.False(t, cfg.BBRInScope)
	assert.Equal(t, "Codice", cfg.MCWS.Primary)
	assert.Equal(t, "Code", cfg.MCWS.Secondary, "unset keys keep their defaults")
	assert.Equal(t, 1, cfg.AllowList().Len())
}

func TestPriorityOrder(t *testing.T) {
	cfg := config.Default()
	order, err := cfg.PriorityOrder()
	require.NoError(t, err)
	assert.Equal(t, []sources.ID{sources.MCWS, sources.BBR}, order)

	cfg.Priority = []string{"nope"}
	_, err = cfg.PriorityOrder()
	assert.Error(t, err)

	cfg.Priority = nil
	_, err = cfg.PriorityOrder()
	assert.Error(t, err)
}

func TestReconcileOptionsBuild(t *testing.T) {
	cfg := config.Default()
	opts, norm, err := cfg.ReconcileOptions()
	require.NoError(t, err)
	require.NotNil(t, norm)
	assert.NotEmpty(t, opts)

	assert.Equal(t, "ABC123", string(norm.Code(" abc-123 ")))
}

func TestBBRTokenFunc(t *testing.T) {
	cfg := config.Default()

	fn, err := cfg.BBRTokenFunc()
	require.NoError(t, err)
	assert.Equal(t, "BBR123", fn("BBR123 1:18 Rosso Corsa"))

	cfg.BBRExtraction = "whole-field"
	fn, err = cfg.BBRTokenFunc()
	require.NoError(t, err)
	assert.Equal(t, "BBR123 1:18", fn("BBR123 1:18"))

	cfg.BBRExtraction = "regex"
	_, err = cfg.BBRTokenFunc()
	assert.Error(t, err)
}

func TestNormalizerHonorsAlphabetAndZeroTrim(t *testing.T) {
	cfg := config.Default()
	cfg.Alphabet = "A-Z0-9"
	cfg.TrimLeadingZeros = false

	norm, err := cfg.Normalizer()
	require.NoError(t, err)
	assert.Equal(t, "0AB1", string(norm.Code("0a-b1")))
}
