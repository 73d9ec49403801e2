package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0.17, cfg.Strategy.MinSpreadPct)
	assert.Equal(t, 5.0, cfg.Strategy.MinProfitUSD)
	assert.Equal(t, 0.5, cfg.Strategy.MaxSlippagePct)
	assert.Equal(t, 10.0, cfg.Strategy.MaxTradeSize)
	assert.Equal(t, 15*time.Second, cfg.Scan.QuoteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Scan.EthPriceTTL)
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
strategy:
  min_spread_pct: 0.3
  flash_loan_fee_pct: 0.05
scan:
  interval: 3s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Strategy.MinSpreadPct)
	assert.Equal(t, 0.05, cfg.Strategy.FlashLoanFeePct)
	assert.Equal(t, 3*time.Second, cfg.Scan.Interval)
	// untouched keys keep defaults
	assert.Equal(t, 5.0, cfg.Strategy.MinProfitUSD)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := Default()
	cfg.Strategy.MaxTradeSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Strategy.FlashLoanFeePct = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scan.QuoteTimeout = 0
	assert.Error(t, cfg.Validate())
}
