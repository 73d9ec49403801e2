// Package config loads strategy configuration from config.yaml and
// environment variables. The result is an immutable value passed explicitly
// into every scanner entry point; nothing reads thresholds from globals.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all tunables for the scanner.
type Config struct {
	Strategy StrategyConfig
	Scan     ScanConfig
	Storage  StorageConfig
}

// StrategyConfig defines the acceptance thresholds for an opportunity.
type StrategyConfig struct {
	MinSpreadPct    float64 `mapstructure:"min_spread_pct"`
	MinProfitUSD    float64 `mapstructure:"min_profit_usd"`
	MaxSlippagePct  float64 `mapstructure:"max_slippage_pct"`
	FlashLoanFeePct float64 `mapstructure:"flash_loan_fee_pct"`
	MaxTradeSize    float64 `mapstructure:"max_trade_size"`
}

// ScanConfig defines timing for the polling loop and external queries.
type ScanConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	QuoteTimeout time.Duration `mapstructure:"quote_timeout"`
	EthPriceTTL  time.Duration `mapstructure:"eth_price_ttl"`
}

// StorageConfig defines where scan history is persisted.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// Load reads configuration from the given path (or the working directory),
// falling back to defaults for anything unset. Environment variables
// override file values (e.g. STRATEGY_MIN_PROFIT_USD).
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults + env carry the scanner.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the reference configuration without touching disk.
func Default() Config {
	return Config{
		Strategy: StrategyConfig{
			MinSpreadPct:    0.17,
			MinProfitUSD:    5.0,
			MaxSlippagePct:  0.5,
			FlashLoanFeePct: 0.09, // aave-style; 0.0 and 0.05 are the other reference tiers
			MaxTradeSize:    10.0,
		},
		Scan: ScanConfig{
			Interval:     4 * time.Second,
			QuoteTimeout: 15 * time.Second,
			EthPriceTTL:  60 * time.Second,
		},
		Storage: StorageConfig{
			DBPath: "data/scans.db",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("strategy.min_spread_pct", d.Strategy.MinSpreadPct)
	v.SetDefault("strategy.min_profit_usd", d.Strategy.MinProfitUSD)
	v.SetDefault("strategy.max_slippage_pct", d.Strategy.MaxSlippagePct)
	v.SetDefault("strategy.flash_loan_fee_pct", d.Strategy.FlashLoanFeePct)
	v.SetDefault("strategy.max_trade_size", d.Strategy.MaxTradeSize)
	v.SetDefault("scan.interval", d.Scan.Interval)
	v.SetDefault("scan.quote_timeout", d.Scan.QuoteTimeout)
	v.SetDefault("scan.eth_price_ttl", d.Scan.EthPriceTTL)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
}

// Validate rejects configurations that can only come from programmer error.
func (c Config) Validate() error {
	if c.Strategy.MaxTradeSize <= 0 {
		return fmt.Errorf("max_trade_size must be positive, got %v", c.Strategy.MaxTradeSize)
	}
	if c.Strategy.MaxSlippagePct < 0 || c.Strategy.FlashLoanFeePct < 0 {
		return fmt.Errorf("negative fee/slippage threshold")
	}
	if c.Scan.QuoteTimeout <= 0 {
		return fmt.Errorf("quote_timeout must be positive, got %v", c.Scan.QuoteTimeout)
	}
	return nil
}
