package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. PROMO_HEDGE_SCAN_WAGER
	EnvPrefix = "PROMO_HEDGE"

	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so AutomaticEnv can override values that
// are absent from the file
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "promo-hedge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("odds_api.provider", "the_odds_api")
	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.regions", []string{"us"})
	v.SetDefault("odds_api.markets", []string{"h2h"})
	v.SetDefault("odds_api.odds_format", "american")
	v.SetDefault("odds_api.timeout_seconds", 10)
	v.SetDefault("odds_api.max_retries", 3)
	v.SetDefault("odds_api.rate_limit", 1.0)
	v.SetDefault("odds_api.snapshot_dir", "")

	v.SetDefault("scan.source_book", "")
	v.SetDefault("scan.hedge_book", "")
	v.SetDefault("scan.strategy", "profit_boost")
	v.SetDefault("scan.boost_percent", 0.0)
	v.SetDefault("scan.refund_percent", 0.0)
	v.SetDefault("scan.wager", 0.0)
	v.SetDefault("scan.min_profit", -15.0)
	v.SetDefault("scan.allowed_books", []string{})
	v.SetDefault("scan.sports", []string{})
	v.SetDefault("scan.max_workers", 4)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 60)
	v.SetDefault("cache.max_size", 64)

	v.SetDefault("schedule.cron", "*/5 * * * *")
	v.SetDefault("schedule.job_timeout_seconds", 120)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.secret_name", "")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
