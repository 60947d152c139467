// Package config provides configuration management for the promo-hedge scanner.
package config

import (
	"time"

	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/promo"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	OddsAPI  OddsAPIConfig  `mapstructure:"odds_api" validate:"required"`
	Scan     ScanConfig     `mapstructure:"scan" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// OddsAPIConfig represents the odds provider configuration
type OddsAPIConfig struct {
	Provider       string   `mapstructure:"provider" validate:"required,oneof=the_odds_api file"`
	BaseURL        string   `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string   `mapstructure:"api_key"`
	Regions        []string `mapstructure:"regions" validate:"dive,oneof=us us2 uk eu au"`
	Markets        []string `mapstructure:"markets"`
	OddsFormat     string   `mapstructure:"odds_format" validate:"omitempty,oneof=american decimal"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64  `mapstructure:"rate_limit" validate:"gte=0"`
	SnapshotDir    string   `mapstructure:"snapshot_dir"`
}

// Timeout returns the HTTP timeout as a duration
func (c OddsAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ScanConfig drives one scan: which books to pair, which promo to convert and
// how much to wager
type ScanConfig struct {
	SourceBook    string   `mapstructure:"source_book" validate:"required,bookkey"`
	HedgeBook     string   `mapstructure:"hedge_book" validate:"omitempty,bookkey"`
	Strategy      string   `mapstructure:"strategy" validate:"required,strategy"`
	BoostPercent  float64  `mapstructure:"boost_percent" validate:"gte=0"`
	RefundPercent float64  `mapstructure:"refund_percent" validate:"gte=0,lte=1"`
	Wager         float64  `mapstructure:"wager" validate:"gt=0"`
	MinProfit     float64  `mapstructure:"min_profit"`
	AllowedBooks  []string `mapstructure:"allowed_books" validate:"dive,bookkey"`
	Sports        []string `mapstructure:"sports" validate:"required,min=1,dive,required"`
	MaxWorkers    int      `mapstructure:"max_workers" validate:"gte=0"`
}

// StrategyKind returns the parsed strategy kind
func (s ScanConfig) StrategyKind() (models.StrategyKind, error) {
	return promo.ParseKind(s.Strategy)
}

// Params returns the strategy parameters
func (s ScanConfig) Params() promo.Params {
	return promo.Params{BoostPercent: s.BoostPercent, RefundPercent: s.RefundPercent}
}

// CacheConfig represents odds cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// TTL returns the cache TTL as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ScheduleConfig represents watch mode scheduling
type ScheduleConfig struct {
	Cron              string `mapstructure:"cron"`
	JobTimeoutSeconds int    `mapstructure:"job_timeout_seconds" validate:"gte=0"`
}

// JobTimeout bounds one scheduled scan; zero keeps the scheduler default
func (c ScheduleConfig) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	AWSRegion  string `mapstructure:"aws_region"`
	SecretName string `mapstructure:"secret_name"`
}

// Enabled reports whether a secret should be fetched
func (c SecretsConfig) Enabled() bool {
	return c.SecretName != ""
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
