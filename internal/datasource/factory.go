package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/promo-hedge/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// OddsAPISourceType fetches live odds over HTTP
	OddsAPISourceType SourceType = OddsAPISourceName
	// FileSourceType reads saved snapshots
	FileSourceType SourceType = FileSourceName
)

// Factory creates Source implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// Create builds the provider named by odds_api.provider
func (f *Factory) Create() (Source, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	return f.CreateType(SourceType(f.config.OddsAPI.Provider))
}

// CreateType builds a provider of the given type
func (f *Factory) CreateType(sourceType SourceType) (Source, error) {
	api := f.config.OddsAPI

	switch sourceType {
	case OddsAPISourceType:
		if api.APIKey == "" {
			return nil, fmt.Errorf("odds API key is required for %s", sourceType)
		}
		httpClient := NewRateLimitedHTTPClient(f.httpClientConfig(), f.logger)
		return NewOddsAPIClient(httpClient, OddsAPIConfig{
			BaseURL:    api.BaseURL,
			APIKey:     api.APIKey,
			Regions:    api.Regions,
			Bookmakers: f.bookmakerFilter(),
			OddsFormat: api.OddsFormat,
			Enabled:    true,
		}, f.logger), nil

	case FileSourceType:
		if api.SnapshotDir == "" {
			return nil, fmt.Errorf("snapshot directory is required for %s", sourceType)
		}
		return NewFileSource(api.SnapshotDir, true, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

// ListAvailableSources returns the supported source types
func (f *Factory) ListAvailableSources() []SourceType {
	return []SourceType{OddsAPISourceType, FileSourceType}
}

func (f *Factory) httpClientConfig() HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	api := f.config.OddsAPI
	if api.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(api.TimeoutSeconds) * time.Second
	}
	cfg.MaxRetries = api.MaxRetries
	if api.RateLimit > 0 {
		cfg.RateLimit = api.RateLimit
	}
	return cfg
}

// bookmakerFilter narrows the request to the source and hedge books when the
// hedge side is restricted; an unrestricted scan fetches every book in the region
func (f *Factory) bookmakerFilter() []string {
	scan := f.config.Scan
	if scan.SourceBook == "" {
		return nil
	}
	if scan.HedgeBook != "" {
		return []string{scan.SourceBook, scan.HedgeBook}
	}
	if len(scan.AllowedBooks) > 0 {
		return append([]string{scan.SourceBook}, scan.AllowedBooks...)
	}
	return nil
}
