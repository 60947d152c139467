package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/promo-hedge/internal/books"
	"github.com/yourusername/promo-hedge/internal/cache"
	"github.com/yourusername/promo-hedge/internal/config"
	"github.com/yourusername/promo-hedge/internal/datasource"
	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	exitError   = 1
	exitInvalid = 2
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
	registry   = books.Default()
)

// invalidInputError marks parameter or configuration problems so they exit
// differently from runtime failures
type invalidInputError struct {
	err error
}

func (e *invalidInputError) Error() string { return e.err.Error() }
func (e *invalidInputError) Unwrap() error { return e.err }

func invalid(err error) error {
	return &invalidInputError{err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "promo-hedge",
		Short:         "Convert sportsbook promotions into hedged profit",
		Long:          `Scans moneyline odds, pairs a promo bet at the source book with the best hedge elsewhere and ranks the guaranteed outcomes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			appLog = logger.NewLogger(cfg.App.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	root.AddCommand(newScanCmd(), newWatchCmd(), newBooksCmd())
	return root
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ie *invalidInputError
	if errors.As(err, &ie) || models.IsValidationError(err) {
		return exitInvalid
	}
	return exitError
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	return nil
}

// validateConfig runs once flag overrides have been applied
func validateConfig() error {
	if err := config.Validate(cfg); err != nil {
		return invalid(fmt.Errorf("invalid configuration:\n%w", err))
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return invalid(err)
	}
	return nil
}

// buildScanner wires the configured provider, optionally behind the odds cache
func buildScanner() (*service.ScanService, error) {
	source, err := datasource.NewFactory(cfg, appLog).Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create odds source: %w", err)
	}

	if cfg.Cache.Enabled && cfg.Cache.TTL() > 0 {
		oddsCache := cache.NewOddsCache(cfg.Cache.TTL(), cfg.Cache.MaxSize)
		source = cache.NewCachedSource(source, oddsCache, appLog)
		appLog.WithField("ttl", cfg.Cache.TTL()).Debug("Odds cache enabled")
	}

	return service.NewScanService(source, cfg.Scan.MaxWorkers, appLog), nil
}

// resolveBook accepts either a provider key or a display name
func resolveBook(name string) (string, error) {
	b, err := registry.Resolve(name)
	if err != nil {
		return "", invalid(err)
	}
	return b.Key, nil
}
