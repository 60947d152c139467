package config

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/promo-hedge/internal/promo"
)

var bookKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("strategy", validateStrategy)
	_ = v.RegisterValidation("bookkey", validateBookKey)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	_, err := promo.ParseKind(fl.Field().String())
	return err == nil
}

// validateBookKey accepts provider keys such as "williamhill_us"
func validateBookKey(fl validator.FieldLevel) bool {
	return bookKeyPattern.MatchString(fl.Field().String())
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	scan := cfg.Scan

	if scan.HedgeBook != "" && scan.HedgeBook == scan.SourceBook {
		return fmt.Errorf("scan.hedge_book must differ from scan.source_book")
	}
	if scan.HedgeBook != "" && len(scan.AllowedBooks) > 0 && !contains(scan.AllowedBooks, scan.HedgeBook) {
		return fmt.Errorf("scan.hedge_book %q is not in scan.allowed_books", scan.HedgeBook)
	}

	for name, v := range map[string]float64{
		"scan.boost_percent":  scan.BoostPercent,
		"scan.refund_percent": scan.RefundPercent,
		"scan.wager":          scan.Wager,
		"scan.min_profit":     scan.MinProfit,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}

	kind, err := scan.StrategyKind()
	if err != nil {
		return err
	}
	if _, err := promo.New(kind, scan.Params()); err != nil {
		return fmt.Errorf("invalid %s parameters: %w", kind, err)
	}

	switch cfg.OddsAPI.Provider {
	case "the_odds_api":
		if cfg.OddsAPI.BaseURL == "" {
			return fmt.Errorf("odds_api.base_url is required for provider the_odds_api")
		}
		if len(cfg.OddsAPI.Regions) == 0 {
			return fmt.Errorf("odds_api.regions is required for provider the_odds_api")
		}
	case "file":
		if cfg.OddsAPI.SnapshotDir == "" {
			return fmt.Errorf("odds_api.snapshot_dir is required for provider file")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics.port is required when metrics are enabled")
	}

	return nil
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() && cfg.OddsAPI.Provider == "the_odds_api" {
		if cfg.OddsAPI.APIKey == "" && !cfg.Secrets.Enabled() {
			return fmt.Errorf("production environment requires odds_api.api_key or secrets.secret_name")
		}
		if isPlaceholderCredential(cfg.OddsAPI.APIKey) {
			return fmt.Errorf("production environment should not use a placeholder odds API key")
		}
	}
	return nil
}

func isPlaceholderCredential(credential string) bool {
	lower := strings.ToLower(credential)
	for _, pattern := range []string{"test", "demo", "example", "placeholder", "your_"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "strategy":
			fmt.Fprintf(&b, "- Field '%s' must be one of: profit_boost, bonus_bet, no_sweat, got '%v'\n", field, value)
		case "bookkey":
			fmt.Fprintf(&b, "- Field '%s' must be a bookmaker key like 'draftkings', got '%v'\n", field, value)
		case "oneof", "eq":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
