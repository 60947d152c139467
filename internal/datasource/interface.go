package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/promo-hedge/internal/models"
)

// Source defines the interface for fetching head-to-head odds from an external provider
type Source interface {
	// FetchGames retrieves upcoming games with bookmaker quotes for one sport
	FetchGames(ctx context.Context, sport string) ([]models.Game, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// Quota is the provider's request budget as reported on the last response.
// Unknown values are -1.
type Quota struct {
	Remaining int `json:"remaining"`
	Used      int `json:"used"`
}

// UnknownQuota is reported before any request has completed
var UnknownQuota = Quota{Remaining: -1, Used: -1}

// QuotaReporter is implemented by sources that track a request budget
type QuotaReporter interface {
	Quota() Quota
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the error's code
func (e DataSourceError) Is(target error) bool {
	s := sentinelFor(e.Code)
	return s != nil && target == s
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors matching the codes above
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrDisabled             = errors.New("data source disabled")
)

func sentinelFor(code string) error {
	switch code {
	case ErrCodeRateLimitExceeded:
		return ErrRateLimitExceeded
	case ErrCodeAuthenticationFailed:
		return ErrAuthenticationFailed
	case ErrCodeNotFound:
		return ErrNotFound
	case ErrCodeInvalidData:
		return ErrInvalidData
	case ErrCodeNetworkError:
		return ErrNetworkError
	case ErrCodeServerError:
		return ErrServerError
	case ErrCodeDisabled:
		return ErrDisabled
	}
	return nil
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the DataSourceError code from err, or ErrCodeUnknown
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}
