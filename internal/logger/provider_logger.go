package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ProviderLogger logs odds provider traffic.
type ProviderLogger struct {
	*logrus.Entry
}

// NewProviderLogger creates a logger tagged with the provider name.
func NewProviderLogger(baseLogger *logrus.Logger, provider string) *ProviderLogger {
	return &ProviderLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "odds_provider",
			"provider":  provider,
		}),
	}
}

// LogFetch logs a completed odds request.
func (pl *ProviderLogger) LogFetch(sport string, games int, latency time.Duration, cacheHit bool) {
	pl.WithFields(logrus.Fields{
		"sport":      sport,
		"games":      games,
		"latency_ms": float64(latency.Microseconds()) / 1000,
		"cache_hit":  cacheHit,
	}).Debug("Odds fetched")
}

// LogQuota logs the provider request quota after a call.
func (pl *ProviderLogger) LogQuota(remaining, used int) {
	entry := pl.WithFields(logrus.Fields{
		"requests_remaining": remaining,
		"requests_used":      used,
	})
	if remaining >= 0 && remaining < 50 {
		entry.Warn("Odds API quota running low")
		return
	}
	entry.Debug("Odds API quota")
}

// LogCircuitBreakerEvent logs circuit breaker transitions.
func (pl *ProviderLogger) LogCircuitBreakerEvent(state string, failures int) {
	pl.WithFields(logrus.Fields{
		"breaker_state": state,
		"failures":      failures,
	}).Warn("Circuit breaker state changed")
}

// LogDroppedOutcome logs a quote discarded during normalization.
func (pl *ProviderLogger) LogDroppedOutcome(gameID, book, outcome, reason string) {
	pl.WithFields(logrus.Fields{
		"game_id": gameID,
		"book":    book,
		"outcome": outcome,
		"reason":  reason,
	}).Debug("Outcome dropped")
}
