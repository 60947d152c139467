package promo

import (
	"github.com/yourusername/promo-hedge/internal/models"
)

// NoSweat hedges a bet refunded as RefundPercent (0..1) of the wager when it loses
type NoSweat struct {
	RefundPercent float64
}

// Kind returns the strategy kind
func (s *NoSweat) Kind() models.StrategyKind {
	return models.StrategyNoSweat
}

// HedgeStake returns wager*(sourceMult+(1-refund))/(hedgeMult+1)
func (s *NoSweat) HedgeStake(wager, sourceMult, hedgeMult float64) (float64, error) {
	return divide(wager*(sourceMult+(1-s.RefundPercent)), hedgeMult+1)
}

// Branches returns the source profit net of the hedge and the hedge profit
// after the refund on the losing source leg
func (s *NoSweat) Branches(wager, hedgeStake, sourceMult, hedgeMult float64) (float64, float64) {
	return wager*sourceMult - hedgeStake, hedgeStake*hedgeMult + wager*s.RefundPercent - wager
}

// Validate checks the refund fraction lies in [0, 1]
func (s *NoSweat) Validate() error {
	if !finite(s.RefundPercent) || s.RefundPercent < 0 || s.RefundPercent > 1 {
		return models.NewValidationError("refund_percent", "must be within [0, 1], got %v", s.RefundPercent)
	}
	return nil
}

// GetParameters returns strategy parameters for logging
func (s *NoSweat) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"refund_percent": s.RefundPercent,
	}
}
