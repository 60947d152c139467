package promo

import (
	"github.com/yourusername/promo-hedge/internal/models"
)

// ProfitBoost hedges a bet whose winnings are increased by BoostPercent.
// The boost applies to the source leg's net profit only.
type ProfitBoost struct {
	BoostPercent float64
}

// Kind returns the strategy kind
func (s *ProfitBoost) Kind() models.StrategyKind {
	return models.StrategyProfitBoost
}

func (s *ProfitBoost) boostedMultiplier(sourceMult float64) float64 {
	return sourceMult * (1 + s.BoostPercent/100)
}

// HedgeStake returns wager*(1+boosted)/(1+hedgeMult)
func (s *ProfitBoost) HedgeStake(wager, sourceMult, hedgeMult float64) (float64, error) {
	return divide(wager*(1+s.boostedMultiplier(sourceMult)), 1+hedgeMult)
}

// Branches returns the boosted source profit and the hedge profit
func (s *ProfitBoost) Branches(wager, hedgeStake, sourceMult, hedgeMult float64) (float64, float64) {
	return wager*s.boostedMultiplier(sourceMult) - hedgeStake, hedgeStake*hedgeMult - wager
}

// Validate checks the boost is a non-negative finite percentage
func (s *ProfitBoost) Validate() error {
	if !finite(s.BoostPercent) || s.BoostPercent < 0 {
		return models.NewValidationError("boost_percent", "must be a finite value >= 0, got %v", s.BoostPercent)
	}
	return nil
}

// GetParameters returns strategy parameters for logging
func (s *ProfitBoost) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"boost_percent": s.BoostPercent,
	}
}
