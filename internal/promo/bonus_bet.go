package promo

import (
	"github.com/yourusername/promo-hedge/internal/models"
)

// BonusBet hedges a site credit whose stake is not returned on a win
type BonusBet struct{}

// Kind returns the strategy kind
func (s *BonusBet) Kind() models.StrategyKind {
	return models.StrategyBonusBet
}

// HedgeStake returns wager*sourceMult/(1+hedgeMult)
func (s *BonusBet) HedgeStake(wager, sourceMult, hedgeMult float64) (float64, error) {
	return divide(wager*sourceMult, 1+hedgeMult)
}

// Branches returns the source profit net of the hedge and the hedge profit.
// A losing bonus bet costs nothing.
func (s *BonusBet) Branches(wager, hedgeStake, sourceMult, hedgeMult float64) (float64, float64) {
	return wager*sourceMult - hedgeStake, hedgeStake * hedgeMult
}

// Validate has nothing to check for bonus bets
func (s *BonusBet) Validate() error {
	return nil
}

// GetParameters returns strategy parameters for logging
func (s *BonusBet) GetParameters() map[string]interface{} {
	return map[string]interface{}{}
}
