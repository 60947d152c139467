// Package promo converts sportsbook promotions into hedged two-leg bets.
package promo

import (
	"fmt"
	"math"

	"github.com/yourusername/promo-hedge/internal/models"
)

// Strategy defines a promo conversion formula
type Strategy interface {
	Kind() models.StrategyKind
	// HedgeStake returns the unrounded hedge stake for a source wager.
	HedgeStake(wager, sourceMult, hedgeMult float64) (float64, error)
	// Branches returns the net result when the source leg wins and when the
	// hedge leg wins, for an already rounded hedge stake.
	Branches(wager, hedgeStake, sourceMult, hedgeMult float64) (ifSourceWins, ifHedgeWins float64)
	Validate() error
	GetParameters() map[string]interface{}
}

// Params carries the strategy specific inputs. Fields that do not apply to a
// strategy default to zero.
type Params struct {
	BoostPercent  float64 `json:"boost_percent"`
	RefundPercent float64 `json:"refund_percent"`
}

// New builds the strategy for kind and validates its parameters
func New(kind models.StrategyKind, params Params) (Strategy, error) {
	var s Strategy
	switch kind {
	case models.StrategyProfitBoost:
		s = &ProfitBoost{BoostPercent: params.BoostPercent}
	case models.StrategyBonusBet:
		s = &BonusBet{}
	case models.StrategyNoSweat:
		s = &NoSweat{RefundPercent: params.RefundPercent}
	default:
		return nil, models.NewValidationError("strategy", "unknown strategy %q", kind)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseKind maps user input to a strategy kind, accepting a few aliases
func ParseKind(s string) (models.StrategyKind, error) {
	switch s {
	case "profit_boost", "boost", "profit-boost":
		return models.StrategyProfitBoost, nil
	case "bonus_bet", "bonus", "bonus-bet", "free_bet":
		return models.StrategyBonusBet, nil
	case "no_sweat", "nosweat", "no-sweat", "refund":
		return models.StrategyNoSweat, nil
	}
	return "", models.NewValidationError("strategy", "unknown strategy %q", s)
}

// ValidateWager rejects non-positive and non-finite wagers
func ValidateWager(wager float64) error {
	if math.IsNaN(wager) || math.IsInf(wager, 0) {
		return models.NewValidationError("wager", "must be a finite number")
	}
	if wager <= 0 {
		return models.NewValidationError("wager", "must be greater than 0, got %v", wager)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// divide guards against zero and non-finite denominators
func divide(num, den float64) (float64, error) {
	if den == 0 || !finite(den) {
		return 0, fmt.Errorf("%w: division by %v", models.ErrComputation, den)
	}
	return num / den, nil
}
