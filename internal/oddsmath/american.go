// Package oddsmath provides the American odds conversions used across the
// scanner and its reports.
package oddsmath

import (
	"fmt"
	"math"

	"github.com/yourusername/promo-hedge/internal/models"
)

// MinAbsAmerican is the smallest valid magnitude of an American price
const MinAbsAmerican = 100

// ValidAmerican reports whether price is a well-formed American price
func ValidAmerican(price int) bool {
	return price >= MinAbsAmerican || price <= -MinAbsAmerican
}

// Multiplier converts American odds to net profit per unit staked
// (decimal odds minus one).
// American +250 → 2.5
// American -280 → 0.357
func Multiplier(american int) (float64, error) {
	if !ValidAmerican(american) {
		return 0, fmt.Errorf("%w: %d", models.ErrInvalidPrice, american)
	}

	if american > 0 {
		return float64(american) / 100.0, nil
	}

	return 100.0 / math.Abs(float64(american)), nil
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	m, err := Multiplier(american)
	if err != nil {
		return 0, err
	}
	return m + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 || math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return 0, fmt.Errorf("invalid decimal odds: must be > 1.0, got %v", decimal)
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// AmericanToImpliedProbability converts American odds to the implied win probability
// American +100 → 0.50
// American -200 → 0.667
func AmericanToImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / decimal, nil
}
