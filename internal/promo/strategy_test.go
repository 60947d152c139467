package promo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/promo-hedge/internal/models"
)

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.StrategyKind
		params  Params
		wantErr bool
	}{
		{"boost", models.StrategyProfitBoost, Params{BoostPercent: 50}, false},
		{"boost zero", models.StrategyProfitBoost, Params{}, false},
		{"boost negative", models.StrategyProfitBoost, Params{BoostPercent: -5}, true},
		{"boost NaN", models.StrategyProfitBoost, Params{BoostPercent: math.NaN()}, true},
		{"bonus", models.StrategyBonusBet, Params{}, false},
		{"no sweat full refund", models.StrategyNoSweat, Params{RefundPercent: 1}, false},
		{"no sweat zero", models.StrategyNoSweat, Params{RefundPercent: 0}, false},
		{"no sweat above one", models.StrategyNoSweat, Params{RefundPercent: 1.01}, true},
		{"no sweat negative", models.StrategyNoSweat, Params{RefundPercent: -0.1}, true},
		{"unknown", models.StrategyKind("parlay"), Params{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.kind, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind())
		})
	}
}

func TestNewStrategyDoesNotClamp(t *testing.T) {
	s, err := New(models.StrategyProfitBoost, Params{BoostPercent: 250})
	require.NoError(t, err)
	assert.Equal(t, 250.0, s.GetParameters()["boost_percent"])
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]models.StrategyKind{
		"profit_boost": models.StrategyProfitBoost,
		"boost":        models.StrategyProfitBoost,
		"bonus":        models.StrategyBonusBet,
		"bonus_bet":    models.StrategyBonusBet,
		"no-sweat":     models.StrategyNoSweat,
		"no_sweat":     models.StrategyNoSweat,
	} {
		got, err := ParseKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("teaser")
	assert.True(t, models.IsValidationError(err))
}

func TestGetParameters(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"boost_percent": 10.0}, (&ProfitBoost{BoostPercent: 10}).GetParameters())
	assert.Equal(t, map[string]interface{}{"refund_percent": 0.5}, (&NoSweat{RefundPercent: 0.5}).GetParameters())
	assert.Empty(t, (&BonusBet{}).GetParameters())
}
