package models

import (
	"time"

	"github.com/google/uuid"
)

// StrategyKind identifies a promo conversion formula
type StrategyKind string

const (
	StrategyProfitBoost StrategyKind = "profit_boost"
	StrategyBonusBet    StrategyKind = "bonus_bet"
	StrategyNoSweat     StrategyKind = "no_sweat"
)

// Valid reports whether the kind is one of the supported strategies
func (k StrategyKind) Valid() bool {
	switch k {
	case StrategyProfitBoost, StrategyBonusBet, StrategyNoSweat:
		return true
	}
	return false
}

// MatchedPair couples a source quote with the best complementary hedge quote
// for the same game
type MatchedPair struct {
	GameID       string    `json:"game_id"`
	GameLabel    string    `json:"game_label"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title"`
	CommenceTime time.Time `json:"commence_time"`
	Source       Quote     `json:"source"`
	Hedge        Quote     `json:"hedge"`
}

// Opportunity is the calculator output for one matched pair under one strategy.
// Opportunities are recomputed on every scan and never mutated afterwards.
type Opportunity struct {
	ID           uuid.UUID    `json:"id"`
	SportKey     string       `json:"sport_key"`
	SportTitle   string       `json:"sport_title"`
	GameID       string       `json:"game_id"`
	GameLabel    string       `json:"game_label"`
	CommenceTime time.Time    `json:"commence_time"`
	Source       Quote        `json:"source"`
	Hedge        Quote        `json:"hedge"`
	Strategy     StrategyKind `json:"strategy"`
	Wager        float64      `json:"wager"`
	HedgeStake   float64      `json:"hedge_stake"`
	IfSourceWins float64      `json:"if_source_wins"`
	IfHedgeWins  float64      `json:"if_hedge_wins"`
	Profit       float64      `json:"profit"`
	ROI          float64      `json:"roi"`
}

// IsProfitable reports whether the guaranteed profit is strictly positive
func (o *Opportunity) IsProfitable() bool {
	return o.Profit > 0
}

// TotalOutlay returns the cash put at risk across both legs
func (o *Opportunity) TotalOutlay() float64 {
	return o.Wager + o.HedgeStake
}
