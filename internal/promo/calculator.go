package promo

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/oddsmath"
)

// opportunityNamespace seeds deterministic opportunity IDs
var opportunityNamespace = uuid.MustParse("6f1c7a52-3d0b-4c55-9b8e-0a4f2f7c9e11")

// Result is the outcome of converting one source/hedge price pair
type Result struct {
	HedgeStake   float64 `json:"hedge_stake"`
	IfSourceWins float64 `json:"if_source_wins"`
	IfHedgeWins  float64 `json:"if_hedge_wins"`
	Profit       float64 `json:"profit"`
	ROI          float64 `json:"roi"`
}

// Calculator applies one strategy with a fixed source wager
type Calculator struct {
	strategy Strategy
	wager    float64
}

// NewCalculator validates the wager and strategy before any pair is processed
func NewCalculator(strategy Strategy, wager float64) (*Calculator, error) {
	if strategy == nil {
		return nil, models.NewValidationError("strategy", "is required")
	}
	if err := ValidateWager(wager); err != nil {
		return nil, err
	}
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{strategy: strategy, wager: wager}, nil
}

// Strategy returns the configured strategy
func (c *Calculator) Strategy() Strategy {
	return c.strategy
}

// Wager returns the source stake
func (c *Calculator) Wager() float64 {
	return c.wager
}

// Convert computes the hedge stake and guaranteed profit for two prices.
// The hedge stake is rounded half away from zero to a whole unit; the
// reported profit is the lesser of the two branch results.
func Convert(strategy Strategy, wager float64, sourcePrice, hedgePrice int) (Result, error) {
	if err := ValidateWager(wager); err != nil {
		return Result{}, err
	}

	sourceMult, err := oddsmath.Multiplier(sourcePrice)
	if err != nil {
		return Result{}, fmt.Errorf("source price: %w", err)
	}
	hedgeMult, err := oddsmath.Multiplier(hedgePrice)
	if err != nil {
		return Result{}, fmt.Errorf("hedge price: %w", err)
	}

	raw, err := strategy.HedgeStake(wager, sourceMult, hedgeMult)
	if err != nil {
		return Result{}, err
	}
	if !finite(raw) {
		return Result{}, fmt.Errorf("%w: hedge stake is %v", models.ErrComputation, raw)
	}
	hedgeStake := math.Round(raw)

	ifSource, ifHedge := strategy.Branches(wager, hedgeStake, sourceMult, hedgeMult)
	profit := math.Min(ifSource, ifHedge)
	if !finite(profit) {
		return Result{}, fmt.Errorf("%w: profit is %v", models.ErrComputation, profit)
	}

	return Result{
		HedgeStake:   hedgeStake,
		IfSourceWins: ifSource,
		IfHedgeWins:  ifHedge,
		Profit:       profit,
		ROI:          profit / wager * 100,
	}, nil
}

// Calculate converts one matched pair into an opportunity
func (c *Calculator) Calculate(pair models.MatchedPair) (models.Opportunity, error) {
	res, err := Convert(c.strategy, c.wager, pair.Source.Price, pair.Hedge.Price)
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("game %s %s vs %s: %w", pair.GameID, pair.Source, pair.Hedge, err)
	}

	return models.Opportunity{
		ID:           OpportunityID(pair, c.strategy.Kind()),
		SportKey:     pair.SportKey,
		SportTitle:   pair.SportTitle,
		GameID:       pair.GameID,
		GameLabel:    pair.GameLabel,
		CommenceTime: pair.CommenceTime,
		Source:       pair.Source,
		Hedge:        pair.Hedge,
		Strategy:     c.strategy.Kind(),
		Wager:        c.wager,
		HedgeStake:   res.HedgeStake,
		IfSourceWins: res.IfSourceWins,
		IfHedgeWins:  res.IfHedgeWins,
		Profit:       res.Profit,
		ROI:          res.ROI,
	}, nil
}

// OpportunityID derives a stable ID from the pair identity so that rescanning
// the same snapshot yields identical records
func OpportunityID(pair models.MatchedPair, kind models.StrategyKind) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%d|%s|%s|%d|%s",
		pair.GameID,
		pair.Source.Book, pair.Source.Outcome, pair.Source.Price,
		pair.Hedge.Book, pair.Hedge.Outcome, pair.Hedge.Price,
		kind,
	)
	return uuid.NewSHA1(opportunityNamespace, []byte(key))
}
