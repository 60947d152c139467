package service

import (
	"math"

	"github.com/yourusername/promo-hedge/internal/config"
	"github.com/yourusername/promo-hedge/internal/matcher"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/promo"
)

// DefaultMinProfit is the near-miss threshold used when none is configured
const DefaultMinProfit = -15.0

// ScanRequest holds every parameter of one scan
type ScanRequest struct {
	SourceBook   string              `json:"source_book"`
	HedgeBook    string              `json:"hedge_book,omitempty"`
	AllowedBooks []string            `json:"allowed_books,omitempty"`
	Strategy     models.StrategyKind `json:"strategy"`
	Params       promo.Params        `json:"params"`
	Wager        float64             `json:"wager"`
	MinProfit    float64             `json:"min_profit"`
	Sports       []string            `json:"sports"`
}

// RequestFromConfig builds a request from the scan section of the configuration
func RequestFromConfig(cfg config.ScanConfig) (ScanRequest, error) {
	kind, err := cfg.StrategyKind()
	if err != nil {
		return ScanRequest{}, err
	}
	return ScanRequest{
		SourceBook:   cfg.SourceBook,
		HedgeBook:    cfg.HedgeBook,
		AllowedBooks: append([]string(nil), cfg.AllowedBooks...),
		Strategy:     kind,
		Params:       cfg.Params(),
		Wager:        cfg.Wager,
		MinProfit:    cfg.MinProfit,
		Sports:       append([]string(nil), cfg.Sports...),
	}, nil
}

// Validate rejects parameters before any pair is processed
func (r ScanRequest) Validate() error {
	_, err := r.Calculator()
	return err
}

// Calculator validates the request and builds its calculator
func (r ScanRequest) Calculator() (*promo.Calculator, error) {
	if r.SourceBook == "" {
		return nil, models.NewValidationError("source_book", "is required")
	}
	if r.HedgeBook != "" && r.HedgeBook == r.SourceBook {
		return nil, models.NewValidationError("hedge_book", "must differ from source book %q", r.SourceBook)
	}
	if len(r.Sports) == 0 {
		return nil, models.NewValidationError("sports", "at least one sport is required")
	}
	if math.IsNaN(r.MinProfit) || math.IsInf(r.MinProfit, 0) {
		return nil, models.NewValidationError("min_profit", "must be a finite number")
	}

	strategy, err := promo.New(r.Strategy, r.Params)
	if err != nil {
		return nil, err
	}
	return promo.NewCalculator(strategy, r.Wager)
}

// Filter returns the hedge filter the request describes
func (r ScanRequest) Filter() matcher.HedgeFilter {
	if r.HedgeBook != "" {
		return matcher.Only(r.HedgeBook)
	}
	return matcher.AnyOf(r.AllowedBooks...)
}
