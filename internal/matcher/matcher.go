// Package matcher pairs source-book quotes with the best complementary hedge
// quote offered by the other eligible bookmakers.
package matcher

import (
	"github.com/yourusername/promo-hedge/internal/models"
)

// binaryArity is the only market arity the conversion formulas support
const binaryArity = 2

// HedgeFilter decides which bookmakers may supply the hedge leg
type HedgeFilter struct {
	only    string
	allowed map[string]struct{}
}

// AnyOf allows any of the given bookmakers. With no arguments every
// bookmaker is allowed.
func AnyOf(books ...string) HedgeFilter {
	f := HedgeFilter{}
	if len(books) > 0 {
		f.allowed = make(map[string]struct{}, len(books))
		for _, b := range books {
			f.allowed[b] = struct{}{}
		}
	}
	return f
}

// Only restricts the hedge leg to a single bookmaker
func Only(book string) HedgeFilter {
	return HedgeFilter{only: book}
}

// Allows reports whether the filter accepts book
func (f HedgeFilter) Allows(book string) bool {
	if f.only != "" {
		return book == f.only
	}
	if f.allowed == nil {
		return true
	}
	_, ok := f.allowed[book]
	return ok
}

// Target returns the single hedge bookmaker, or "" for an unrestricted filter
func (f HedgeFilter) Target() string {
	return f.only
}

// Match returns one pair per source quote that has an eligible hedge.
// Pairs are emitted in source quote order; an empty result is not an error.
func Match(game *models.Game, sourceBook string, filter HedgeFilter) []models.MatchedPair {
	if game == nil || len(game.Participants) != binaryArity {
		return nil
	}

	var sources, candidates []models.Quote
	for _, book := range game.Books {
		for _, q := range book.Quotes {
			if q.MarketArity != binaryArity {
				continue
			}
			if q.Book == "" {
				q.Book = book.Book
			}
			if q.BookTitle == "" {
				q.BookTitle = book.Title
			}
			switch {
			case q.Book == sourceBook:
				sources = append(sources, q)
			case filter.Allows(q.Book):
				candidates = append(candidates, q)
			}
		}
	}

	if len(sources) == 0 || len(candidates) == 0 {
		return nil
	}

	pairs := make([]models.MatchedPair, 0, len(sources))
	for _, s := range sources {
		complement, ok := game.Other(s.Outcome)
		if !ok {
			continue
		}

		best, found := bestHedge(candidates, complement)
		if !found {
			continue
		}

		pairs = append(pairs, models.MatchedPair{
			GameID:       game.ID,
			GameLabel:    game.Label(),
			SportKey:     game.SportKey,
			SportTitle:   game.SportTitle,
			CommenceTime: game.CommenceTime,
			Source:       s,
			Hedge:        best,
		})
	}

	return pairs
}

// bestHedge picks the highest signed American price for outcome.
// Raw integer order is intentional: +120 beats -110 beats -150.
// Equal prices keep the first candidate seen.
func bestHedge(candidates []models.Quote, outcome string) (models.Quote, bool) {
	var best models.Quote
	found := false
	for _, h := range candidates {
		if h.Outcome != outcome {
			continue
		}
		if !found || h.Price > best.Price {
			best = h
			found = true
		}
	}
	return best, found
}
