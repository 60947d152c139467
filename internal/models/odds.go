package models

import (
	"fmt"
	"strings"
	"time"
)

// Quote is one bookmaker's American price for one outcome of a moneyline market
type Quote struct {
	Book        string `json:"book" validate:"required"`
	BookTitle   string `json:"book_title"`
	Outcome     string `json:"outcome" validate:"required"`
	Price       int    `json:"price" validate:"required"`
	MarketArity int    `json:"market_arity" validate:"gte=1"`
}

// String renders the quote as "Team @ +150 (book)"
func (q Quote) String() string {
	return fmt.Sprintf("%s @ %+d (%s)", q.Outcome, q.Price, q.DisplayBook())
}

// DisplayBook returns the bookmaker title, falling back to its key
func (q Quote) DisplayBook() string {
	if q.BookTitle != "" {
		return q.BookTitle
	}
	return q.Book
}

// BookQuotes holds the quotes one bookmaker offers on a game
type BookQuotes struct {
	Book       string    `json:"book"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Quotes     []Quote   `json:"quotes"`
}

// Game is a scheduled event with head-to-head quotes from several bookmakers.
// Books keep the provider's order; matching relies on it for tie-breaks.
type Game struct {
	ID           string       `json:"id" validate:"required"`
	SportKey     string       `json:"sport_key"`
	SportTitle   string       `json:"sport_title"`
	Participants []string     `json:"participants"` // home first, then away
	CommenceTime time.Time    `json:"commence_time"`
	Books        []BookQuotes `json:"books"`
}

// Label returns "Away @ Home" for two-participant games
func (g *Game) Label() string {
	if len(g.Participants) == 2 {
		return g.Participants[1] + " @ " + g.Participants[0]
	}
	return strings.Join(g.Participants, " vs ")
}

// Other returns the complementary participant of label. The second return is
// false when the game is not a two-participant game or label is not part of it.
func (g *Game) Other(label string) (string, bool) {
	if len(g.Participants) != 2 || g.Participants[0] == g.Participants[1] {
		return "", false
	}
	switch label {
	case g.Participants[0]:
		return g.Participants[1], true
	case g.Participants[1]:
		return g.Participants[0], true
	default:
		return "", false
	}
}

// QuoteCount returns the number of quotes across all bookmakers
func (g *Game) QuoteCount() int {
	n := 0
	for _, b := range g.Books {
		n += len(b.Quotes)
	}
	return n
}

// HasBook reports whether the bookmaker quotes this game
func (g *Game) HasBook(book string) bool {
	for _, b := range g.Books {
		if b.Book == book {
			return true
		}
	}
	return false
}
