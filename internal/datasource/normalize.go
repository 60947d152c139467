package datasource

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/oddsmath"
)

// MarketH2H is the moneyline market key
const MarketH2H = "h2h"

// Price formats the provider can return
const (
	OddsFormatAmerican = "american"
	OddsFormatDecimal  = "decimal"
)

// NormalizeEvents converts provider events into games. Bookmaker order is
// preserved. Decimal prices are converted to American; outcomes with
// non-integral or invalid American prices are dropped, as are bookmakers left
// without quotes. An empty format means American.
func NormalizeEvents(events []OddsAPIEvent, format string, log *logger.ProviderLogger) []models.Game {
	toAmerican := americanPrice
	if format == OddsFormatDecimal {
		toAmerican = decimalPrice
	}
	games := make([]models.Game, 0, len(events))
	for i := range events {
		games = append(games, normalizeEvent(&events[i], toAmerican, log))
	}
	return games
}

func normalizeEvent(ev *OddsAPIEvent, toAmerican func(decimal.Decimal) (int, string), log *logger.ProviderLogger) models.Game {
	game := models.Game{
		ID:           ev.ID,
		SportKey:     ev.SportKey,
		SportTitle:   ev.SportTitle,
		CommenceTime: ev.CommenceTime.UTC(),
	}
	for _, team := range []string{ev.HomeTeam, ev.AwayTeam} {
		if team != "" {
			game.Participants = append(game.Participants, team)
		}
	}

	for _, bm := range ev.Bookmakers {
		bq := models.BookQuotes{
			Book:       bm.Key,
			Title:      bm.Title,
			LastUpdate: bm.LastUpdate.UTC(),
		}
		for _, market := range bm.Markets {
			if market.Key != MarketH2H {
				continue
			}
			arity := len(market.Outcomes)
			for _, oc := range market.Outcomes {
				price, reason := toAmerican(oc.Price)
				if reason == "" && oc.Name == "" {
					reason = "missing outcome name"
				}
				if reason != "" {
					if log != nil {
						log.LogDroppedOutcome(ev.ID, bm.Key, oc.Name, reason)
					}
					continue
				}
				bq.Quotes = append(bq.Quotes, models.Quote{
					Book:        bm.Key,
					BookTitle:   bm.Title,
					Outcome:     oc.Name,
					Price:       price,
					MarketArity: arity,
				})
			}
		}
		if len(bq.Quotes) > 0 {
			game.Books = append(game.Books, bq)
		}
	}
	return game
}

// americanPrice returns the integral American price, or a reason it was rejected
func americanPrice(d decimal.Decimal) (int, string) {
	if !d.IsInteger() {
		return 0, "non-integral American price " + d.String()
	}
	if d.Abs().GreaterThan(decimal.NewFromInt(1_000_000)) {
		return 0, "American price out of range " + d.String()
	}
	p := int(d.IntPart())
	if !oddsmath.ValidAmerican(p) {
		return 0, "invalid American price " + d.String()
	}
	return p, ""
}

// decimalPrice converts a decimal price to the nearest American price
func decimalPrice(d decimal.Decimal) (int, string) {
	f, _ := d.Float64()
	p, err := oddsmath.DecimalToAmerican(f)
	if err != nil {
		return 0, err.Error()
	}
	return americanPrice(decimal.NewFromInt(int64(p)))
}
