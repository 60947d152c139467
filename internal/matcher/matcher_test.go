package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/promo-hedge/internal/models"
)

const (
	homeTeam = "Boston Celtics"
	awayTeam = "New York Knicks"
)

func quote(book, outcome string, price int) models.Quote {
	return models.Quote{Book: book, BookTitle: book, Outcome: outcome, Price: price, MarketArity: 2}
}

func book(key string, quotes ...models.Quote) models.BookQuotes {
	return models.BookQuotes{Book: key, Title: key, Quotes: quotes}
}

func testGame(books ...models.BookQuotes) *models.Game {
	return &models.Game{
		ID:           "game-1",
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		Participants: []string{homeTeam, awayTeam},
		CommenceTime: time.Date(2026, 10, 20, 23, 30, 0, 0, time.UTC),
		Books:        books,
	}
}

func TestMatchSelectsHighestAmericanPrice(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 250), quote("draftkings", awayTeam, -300)),
		book("fanduel", quote("fanduel", homeTeam, 240), quote("fanduel", awayTeam, -150)),
		book("betmgm", quote("betmgm", homeTeam, 230), quote("betmgm", awayTeam, 120)),
		book("caesars", quote("caesars", homeTeam, 260), quote("caesars", awayTeam, -110)),
	)

	pairs := Match(game, "draftkings", AnyOf())
	require.Len(t, pairs, 2)

	assert.Equal(t, homeTeam, pairs[0].Source.Outcome)
	assert.Equal(t, awayTeam, pairs[0].Hedge.Outcome)
	assert.Equal(t, 120, pairs[0].Hedge.Price)
	assert.Equal(t, "betmgm", pairs[0].Hedge.Book)

	assert.Equal(t, awayTeam, pairs[1].Source.Outcome)
	assert.Equal(t, 260, pairs[1].Hedge.Price)
	assert.Equal(t, "caesars", pairs[1].Hedge.Book)
}

func TestMatchNegativeOrderingUsesIntegerOrder(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 150)),
		book("fanduel", quote("fanduel", awayTeam, -150)),
		book("betmgm", quote("betmgm", awayTeam, -105)),
	)

	pairs := Match(game, "draftkings", AnyOf())
	require.Len(t, pairs, 1)
	assert.Equal(t, -105, pairs[0].Hedge.Price)
}

func TestMatchTieKeepsFirstEncountered(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 150)),
		book("fanduel", quote("fanduel", awayTeam, -120)),
		book("betmgm", quote("betmgm", awayTeam, -120)),
	)

	pairs := Match(game, "draftkings", AnyOf())
	require.Len(t, pairs, 1)
	assert.Equal(t, "fanduel", pairs[0].Hedge.Book)
}

func TestMatchExcludesSourceBookFromHedges(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 150), quote("draftkings", awayTeam, 500)),
		book("fanduel", quote("fanduel", awayTeam, -170)),
	)

	pairs := Match(game, "draftkings", AnyOf())
	for _, p := range pairs {
		assert.NotEqual(t, "draftkings", p.Hedge.Book)
	}
	require.Len(t, pairs, 1)
	assert.Equal(t, -170, pairs[0].Hedge.Price)
}

func TestMatchHedgeFilterOnly(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 150)),
		book("fanduel", quote("fanduel", awayTeam, -110)),
		book("betmgm", quote("betmgm", awayTeam, -140)),
	)

	pairs := Match(game, "draftkings", Only("betmgm"))
	require.Len(t, pairs, 1)
	assert.Equal(t, "betmgm", pairs[0].Hedge.Book)
	assert.Equal(t, -140, pairs[0].Hedge.Price)

	assert.Empty(t, Match(game, "draftkings", Only("caesars")))
}

func TestMatchHedgeFilterAllowedSet(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 150)),
		book("fanduel", quote("fanduel", awayTeam, -110)),
		book("betmgm", quote("betmgm", awayTeam, -140)),
	)

	pairs := Match(game, "draftkings", AnyOf("draftkings", "betmgm"))
	require.Len(t, pairs, 1)
	assert.Equal(t, "betmgm", pairs[0].Hedge.Book)
}

func TestMatchSkipsNonBinaryMarkets(t *testing.T) {
	threeWay := func(b, outcome string, price int) models.Quote {
		q := quote(b, outcome, price)
		q.MarketArity = 3
		return q
	}
	game := testGame(
		book("draftkings", threeWay("draftkings", homeTeam, 150), threeWay("draftkings", "Draw", 240)),
		book("fanduel", threeWay("fanduel", awayTeam, 180)),
	)

	assert.Empty(t, Match(game, "draftkings", AnyOf()))
}

func TestMatchSkipsGameWithoutTwoParticipants(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 150)),
		book("fanduel", quote("fanduel", awayTeam, -110)),
	)
	game.Participants = []string{homeTeam, awayTeam, "Draw"}

	assert.Empty(t, Match(game, "draftkings", AnyOf()))
	assert.Empty(t, Match(nil, "draftkings", AnyOf()))
}

func TestMatchSkipsUnknownOutcomeLabel(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", "Some Other Team", 150), quote("draftkings", homeTeam, 200)),
		book("fanduel", quote("fanduel", awayTeam, -110)),
	)

	pairs := Match(game, "draftkings", AnyOf())
	require.Len(t, pairs, 1)
	assert.Equal(t, homeTeam, pairs[0].Source.Outcome)
}

func TestMatchNoHedgeAvailable(t *testing.T) {
	game := testGame(book("draftkings", quote("draftkings", homeTeam, 150)))
	pairs := Match(game, "draftkings", AnyOf())
	assert.NotNil(t, game)
	assert.Empty(t, pairs)
}

func TestMatchIsDeterministic(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 250), quote("draftkings", awayTeam, -300)),
		book("fanduel", quote("fanduel", homeTeam, 240), quote("fanduel", awayTeam, -150)),
		book("betmgm", quote("betmgm", homeTeam, 260), quote("betmgm", awayTeam, -150)),
	)

	first := Match(game, "draftkings", AnyOf())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Match(game, "draftkings", AnyOf()))
	}
}

func TestMatchCarriesGameMetadata(t *testing.T) {
	game := testGame(
		book("draftkings", quote("draftkings", homeTeam, 250)),
		book("fanduel", quote("fanduel", awayTeam, -280)),
	)

	pairs := Match(game, "draftkings", AnyOf())
	require.Len(t, pairs, 1)
	assert.Equal(t, "game-1", pairs[0].GameID)
	assert.Equal(t, awayTeam+" @ "+homeTeam, pairs[0].GameLabel)
	assert.Equal(t, "basketball_nba", pairs[0].SportKey)
	assert.Equal(t, game.CommenceTime, pairs[0].CommenceTime)
}

func TestHedgeFilterAllows(t *testing.T) {
	assert.True(t, AnyOf().Allows("anything"))
	assert.True(t, AnyOf("a", "b").Allows("a"))
	assert.False(t, AnyOf("a", "b").Allows("c"))
	assert.True(t, Only("a").Allows("a"))
	assert.False(t, Only("a").Allows("b"))
	assert.Equal(t, "a", Only("a").Target())
	assert.Equal(t, "", AnyOf("a").Target())
}
