package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/promo-hedge/internal/datasource"
	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/models"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchGames(ctx context.Context, sport string) ([]models.Game, error) {
	args := m.Called(ctx, sport)
	games, _ := args.Get(0).([]models.Game)
	return games, args.Error(1)
}

func (m *mockSource) Name() string   { return "mock" }
func (m *mockSource) IsEnabled() bool { return true }

func sampleGames() []models.Game {
	return []models.Game{{ID: "g1", SportKey: "basketball_nba", Participants: []string{"Home", "Away"}}}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "the_odds_api:basketball_nba", Key{Source: "the_odds_api", Sport: "basketball_nba"}.String())
}

func TestOddsCacheGetSet(t *testing.T) {
	c := NewOddsCache(time.Hour, 10)
	key := Key{Source: "s", Sport: "nba"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	require.True(t, c.Set(key, sampleGames()))
	games, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "g1", games[0].ID)

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestOddsCacheExpires(t *testing.T) {
	c := NewOddsCache(20*time.Millisecond, 10)
	key := Key{Source: "s", Sport: "nba"}
	c.Set(key, sampleGames())

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestOddsCacheMaxSize(t *testing.T) {
	c := NewOddsCache(time.Hour, 1)
	assert.True(t, c.Set(Key{Sport: "a"}, sampleGames()))
	assert.False(t, c.Set(Key{Sport: "b"}, sampleGames()))
	assert.True(t, c.Set(Key{Sport: "a"}, nil), "overwriting an existing key is allowed")
	assert.Equal(t, 1, c.ItemCount())
}

func TestCachedSourceFetchesOnce(t *testing.T) {
	src := &mockSource{}
	src.On("FetchGames", mock.Anything, "basketball_nba").Return(sampleGames(), nil).Once()

	cs := NewCachedSource(src, NewOddsCache(time.Hour, 10), logger.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		games, err := cs.FetchGames(ctx, "basketball_nba")
		require.NoError(t, err)
		assert.Len(t, games, 1)
	}
	src.AssertNumberOfCalls(t, "FetchGames", 1)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	src := &mockSource{}
	src.On("FetchGames", mock.Anything, "icehockey_nhl").Return(nil, errors.New("boom")).Twice()

	cs := NewCachedSource(src, NewOddsCache(time.Hour, 10), nil)
	for i := 0; i < 2; i++ {
		_, err := cs.FetchGames(context.Background(), "icehockey_nhl")
		assert.Error(t, err)
	}
	src.AssertExpectations(t)
}

func TestCachedSourceConcurrent(t *testing.T) {
	src := &mockSource{}
	src.On("FetchGames", mock.Anything, "basketball_nba").Return(sampleGames(), nil).Maybe()

	cs := NewCachedSource(src, NewOddsCache(time.Hour, 10), logger.Discard())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			games, err := cs.FetchGames(context.Background(), "basketball_nba")
			assert.NoError(t, err)
			assert.Len(t, games, 1)
		}()
	}
	wg.Wait()
}

func TestCachedSourcePassthrough(t *testing.T) {
	cs := NewCachedSource(&mockSource{}, NewOddsCache(time.Hour, 10), nil)
	assert.Equal(t, "mock", cs.Name())
	assert.True(t, cs.IsEnabled())
	assert.Equal(t, datasource.UnknownQuota, cs.Quota())
}
