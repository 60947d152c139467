package cache

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/promo-hedge/internal/datasource"
	"github.com/yourusername/promo-hedge/internal/models"
)

// CachedSource wraps a datasource.Source with an OddsCache. Concurrent
// misses for the same sport share one upstream request.
type CachedSource struct {
	source datasource.Source
	cache  *OddsCache
	group  singleflight.Group
	logger *logrus.Logger
}

// NewCachedSource creates a new cached source
func NewCachedSource(source datasource.Source, cache *OddsCache, logger *logrus.Logger) *CachedSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedSource{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// FetchGames returns cached games for sport, fetching on a miss
func (c *CachedSource) FetchGames(ctx context.Context, sport string) ([]models.Game, error) {
	key := Key{Source: c.source.Name(), Sport: sport}

	if games, ok := c.cache.Get(key); ok {
		c.logger.WithField("cache_key", key.String()).Debug("Cache hit for odds")
		return games, nil
	}

	c.logger.WithField("cache_key", key.String()).Debug("Cache miss, fetching odds")
	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		games, err := c.source.FetchGames(ctx, sport)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, games)
		return games, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Game), nil
}

// Name returns the wrapped source name
func (c *CachedSource) Name() string {
	return c.source.Name()
}

// IsEnabled returns whether the wrapped source is enabled
func (c *CachedSource) IsEnabled() bool {
	return c.source.IsEnabled()
}

// Quota passes through the wrapped source's quota when it reports one
func (c *CachedSource) Quota() datasource.Quota {
	if qr, ok := c.source.(datasource.QuotaReporter); ok {
		return qr.Quota()
	}
	return datasource.UnknownQuota
}
