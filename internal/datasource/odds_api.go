package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/metrics"
	"github.com/yourusername/promo-hedge/internal/models"
)

const (
	// OddsAPISourceName identifies The Odds API provider
	OddsAPISourceName = "the_odds_api"

	// DefaultOddsAPIBaseURL is The Odds API v4 root
	DefaultOddsAPIBaseURL = "https://api.the-odds-api.com/v4"

	headerRequestsRemaining = "x-requests-remaining"
	headerRequestsUsed      = "x-requests-used"
)

// OddsAPIEvent is one event in The Odds API v4 odds response
type OddsAPIEvent struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	SportTitle   string             `json:"sport_title"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []OddsAPIBookmaker `json:"bookmakers"`
}

// OddsAPIBookmaker is a bookmaker entry in an event
type OddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []OddsAPIMarket `json:"markets"`
}

// OddsAPIMarket is a market offered by a bookmaker
type OddsAPIMarket struct {
	Key        string           `json:"key"`
	LastUpdate time.Time        `json:"last_update"`
	Outcomes   []OddsAPIOutcome `json:"outcomes"`
}

// OddsAPIOutcome is a priced outcome. Prices stay decimal until normalized so
// a non-integral American price is detected instead of truncated.
type OddsAPIOutcome struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OddsAPIConfig configures the client
type OddsAPIConfig struct {
	BaseURL    string
	APIKey     string
	Regions    []string
	Bookmakers []string // optional; restricts the response to these keys
	OddsFormat string   // american (default) or decimal
	Enabled    bool
}

// OddsAPIClient implements Source for The Odds API v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        OddsAPIConfig
	log        *logger.ProviderLogger

	mu    sync.RWMutex
	quota Quota
}

// NewOddsAPIClient creates a new The Odds API client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, cfg OddsAPIConfig, log *logrus.Logger) *OddsAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOddsAPIBaseURL
	}
	if log == nil {
		log = logrus.New()
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		cfg:        cfg,
		log:        logger.NewProviderLogger(log, OddsAPISourceName),
		quota:      UnknownQuota,
	}
}

// Name returns the name of the data source
func (c *OddsAPIClient) Name() string {
	return OddsAPISourceName
}

// IsEnabled returns whether this data source is currently enabled
func (c *OddsAPIClient) IsEnabled() bool {
	return c.cfg.Enabled
}

// Quota returns the request budget reported by the last response
func (c *OddsAPIClient) Quota() Quota {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quota
}

// FetchGames retrieves upcoming head-to-head odds for a sport
func (c *OddsAPIClient) FetchGames(ctx context.Context, sport string) ([]models.Game, error) {
	if !c.cfg.Enabled {
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeDisabled, "data source is disabled", nil)
	}
	if sport == "" {
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeInvalidData, "sport key is required", nil)
	}

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, c.oddsURL(sport))
	if err != nil {
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	c.updateQuota(resp.Header)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case http.StatusNotFound:
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeNotFound, fmt.Sprintf("unknown sport %q", sport), nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var events []OddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, NewDataSourceError(OddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	games := NormalizeEvents(events, c.oddsFormat(), c.log)

	latency := time.Since(start)
	metrics.RecordFetchLatency(OddsAPISourceName, latency.Seconds())
	c.log.LogFetch(sport, len(games), latency, false)

	return games, nil
}

func (c *OddsAPIClient) oddsURL(sport string) string {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", strings.Join(c.cfg.Regions, ","))
	q.Set("markets", "h2h")
	q.Set("oddsFormat", c.oddsFormat())
	q.Set("dateFormat", "iso")
	if len(c.cfg.Bookmakers) > 0 {
		q.Set("bookmakers", strings.Join(c.cfg.Bookmakers, ","))
	}
	return fmt.Sprintf("%s/sports/%s/odds?%s", strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(sport), q.Encode())
}

func (c *OddsAPIClient) oddsFormat() string {
	if c.cfg.OddsFormat == OddsFormatDecimal {
		return OddsFormatDecimal
	}
	return OddsFormatAmerican
}

func (c *OddsAPIClient) updateQuota(h http.Header) {
	remaining := headerInt(h, headerRequestsRemaining)
	used := headerInt(h, headerRequestsUsed)
	if remaining < 0 && used < 0 {
		return
	}

	c.mu.Lock()
	if remaining >= 0 {
		c.quota.Remaining = remaining
	}
	if used >= 0 {
		c.quota.Used = used
	}
	c.mu.Unlock()

	metrics.UpdateQuota(remaining, used)
	c.log.LogQuota(remaining, used)
}

// headerInt parses an integer header, returning -1 when absent or malformed.
// The provider sometimes reports fractional usage, which is truncated.
func headerInt(h http.Header, key string) int {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return -1
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return -1
	}
	return int(d.IntPart())
}
