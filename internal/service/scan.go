// Package service runs scans: it fetches odds, matches source quotes with
// hedges and converts each pair with the configured promo strategy.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/promo-hedge/internal/datasource"
	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/matcher"
	"github.com/yourusername/promo-hedge/internal/metrics"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/promo"
	"github.com/yourusername/promo-hedge/internal/ranking"
)

// SportError records a sport whose odds could not be fetched
type SportError struct {
	Sport string `json:"sport"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ScanStats counts what a scan saw
type ScanStats struct {
	Sports        int `json:"sports"`
	Games         int `json:"games"`
	Quotes        int `json:"quotes"`
	SkippedGames  int `json:"skipped_games"`
	Pairs         int `json:"pairs"`
	PairErrors    int `json:"pair_errors"`
	BelowMinimum  int `json:"below_min_profit"`
	Opportunities int `json:"opportunities"`
	Profitable    int `json:"profitable"`
}

// ScanResult is the output of one scan
type ScanResult struct {
	ID            uuid.UUID            `json:"id"`
	StartedAt     time.Time            `json:"started_at"`
	CompletedAt   time.Time            `json:"completed_at"`
	Request       ScanRequest          `json:"request"`
	Opportunities []models.Opportunity `json:"opportunities"`
	Stats         ScanStats            `json:"stats"`
	SportErrors   []SportError         `json:"sport_errors,omitempty"`
	Quota         datasource.Quota     `json:"quota"`
}

// Duration returns how long the scan took
func (r *ScanResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Failed reports whether every requested sport failed to fetch
func (r *ScanResult) Failed() bool {
	return r.Stats.Sports > 0 && len(r.SportErrors) == r.Stats.Sports
}

// ScanService runs scans against a datasource and keeps the latest result
type ScanService struct {
	source     datasource.Source
	maxWorkers int
	logger     *logrus.Logger
	scanLog    *logger.ScanLogger
	now        func() time.Time

	mu     sync.RWMutex
	latest *ScanResult
}

// NewScanService creates a new scan service. maxWorkers bounds both the
// concurrent sport fetches and the concurrent game evaluations.
func NewScanService(source datasource.Source, maxWorkers int, log *logrus.Logger) *ScanService {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	if log == nil {
		log = logrus.New()
	}
	return &ScanService{
		source:     source,
		maxWorkers: maxWorkers,
		logger:     log,
		scanLog:    logger.NewScanLogger(log),
		now:        time.Now,
	}
}

// Scan validates req, fetches every sport and evaluates the games. A failing
// sport is recorded in the result and does not stop the others. Only invalid
// parameters and context cancellation are returned as errors.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	calc, err := req.Calculator()
	if err != nil {
		return nil, err
	}
	if s.source == nil || !s.source.IsEnabled() {
		return nil, fmt.Errorf("no enabled odds source configured")
	}

	result := &ScanResult{
		ID:        uuid.New(),
		StartedAt: s.now(),
		Request:   req,
		Quota:     datasource.UnknownQuota,
	}
	scanID := result.ID.String()
	s.scanLog.LogScanStarted(scanID, req.SourceBook, req.HedgeBook, string(req.Strategy),
		calc.Strategy().GetParameters(), req.Wager, req.Sports)

	games, sportErrs := s.fetchAll(ctx, scanID, req.Sports)
	if err := ctx.Err(); err != nil {
		metrics.RecordScan(string(req.Strategy), false, s.now().Sub(result.StartedAt).Seconds())
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	opps, stats := s.evaluate(scanID, games, req, calc)
	stats.Sports = len(req.Sports)

	result.Opportunities = opps
	result.Stats = stats
	result.SportErrors = sportErrs
	if qr, ok := s.source.(datasource.QuotaReporter); ok {
		result.Quota = qr.Quota()
	}
	result.CompletedAt = s.now()

	s.record(result)
	s.scanLog.LogScanCompleted(scanID, stats.Games, stats.Pairs, stats.Opportunities,
		stats.PairErrors, len(sportErrs), result.Duration())

	return result, nil
}

// Evaluate runs the matcher and calculator over games already in hand. It is
// the pure part of a scan and touches neither the datasource nor the latest result.
func (s *ScanService) Evaluate(games []models.Game, req ScanRequest) ([]models.Opportunity, ScanStats, error) {
	calc, err := req.Calculator()
	if err != nil {
		return nil, ScanStats{}, err
	}
	opps, stats := s.evaluate("", games, req, calc)
	return opps, stats, nil
}

// Latest returns the most recent completed scan
func (s *ScanService) Latest() (*ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

type sportFetch struct {
	games []models.Game
	err   error
}

// fetchAll fetches every sport on the worker pool. Games come back in sport
// order and errors are returned in sport order.
func (s *ScanService) fetchAll(ctx context.Context, scanID string, sports []string) ([]models.Game, []SportError) {
	slots := make([]sportFetch, len(sports))

	var g errgroup.Group
	g.SetLimit(s.maxWorkers)
	for i, sport := range sports {
		i, sport := i, sport
		g.Go(func() error {
			games, err := s.source.FetchGames(ctx, sport)
			slots[i] = sportFetch{games: games, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var games []models.Game
	var errs []SportError
	for i, slot := range slots {
		if slot.err != nil {
			code := datasource.ErrorCode(slot.err)
			metrics.RecordFetchError(sports[i], code)
			s.scanLog.LogSportFetchFailed(scanID, sports[i], s.source.Name(), slot.err)
			errs = append(errs, SportError{Sport: sports[i], Code: code, Error: slot.err.Error()})
			continue
		}
		games = append(games, slot.games...)
	}
	return games, errs
}

type gameResult struct {
	opps     []models.Opportunity
	pairs    int
	errors   int
	filtered int
}

// evaluate converts every game on the worker pool. Each game writes to its
// own slot so output order matches a sequential run.
func (s *ScanService) evaluate(scanID string, games []models.Game, req ScanRequest, calc *promo.Calculator) ([]models.Opportunity, ScanStats) {
	filter := req.Filter()
	slots := make([]gameResult, len(games))

	var g errgroup.Group
	g.SetLimit(s.maxWorkers)
	for i := range games {
		i := i
		g.Go(func() error {
			slots[i] = s.evaluateGame(scanID, &games[i], req, filter, calc)
			return nil
		})
	}
	_ = g.Wait()

	stats := ScanStats{Games: len(games)}
	var opps []models.Opportunity
	for i, slot := range slots {
		stats.Quotes += games[i].QuoteCount()
		if slot.pairs == 0 {
			stats.SkippedGames++
		}
		stats.Pairs += slot.pairs
		stats.PairErrors += slot.errors
		stats.BelowMinimum += slot.filtered
		opps = append(opps, slot.opps...)
	}
	stats.Opportunities = len(opps)
	for i := range opps {
		if opps[i].IsProfitable() {
			stats.Profitable++
		}
	}

	metrics.RecordMatchedPairs(stats.Pairs)
	return opps, stats
}

func (s *ScanService) evaluateGame(scanID string, game *models.Game, req ScanRequest, filter matcher.HedgeFilter, calc *promo.Calculator) gameResult {
	if !game.HasBook(req.SourceBook) {
		s.scanLog.LogGameSkipped(scanID, game.ID, "source book not quoting")
		return gameResult{}
	}

	pairs := matcher.Match(game, req.SourceBook, filter)
	res := gameResult{pairs: len(pairs)}
	if len(pairs) == 0 {
		s.scanLog.LogGameSkipped(scanID, game.ID, "no matched pairs")
		return res
	}

	for _, pair := range pairs {
		opp, err := calc.Calculate(pair)
		if err != nil {
			res.errors++
			metrics.RecordPairError()
			s.scanLog.LogPairFailed(scanID, pair.GameID, pair.Source.Outcome, err)
			continue
		}
		if opp.Profit <= req.MinProfit {
			res.filtered++
			continue
		}
		res.opps = append(res.opps, opp)
	}
	return res
}

func (s *ScanService) record(result *ScanResult) {
	strategy := string(result.Request.Strategy)
	metrics.RecordScan(strategy, !result.Failed(), result.Duration().Seconds())

	best := 0.0
	for i, o := range result.Opportunities {
		metrics.RecordOpportunity(strategy, ranking.BucketFor(o.HedgeStake).String())
		if i == 0 || o.Profit > best {
			best = o.Profit
		}
	}
	metrics.UpdateLastScan(len(result.Opportunities), best)

	if result.Failed() {
		return
	}
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
}
