package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/promo"
	"github.com/yourusername/promo-hedge/internal/service"
)

type stubScanner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubScanner) Scan(ctx context.Context, req service.ScanRequest) (*service.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("scan context has no deadline")
	}
	return &service.ScanResult{ID: uuid.New(), Request: req}, nil
}

func (s *stubScanner) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func validRequest() service.ScanRequest {
	return service.ScanRequest{
		SourceBook: "fanduel",
		Strategy:   models.StrategyBonusBet,
		Params:     promo.Params{},
		Wager:      50,
		Sports:     []string{"basketball_nba"},
	}
}

func TestScheduleScanValidatesInputs(t *testing.T) {
	s := NewScheduler(&stubScanner{}, logger.Discard())

	_, err := s.ScheduleScan("not a cron", validRequest(), nil)
	assert.Error(t, err)

	bad := validRequest()
	bad.Wager = -1
	_, err = s.ScheduleScan("*/5 * * * *", bad, nil)
	assert.Error(t, err)

	assert.Error(t, s.Start(), "no jobs scheduled")
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&stubScanner{}, logger.Discard())

	id, err := s.ScheduleScan("*/5 * * * *", validRequest(), nil)
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
	assert.True(t, s.GetNextRun().IsZero(), "no next run before start")

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	_, err = s.ScheduleScan("@every 1m", validRequest(), nil)
	assert.Error(t, err, "cannot schedule while running")
	assert.Error(t, s.RemoveJob(id))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.RemoveJob(id))
	assert.Empty(t, s.Entries())
}

func TestRunNowDeliversResult(t *testing.T) {
	scanner := &stubScanner{}
	s := NewScheduler(scanner, logger.Discard())
	s.SetJobTimeout(time.Second)

	var got *service.ScanResult
	s.RunNow(context.Background(), validRequest(), func(r *service.ScanResult) { got = r })

	require.NotNil(t, got)
	assert.Equal(t, "fanduel", got.Request.SourceBook)
	assert.Equal(t, 1, scanner.Calls())
}

func TestRunNowSwallowsScanErrors(t *testing.T) {
	scanner := &stubScanner{err: errors.New("provider down")}
	s := NewScheduler(scanner, logger.Discard())

	called := false
	s.RunNow(context.Background(), validRequest(), func(*service.ScanResult) { called = true })

	assert.False(t, called)
	assert.Equal(t, 1, scanner.Calls())
}

func TestScheduledJobFires(t *testing.T) {
	scanner := &stubScanner{}
	s := NewScheduler(scanner, logger.Discard())

	done := make(chan struct{}, 1)
	_, err := s.ScheduleScan("@every 1s", validRequest(), func(*service.ScanResult) {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled scan did not run")
	}
}
