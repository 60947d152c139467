// Package scheduler runs scans on a cron schedule for watch mode.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/promo-hedge/internal/service"
)

// Scanner runs one scan
type Scanner interface {
	Scan(ctx context.Context, req service.ScanRequest) (*service.ScanResult, error)
}

// ResultHandler receives every completed scan
type ResultHandler func(*service.ScanResult)

// Scheduler manages scheduled scan jobs
type Scheduler struct {
	cron            *cron.Cron
	scanner         Scanner
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. Runs that overlap a still-running
// scan are skipped.
func NewScheduler(scanner Scanner, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	cronLogger := cron.PrintfLogger(logger.WithField("component", "scheduler"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		scanner:         scanner,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      2 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// SetJobTimeout bounds each scan; it applies to jobs scheduled afterwards
func (s *Scheduler) SetJobTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobTimeout = d
}

// ScheduleScan schedules req with a standard five-field cron expression
// or a descriptor such as "@every 5m"
func (s *Scheduler) ScheduleScan(cronExpression string, req service.ScanRequest, onResult ResultHandler) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("invalid scan request: %w", err)
	}

	timeout := s.jobTimeout
	entryID, err := s.cron.AddFunc(cronExpression, func() {
		s.runScan(context.Background(), timeout, req, onResult)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled scan job")

	return entryID, nil
}

// RunNow runs req once outside the schedule
func (s *Scheduler) RunNow(ctx context.Context, req service.ScanRequest, onResult ResultHandler) {
	s.mu.RLock()
	timeout := s.jobTimeout
	s.mu.RUnlock()

	s.runScan(ctx, timeout, req, onResult)
}

func (s *Scheduler) runScan(ctx context.Context, timeout time.Duration, req service.ScanRequest, onResult ResultHandler) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.scanner.Scan(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled scan failed")
		return
	}
	if onResult != nil {
		onResult(result)
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running scans, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	return nil
}
