package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/promo-hedge/internal/config"
	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/service"
)

// writeConfig points the file provider at the datasource snapshots
func writeConfig(t *testing.T) string {
	t.Helper()

	snapshots, err := filepath.Abs(filepath.Join("..", "..", "internal", "datasource", "testdata"))
	require.NoError(t, err)

	yaml := `app:
  name: promo-hedge
  environment: development
  log_level: error
odds_api:
  provider: file
  snapshot_dir: ` + snapshots + `
scan:
  source_book: fanduel
  strategy: profit_boost
  boost_percent: 50
  wager: 50
  sports: [basketball_nba]
cache:
  enabled: false
metrics:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScanPrintsBuckets(t *testing.T) {
	out, err := run(t, "scan", "--hedge", "DraftKings")
	require.NoError(t, err)

	assert.Contains(t, out, "FanDuel → DraftKings")
	assert.Contains(t, out, "Boston Celtics")
	assert.NotContains(t, out, "No opportunities found")
}

func TestScanJSON(t *testing.T) {
	out, err := run(t, "scan", "--hedge", "draftkings", "--json", "--top", "1")
	require.NoError(t, err)

	var doc struct {
		Request struct {
			SourceBook string `json:"source_book"`
			HedgeBook  string `json:"hedge_book"`
		} `json:"request"`
		Opportunities []struct {
			Profit float64 `json:"profit"`
			Outlay float64 `json:"outlay"`
			Hedge  struct {
				Book string `json:"book"`
			} `json:"hedge"`
		} `json:"opportunities"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "fanduel", doc.Request.SourceBook)
	assert.Equal(t, "draftkings", doc.Request.HedgeBook)
	require.Len(t, doc.Opportunities, 1)
	assert.Equal(t, "draftkings", doc.Opportunities[0].Hedge.Book)
	assert.Greater(t, doc.Opportunities[0].Profit, 0.0)
	assert.Greater(t, doc.Opportunities[0].Outlay, 50.0)
}

func TestScanNoOpportunities(t *testing.T) {
	out, err := run(t, "scan", "--hedge", "draftkings", "--min-profit", "10000")
	require.NoError(t, err)
	assert.Contains(t, out, "No opportunities found")
}

func TestScanInvalidInputExitCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative wager", []string{"scan", "--wager", "-5"}},
		{"unknown book", []string{"scan", "--source", "Acme Sports"}},
		{"unknown strategy", []string{"scan", "--strategy", "parlay"}},
		{"refund out of range", []string{"scan", "--strategy", "no_sweat", "--refund", "1.5"}},
		{"hedge equals source", []string{"scan", "--hedge", "fanduel"}},
		{"negative boost", []string{"scan", "--boost", "-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitInvalid, exitCode(err))
		})
	}
}

func TestScanAllSportsFailed(t *testing.T) {
	_, err := run(t, "scan", "--sport", "cricket_ipl")
	require.Error(t, err)
	assert.Equal(t, exitError, exitCode(err))
}

func TestBooksCommand(t *testing.T) {
	out, err := run(t, "books")
	require.NoError(t, err)
	assert.Contains(t, out, "draftkings")
	assert.Contains(t, out, "DraftKings")
	assert.Contains(t, out, "Caesars")
}

type deadlineScanner struct {
	deadline time.Time
}

func (d *deadlineScanner) Scan(ctx context.Context, req service.ScanRequest) (*service.ScanResult, error) {
	d.deadline, _ = ctx.Deadline()
	return &service.ScanResult{ID: uuid.New(), Request: req}, nil
}

func TestWatchSchedulerUsesJobTimeout(t *testing.T) {
	cfg = &config.Config{Schedule: config.ScheduleConfig{JobTimeoutSeconds: 7}}
	appLog = logger.Discard()

	scanner := &deadlineScanner{}
	req := service.ScanRequest{
		SourceBook: "fanduel",
		Strategy:   models.StrategyBonusBet,
		Wager:      50,
		Sports:     []string{"basketball_nba"},
	}

	start := time.Now()
	newScheduler(scanner).RunNow(context.Background(), req, func(*service.ScanResult) {})
	assert.WithinDuration(t, start.Add(7*time.Second), scanner.deadline, time.Second)
}
