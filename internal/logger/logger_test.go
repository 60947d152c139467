package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("debug", "development", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = New("nonsense", "production", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestScanLoggerStarted(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanStarted("scan-1", "fanduel", "", "profit_boost",
		map[string]interface{}{"boost_percent": 50.0}, 50, []string{"basketball_nba"})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scan", logEntry["component"])
	assert.Equal(t, "fanduel", logEntry["source_book"])
	assert.Equal(t, "profit_boost", logEntry["strategy"])
}

func TestScanLoggerCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanCompleted("scan-1", 12, 20, 7, 1, 0, 1500*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(7), logEntry["opportunities"])
	assert.Equal(t, float64(1500), logEntry["duration_ms"])
}

func TestScanLoggerSportFetchFailed(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogSportFetchFailed("scan-1", "icehockey_nhl", "the_odds_api", errors.New("boom"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "boom", logEntry["error"])
	assert.Equal(t, "icehockey_nhl", logEntry["sport"])
}

func TestProviderLoggerQuota(t *testing.T) {
	log, buf := setupTestLogger()
	providerLogger := NewProviderLogger(log, "the_odds_api")

	providerLogger.LogQuota(10, 490)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "odds_provider", logEntry["component"])
	assert.Equal(t, "the_odds_api", logEntry["provider"])
	assert.Equal(t, "warning", logEntry["level"])
}
