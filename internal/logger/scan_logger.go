package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScanLogger provides dedicated logging for scan runs.
type ScanLogger struct {
	*logrus.Entry
}

// NewScanLogger creates a new scan logger.
func NewScanLogger(baseLogger *logrus.Logger) *ScanLogger {
	return &ScanLogger{
		Entry: baseLogger.WithField("component", "scan"),
	}
}

// LogScanStarted logs the parameters a scan runs with.
func (sl *ScanLogger) LogScanStarted(scanID, sourceBook, hedgeBook, strategy string, params map[string]interface{}, wager float64, sports []string) {
	sl.WithFields(logrus.Fields{
		"scan_id":     scanID,
		"source_book": sourceBook,
		"hedge_book":  hedgeBook,
		"strategy":    strategy,
		"params":      params,
		"wager":       wager,
		"sports":      sports,
	}).Info("Scan started")
}

// LogScanCompleted logs the outcome of a scan.
func (sl *ScanLogger) LogScanCompleted(scanID string, games, pairs, opportunities, pairErrors, sportErrors int, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"scan_id":       scanID,
		"games":         games,
		"pairs":         pairs,
		"opportunities": opportunities,
		"pair_errors":   pairErrors,
		"sport_errors":  sportErrors,
		"duration_ms":   float64(duration.Microseconds()) / 1000,
	}).Info("Scan completed")
}

// LogSportFetchFailed logs a sport whose odds could not be fetched.
func (sl *ScanLogger) LogSportFetchFailed(scanID, sport, source string, err error) {
	sl.WithFields(logrus.Fields{
		"scan_id": scanID,
		"sport":   sport,
		"source":  source,
	}).WithError(err).Warn("Sport fetch failed, continuing with remaining sports")
}

// LogPairFailed logs a matched pair the calculator rejected.
func (sl *ScanLogger) LogPairFailed(scanID, gameID, outcome string, err error) {
	sl.WithFields(logrus.Fields{
		"scan_id": scanID,
		"game_id": gameID,
		"outcome": outcome,
	}).WithError(err).Warn("Pair computation failed")
}

// LogGameSkipped logs a game that produced no pairs.
func (sl *ScanLogger) LogGameSkipped(scanID, gameID, reason string) {
	sl.WithFields(logrus.Fields{
		"scan_id": scanID,
		"game_id": gameID,
		"reason":  reason,
	}).Debug("Game skipped")
}
