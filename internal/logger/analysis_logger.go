// Package logger provides analysis-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for the daily analysis runs.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogBatchCompleted logs a completed batch evaluation.
func (al *AnalysisLogger) LogBatchCompleted(league string, fixturesEvaluated, opportunitiesFound, skipped int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"league":              league,
		"fixtures_evaluated":  fixturesEvaluated,
		"opportunities_found": opportunitiesFound,
		"fixtures_skipped":    skipped,
		"batch_duration_ms":   durationMs,
	}).Info("Batch evaluation completed")
}

// LogOpportunity logs an accepted value opportunity.
func (al *AnalysisLogger) LogOpportunity(fixtureID int64, homeTeam, awayTeam string, probability, ev, stake float64, quality, risk string) {
	al.WithFields(logrus.Fields{
		"fixture_id":     fixtureID,
		"home_team":      homeTeam,
		"away_team":      awayTeam,
		"probability":    probability,
		"expected_value": ev,
		"stake_fraction": stake,
		"quality":        quality,
		"risk":           risk,
	}).Info("Value opportunity detected")
}

// LogSkippedFixture logs a fixture that could not be evaluated.
func (al *AnalysisLogger) LogSkippedFixture(fixtureID int64, reason string) {
	al.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"reason":     reason,
	}).Debug("Fixture skipped")
}

// LogReconciliation logs a result reconciliation pass.
func (al *AnalysisLogger) LogReconciliation(settled, hits, misses int) {
	al.WithFields(logrus.Fields{
		"settled": settled,
		"hits":    hits,
		"misses":  misses,
	}).Info("Result reconciliation completed")
}
