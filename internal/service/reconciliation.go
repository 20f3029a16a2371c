package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/datasource"
	"github.com/Xavi146570/football-value-detector/internal/logger"
	"github.com/Xavi146570/football-value-detector/internal/metrics"
	"github.com/Xavi146570/football-value-detector/internal/models"
	"github.com/Xavi146570/football-value-detector/internal/repository"
)

// ResultSource fetches final scores. Satisfied by the provider client.
type ResultSource interface {
	FetchResult(ctx context.Context, fixtureID int64) (*datasource.Score, error)
}

// ReconciliationReport summarizes one reconciliation pass.
type ReconciliationReport struct {
	Checked   int
	Settled   int
	Hits      int
	Misses    int
	Cancelled int
	Pending   int
}

// ReconciliationService settles stored predictions against final scores and
// books per-pick profit or loss.
type ReconciliationService struct {
	cfg    *config.Config
	source ResultSource
	repos  *repository.Repositories
	log    *logger.AnalysisLogger
}

// NewReconciliationService creates the reconciliation service.
func NewReconciliationService(
	cfg *config.Config,
	source ResultSource,
	repos *repository.Repositories,
	baseLogger *logrus.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		cfg:    cfg,
		source: source,
		repos:  repos,
		log:    logger.NewAnalysisLogger(baseLogger),
	}
}

// Run settles every accepted pick whose fixture should have finished.
func (s *ReconciliationService) Run(ctx context.Context) (*ReconciliationReport, error) {
	// Matches last roughly two hours; only look at kickoffs old enough.
	cutoff := time.Now().UTC().Add(-time.Duration(s.cfg.Analysis.ReconcileAfterHour) * time.Hour)

	unsettled, err := s.repos.Opportunity.GetUnsettled(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("load unsettled picks: %w", err)
	}

	report := &ReconciliationReport{Checked: len(unsettled)}
	for _, opp := range unsettled {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.settleOne(ctx, opp, report); err != nil {
			s.log.WithError(err).WithField("fixture_id", opp.FixtureID).Warn("Settlement failed")
		}
	}

	s.log.LogReconciliation(report.Settled, report.Hits, report.Misses)
	if err := s.updatePerformanceGauges(ctx); err != nil {
		s.log.WithError(err).Warn("Performance gauge update failed")
	}

	return report, nil
}

func (s *ReconciliationService) settleOne(ctx context.Context, opp *models.Opportunity, report *ReconciliationReport) error {
	score, err := s.source.FetchResult(ctx, opp.FixtureID)
	switch {
	case errors.Is(err, datasource.ErrFixtureNotFinished):
		report.Pending++
		return nil
	case errors.Is(err, datasource.ErrFixtureCancelled):
		report.Cancelled++
		return s.repos.Result.Cancel(ctx, opp.FixtureID)
	case err != nil:
		return err
	}

	result := &models.FixtureResult{
		FixtureID: opp.FixtureID,
		HomeGoals: score.HomeGoals,
		AwayGoals: score.AwayGoals,
		Status:    models.ResultStatusSettled,
	}

	overHit := result.IsOver()
	result.OverHit = &overHit

	// Profit and loss per unit bankroll at the recommended stake.
	var pnl float64
	if overHit {
		pnl = opp.RecommendedStake * (opp.Odds - 1)
	} else {
		pnl = -opp.RecommendedStake
	}
	result.ProfitLoss = &pnl

	if err := s.repos.Result.Settle(ctx, result); err != nil {
		return err
	}

	report.Settled++
	if overHit {
		report.Hits++
		metrics.RecordResultSettled("hit")
	} else {
		report.Misses++
		metrics.RecordResultSettled("miss")
	}
	return nil
}

func (s *ReconciliationService) updatePerformanceGauges(ctx context.Context) error {
	stats, err := s.repos.Result.GetPerformance(ctx, 30)
	if err != nil {
		return err
	}
	roi, _ := stats.ROI.Float64()
	metrics.UpdatePerformance(stats.WinRate, roi)
	return nil
}
