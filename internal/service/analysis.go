package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/datasource"
	"github.com/Xavi146570/football-value-detector/internal/engine"
	"github.com/Xavi146570/football-value-detector/internal/logger"
	"github.com/Xavi146570/football-value-detector/internal/metrics"
	"github.com/Xavi146570/football-value-detector/internal/models"
	"github.com/Xavi146570/football-value-detector/internal/notify"
	"github.com/Xavi146570/football-value-detector/internal/publish"
	"github.com/Xavi146570/football-value-detector/internal/repository"
)

// FixtureSource lists the fixtures to analyze. Satisfied by the provider
// client; narrowed so tests can stub it.
type FixtureSource interface {
	FetchFixtures(ctx context.Context, date time.Time, leagueID int) ([]datasource.Fixture, error)
}

// ContextBuilder assembles engine inputs for fixtures. Satisfied by
// datasource.Collector.
type ContextBuilder interface {
	BuildContexts(ctx context.Context, fixtures []datasource.Fixture) []models.MatchContext
}

// AnalysisReport summarizes one analysis run.
type AnalysisReport struct {
	FixturesFound    int
	FixturesAnalyzed int
	Accepted         []*models.Opportunity
	Skipped          []engine.SkippedFixture
	Duration         time.Duration
}

// AnalysisService runs the daily evaluation workflow: fetch fixtures, build
// contexts, evaluate, persist, alert. Runs are idempotent; re-analyzing a
// fixture replaces its stored opportunity.
type AnalysisService struct {
	cfg       *config.Config
	source    FixtureSource
	builder   ContextBuilder
	engine    *engine.Engine
	repos     *repository.Repositories
	notifier  notify.Notifier
	publisher publish.Publisher
	log       *logger.AnalysisLogger
}

// NewAnalysisService creates the analysis workflow service.
func NewAnalysisService(
	cfg *config.Config,
	source FixtureSource,
	builder ContextBuilder,
	eng *engine.Engine,
	repos *repository.Repositories,
	notifier notify.Notifier,
	publisher publish.Publisher,
	baseLogger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		cfg:       cfg,
		source:    source,
		builder:   builder,
		engine:    eng,
		repos:     repos,
		notifier:  notifier,
		publisher: publisher,
		log:       logger.NewAnalysisLogger(baseLogger),
	}
}

// Run analyzes all configured leagues over the configured day window.
func (s *AnalysisService) Run(ctx context.Context) (*AnalysisReport, error) {
	started := time.Now()
	report := &AnalysisReport{}

	for offset := 0; offset < s.cfg.Analysis.DaysAhead; offset++ {
		date := started.UTC().AddDate(0, 0, offset)
		for _, leagueID := range s.cfg.Provider.Leagues {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if err := s.runLeague(ctx, date, leagueID, report); err != nil {
				// One failing league never aborts the run
				s.log.WithError(err).WithFields(logrus.Fields{
					"league_id": leagueID,
					"date":      date.Format("2006-01-02"),
				}).Error("League analysis failed")
			}
		}
	}

	report.Duration = time.Since(started)
	engine.RankOpportunities(report.Accepted)

	metrics.RecordAnalysisRun(len(report.Accepted), report.Duration.Seconds(), float64(time.Now().Unix()))

	if err := s.notifier.NotifyDailySummary(ctx, report.Accepted, report.FixturesAnalyzed); err != nil {
		s.log.WithError(err).Warn("Daily summary notification failed")
	}

	return report, nil
}

func (s *AnalysisService) runLeague(ctx context.Context, date time.Time, leagueID int, report *AnalysisReport) error {
	batchStart := time.Now()

	fixtures, err := s.source.FetchFixtures(ctx, date, leagueID)
	if err != nil {
		return fmt.Errorf("fetch fixtures: %w", err)
	}

	// Only fixtures that have not kicked off are worth analyzing.
	upcoming := fixtures[:0]
	for _, f := range fixtures {
		if f.Status == "NS" || f.Status == "TBD" {
			upcoming = append(upcoming, f)
		}
	}
	report.FixturesFound += len(upcoming)
	if len(upcoming) == 0 {
		return nil
	}

	contexts := s.builder.BuildContexts(ctx, upcoming)
	report.FixturesAnalyzed += len(contexts)

	evalStart := time.Now()
	result := s.engine.EvaluateBatch(ctx, contexts)
	evalSeconds := time.Since(evalStart).Seconds()

	for _, skipped := range result.Skipped {
		metrics.RecordFixtureSkipped("evaluation_failed")
		s.log.LogSkippedFixture(skipped.FixtureID, skipped.Reason)
	}
	report.Skipped = append(report.Skipped, result.Skipped...)

	// The engine evaluates concurrently, so per-fixture wall time is the
	// batch elapsed spread across the fixtures it processed.
	perFixture := 0.0
	if len(contexts) > 0 {
		perFixture = evalSeconds / float64(len(contexts))
	}
	for range result.Opportunities {
		metrics.RecordFixtureEvaluated(perFixture)
	}

	if err := s.repos.Opportunity.UpsertBatch(ctx, result.Opportunities); err != nil {
		return fmt.Errorf("persist opportunities: %w", err)
	}

	var league string
	if len(upcoming) > 0 {
		league = upcoming[0].LeagueName
	}

	accepted := 0
	for _, opp := range result.Opportunities {
		if !opp.Accepted {
			continue
		}
		accepted++
		report.Accepted = append(report.Accepted, opp)
		metrics.RecordOpportunityAccepted()
		s.log.LogOpportunity(opp.FixtureID, opp.HomeTeam, opp.AwayTeam,
			opp.OurProbability, opp.ExpectedValue, opp.RecommendedStake,
			opp.Quality.String(), opp.Risk.String())

		if err := s.notifier.NotifyOpportunity(ctx, opp); err != nil {
			s.log.WithError(err).WithField("fixture_id", opp.FixtureID).Warn("Opportunity notification failed")
		}
		if err := s.publisher.PublishOpportunity(ctx, opp); err != nil {
			s.log.WithError(err).WithField("fixture_id", opp.FixtureID).Warn("Opportunity publish failed")
		}
	}

	s.log.LogBatchCompleted(league, len(contexts), accepted, len(result.Skipped),
		float64(time.Since(batchStart).Milliseconds()))
	return nil
}

// Cleanup drops rejected opportunities past the retention window.
func (s *AnalysisService) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.Analysis.RetentionDays)
	deleted, err := s.repos.Opportunity.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("Old opportunities removed")
	}
	return deleted, nil
}
