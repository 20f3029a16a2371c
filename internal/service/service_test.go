package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/datasource"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// Shared mocks and fixtures for the service tests.

func testConfig() *config.Config {
	return &config.Config{
		Provider: config.ProviderConfig{
			Leagues: []int{39},
		},
		Engine: config.EngineConfig{
			Weights: config.WeightsConfig{
				Poisson:           0.25,
				HistoricalRate:    0.15,
				RecentTrend:       0.10,
				HeadToHead:        0.12,
				OffensiveStrength: 0.10,
				OffensiveTrend:    0.08,
				SeasonPhase:       0.08,
				Motivation:        0.07,
				MatchImportance:   0.05,
			},
			BaselineOverRate: 0.72,
			LeagueAvgLambda:  2.7,
			FallbackPenalty:  0.08,
			MinProbability:   0.65,
			MinConfidence:    0.60,
			MinExpectedValue: 0.05,
			MinOdds:          1.10,
			MaxOdds:          2.50,
			KellyMultiplier:  0.25,
			MaxStakeFraction: 0.10,
			MaxConcurrency:   4,
		},
		Analysis: config.AnalysisConfig{
			DaysAhead:          1,
			RetentionDays:      30,
			ReconcileAfterHour: 3,
		},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func oddsPtr(v float64) *float64 { return &v }

// pricedContext is a context strong enough for the engine to accept.
func pricedContext(fixtureID int64) models.MatchContext {
	return models.MatchContext{
		FixtureID: fixtureID,
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		League:    "Premier League",
		Kickoff:   time.Now().UTC().Add(24 * time.Hour),
		Home: models.TeamStats{
			GoalsForAvg:     1.9,
			GoalsAgainstAvg: 1.1,
			OverRate:        0.78,
			RecentOverRate:  0.80,
			RecentGoalsAvg:  2.0,
			GamesPlayed:     24,
		},
		Away: models.TeamStats{
			GoalsForAvg:     1.6,
			GoalsAgainstAvg: 1.3,
			OverRate:        0.74,
			RecentOverRate:  0.60,
			RecentGoalsAvg:  1.5,
			GamesPlayed:     24,
		},
		H2HGoals:    []int{3, 2, 1, 4, 2},
		Round:       26,
		TotalRounds: 38,
		HomePos:     2,
		AwayPos:     5,
		TableSize:   20,
		Importance:  models.ImportanceDerby,
		OverOdds:    oddsPtr(1.45),
	}
}

// MockOpportunityRepository mocks the opportunity store
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) Upsert(ctx context.Context, opp *models.Opportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) UpsertBatch(ctx context.Context, opps []*models.Opportunity) error {
	args := m.Called(ctx, opps)
	return args.Error(0)
}

func (m *MockOpportunityRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Opportunity, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) GetToday(ctx context.Context, acceptedOnly bool) ([]*models.Opportunity, error) {
	args := m.Called(ctx, acceptedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Opportunity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) GetUnsettled(ctx context.Context, before time.Time) ([]*models.Opportunity, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockResultRepository mocks the fixture result store
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Settle(ctx context.Context, result *models.FixtureResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) Cancel(ctx context.Context, fixtureID int64) error {
	args := m.Called(ctx, fixtureID)
	return args.Error(0)
}

func (m *MockResultRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.FixtureResult, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FixtureResult), args.Error(1)
}

func (m *MockResultRepository) GetPerformance(ctx context.Context, periodDays int) (*models.PerformanceStats, error) {
	args := m.Called(ctx, periodDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PerformanceStats), args.Error(1)
}

// MockFixtureSource mocks the provider fixture listing
type MockFixtureSource struct {
	mock.Mock
}

func (m *MockFixtureSource) FetchFixtures(ctx context.Context, date time.Time, leagueID int) ([]datasource.Fixture, error) {
	args := m.Called(ctx, date, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datasource.Fixture), args.Error(1)
}

// MockResultSource mocks the provider score lookup
type MockResultSource struct {
	mock.Mock
}

func (m *MockResultSource) FetchResult(ctx context.Context, fixtureID int64) (*datasource.Score, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datasource.Score), args.Error(1)
}

// stubBuilder returns canned contexts without touching the provider.
type stubBuilder struct {
	contexts []models.MatchContext
}

func (b *stubBuilder) BuildContexts(ctx context.Context, fixtures []datasource.Fixture) []models.MatchContext {
	return b.contexts
}

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	opportunities []*models.Opportunity
	summarySent   bool
	summaryTotal  int
}

func (n *recordingNotifier) NotifyOpportunity(ctx context.Context, opp *models.Opportunity) error {
	n.opportunities = append(n.opportunities, opp)
	return nil
}

func (n *recordingNotifier) NotifyDailySummary(ctx context.Context, opps []*models.Opportunity, total int) error {
	n.summarySent = true
	n.summaryTotal = total
	return nil
}

// recordingPublisher captures published opportunities.
type recordingPublisher struct {
	published []*models.Opportunity
}

func (p *recordingPublisher) PublishOpportunity(ctx context.Context, opp *models.Opportunity) error {
	p.published = append(p.published, opp)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
