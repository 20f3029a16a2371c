package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Xavi146570/football-value-detector/internal/datasource"
	"github.com/Xavi146570/football-value-detector/internal/models"
	"github.com/Xavi146570/football-value-detector/internal/repository"
)

func acceptedPick(fixtureID int64, stake, odds float64) *models.Opportunity {
	return &models.Opportunity{
		ID:               uuid.New(),
		FixtureID:        fixtureID,
		HomeTeam:         "Arsenal",
		AwayTeam:         "Chelsea",
		League:           "Premier League",
		Kickoff:          time.Now().UTC().Add(-4 * time.Hour),
		Odds:             odds,
		RecommendedStake: stake,
		Accepted:         true,
		AnalyzedAt:       time.Now().UTC(),
	}
}

func newReconciliationService(t *testing.T, source ResultSource,
	oppRepo *MockOpportunityRepository, resultRepo *MockResultRepository) *ReconciliationService {
	t.Helper()
	repos := &repository.Repositories{Opportunity: oppRepo, Result: resultRepo}
	return NewReconciliationService(testConfig(), source, repos, quietLogger())
}

func TestReconciliationSettlesOutcomes(t *testing.T) {
	hit := acceptedPick(1, 0.05, 1.50)
	miss := acceptedPick(2, 0.04, 1.80)
	pending := acceptedPick(3, 0.03, 1.40)
	cancelled := acceptedPick(4, 0.02, 1.60)

	oppRepo := &MockOpportunityRepository{}
	oppRepo.On("GetUnsettled", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*models.Opportunity{hit, miss, pending, cancelled}, nil)

	source := &MockResultSource{}
	source.On("FetchResult", mock.Anything, int64(1)).
		Return(&datasource.Score{FixtureID: 1, HomeGoals: 2, AwayGoals: 1, Status: "FT"}, nil)
	source.On("FetchResult", mock.Anything, int64(2)).
		Return(&datasource.Score{FixtureID: 2, HomeGoals: 1, AwayGoals: 0, Status: "FT"}, nil)
	source.On("FetchResult", mock.Anything, int64(3)).
		Return(nil, datasource.ErrFixtureNotFinished)
	source.On("FetchResult", mock.Anything, int64(4)).
		Return(nil, datasource.ErrFixtureCancelled)

	resultRepo := &MockResultRepository{}
	resultRepo.On("Settle", mock.Anything, mock.AnythingOfType("*models.FixtureResult")).Return(nil)
	resultRepo.On("Cancel", mock.Anything, int64(4)).Return(nil)
	resultRepo.On("GetPerformance", mock.Anything, 30).Return(&models.PerformanceStats{
		PeriodDays:  30,
		TotalBets:   2,
		WonBets:     1,
		LostBets:    1,
		TotalStaked: decimal.NewFromFloat(0.09),
		ProfitLoss:  decimal.NewFromFloat(-0.015),
	}, nil)

	svc := newReconciliationService(t, source, oppRepo, resultRepo)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, 2, report.Settled)
	assert.Equal(t, 1, report.Hits)
	assert.Equal(t, 1, report.Misses)
	assert.Equal(t, 1, report.Pending)
	assert.Equal(t, 1, report.Cancelled)

	// The hit books stake*(odds-1), the miss books -stake
	var settledResults []*models.FixtureResult
	for _, call := range resultRepo.Calls {
		if call.Method == "Settle" {
			settledResults = append(settledResults, call.Arguments.Get(1).(*models.FixtureResult))
		}
	}
	require.Len(t, settledResults, 2)
	for _, r := range settledResults {
		require.NotNil(t, r.OverHit)
		require.NotNil(t, r.ProfitLoss)
		switch r.FixtureID {
		case 1:
			assert.True(t, *r.OverHit)
			assert.InDelta(t, 0.05*0.50, *r.ProfitLoss, 1e-9)
		case 2:
			assert.False(t, *r.OverHit)
			assert.InDelta(t, -0.04, *r.ProfitLoss, 1e-9)
		}
	}

	resultRepo.AssertExpectations(t)
	source.AssertExpectations(t)
}

func TestReconciliationExactlyTwoGoalsIsOver(t *testing.T) {
	pick := acceptedPick(10, 0.05, 1.50)

	oppRepo := &MockOpportunityRepository{}
	oppRepo.On("GetUnsettled", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*models.Opportunity{pick}, nil)

	source := &MockResultSource{}
	source.On("FetchResult", mock.Anything, int64(10)).
		Return(&datasource.Score{FixtureID: 10, HomeGoals: 1, AwayGoals: 1, Status: "FT"}, nil)

	resultRepo := &MockResultRepository{}
	resultRepo.On("Settle", mock.Anything, mock.MatchedBy(func(r *models.FixtureResult) bool {
		return r.OverHit != nil && *r.OverHit
	})).Return(nil)
	resultRepo.On("GetPerformance", mock.Anything, 30).Return(&models.PerformanceStats{}, nil)

	svc := newReconciliationService(t, source, oppRepo, resultRepo)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Hits)
	resultRepo.AssertExpectations(t)
}

func TestReconciliationIsolatesLookupFailures(t *testing.T) {
	good := acceptedPick(1, 0.05, 1.50)
	bad := acceptedPick(2, 0.05, 1.50)

	oppRepo := &MockOpportunityRepository{}
	oppRepo.On("GetUnsettled", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*models.Opportunity{bad, good}, nil)

	source := &MockResultSource{}
	source.On("FetchResult", mock.Anything, int64(2)).Return(nil, assert.AnError)
	source.On("FetchResult", mock.Anything, int64(1)).
		Return(&datasource.Score{FixtureID: 1, HomeGoals: 3, AwayGoals: 0, Status: "FT"}, nil)

	resultRepo := &MockResultRepository{}
	resultRepo.On("Settle", mock.Anything, mock.AnythingOfType("*models.FixtureResult")).Return(nil)
	resultRepo.On("GetPerformance", mock.Anything, 30).Return(&models.PerformanceStats{}, nil)

	svc := newReconciliationService(t, source, oppRepo, resultRepo)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	// The failed lookup is logged and skipped; the good one still settles
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Settled)
}

func TestReconciliationNothingToDo(t *testing.T) {
	oppRepo := &MockOpportunityRepository{}
	oppRepo.On("GetUnsettled", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*models.Opportunity{}, nil)

	resultRepo := &MockResultRepository{}
	resultRepo.On("GetPerformance", mock.Anything, 30).Return(&models.PerformanceStats{}, nil)

	svc := newReconciliationService(t, &MockResultSource{}, oppRepo, resultRepo)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Checked)
	assert.Zero(t, report.Settled)
}
