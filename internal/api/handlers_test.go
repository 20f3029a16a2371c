package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/models"
	"github.com/Xavi146570/football-value-detector/internal/repository"
)

// stubOpportunityRepo serves canned opportunities.
type stubOpportunityRepo struct {
	today    []*models.Opportunity
	upcoming []*models.Opportunity
	byID     map[int64]*models.Opportunity
}

func (s *stubOpportunityRepo) Upsert(ctx context.Context, opp *models.Opportunity) error { return nil }
func (s *stubOpportunityRepo) UpsertBatch(ctx context.Context, opps []*models.Opportunity) error {
	return nil
}

func (s *stubOpportunityRepo) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Opportunity, error) {
	if opp, ok := s.byID[fixtureID]; ok {
		return opp, nil
	}
	return nil, models.ErrNotFound
}

func (s *stubOpportunityRepo) GetToday(ctx context.Context, acceptedOnly bool) ([]*models.Opportunity, error) {
	if acceptedOnly {
		var accepted []*models.Opportunity
		for _, opp := range s.today {
			if opp.Accepted {
				accepted = append(accepted, opp)
			}
		}
		return accepted, nil
	}
	return s.today, nil
}

func (s *stubOpportunityRepo) GetUpcoming(ctx context.Context, limit int) ([]*models.Opportunity, error) {
	if limit < len(s.upcoming) {
		return s.upcoming[:limit], nil
	}
	return s.upcoming, nil
}

func (s *stubOpportunityRepo) GetUnsettled(ctx context.Context, before time.Time) ([]*models.Opportunity, error) {
	return nil, nil
}

func (s *stubOpportunityRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// stubResultRepo serves canned performance stats.
type stubResultRepo struct {
	stats *models.PerformanceStats
}

func (s *stubResultRepo) Settle(ctx context.Context, result *models.FixtureResult) error { return nil }
func (s *stubResultRepo) Cancel(ctx context.Context, fixtureID int64) error              { return nil }
func (s *stubResultRepo) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.FixtureResult, error) {
	return nil, models.ErrNotFound
}

func (s *stubResultRepo) GetPerformance(ctx context.Context, periodDays int) (*models.PerformanceStats, error) {
	stats := *s.stats
	stats.PeriodDays = periodDays
	return &stats, nil
}

func sampleOpp(fixtureID int64, accepted bool) *models.Opportunity {
	return &models.Opportunity{
		ID:               uuid.New(),
		FixtureID:        fixtureID,
		HomeTeam:         "Arsenal",
		AwayTeam:         "Chelsea",
		League:           "Premier League",
		Kickoff:          time.Now().UTC().Add(3 * time.Hour),
		OurProbability:   0.77,
		Odds:             1.45,
		ExpectedValue:    0.12,
		Confidence:       0.92,
		RecommendedStake: 0.065,
		Quality:          models.QualityGood,
		Risk:             models.RiskLow,
		Accepted:         accepted,
		AnalyzedAt:       time.Now().UTC(),
	}
}

func testServer(t *testing.T, oppRepo *stubOpportunityRepo, resultRepo *stubResultRepo) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repos := &repository.Repositories{Opportunity: oppRepo, Result: resultRepo}
	router := NewRouter(&config.APIConfig{Port: 8080, UpcomingDays: 3}, NewHandler(repos, logger), nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealthCheck(t *testing.T) {
	srv := testServer(t, &stubOpportunityRepo{}, &stubResultRepo{stats: &models.PerformanceStats{}})

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestTodayOpportunities(t *testing.T) {
	oppRepo := &stubOpportunityRepo{
		today: []*models.Opportunity{sampleOpp(1, true), sampleOpp(2, false)},
	}
	srv := testServer(t, oppRepo, &stubResultRepo{stats: &models.PerformanceStats{}})

	var body struct {
		Count         int                   `json:"count"`
		Opportunities []*models.Opportunity `json:"opportunities"`
	}

	status := getJSON(t, srv.URL+"/api/v1/opportunities/today", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, body.Count)

	status = getJSON(t, srv.URL+"/api/v1/opportunities/today?accepted=true", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, int64(1), body.Opportunities[0].FixtureID)
}

func TestUpcomingOpportunitiesLimit(t *testing.T) {
	oppRepo := &stubOpportunityRepo{
		upcoming: []*models.Opportunity{sampleOpp(1, true), sampleOpp(2, true), sampleOpp(3, true)},
	}
	srv := testServer(t, oppRepo, &stubResultRepo{stats: &models.PerformanceStats{}})

	var body struct {
		Count int `json:"count"`
	}

	status := getJSON(t, srv.URL+"/api/v1/opportunities/upcoming?limit=2", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, body.Count)

	var errBody map[string]string
	status = getJSON(t, srv.URL+"/api/v1/opportunities/upcoming?limit=abc", &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errBody["error"], "limit")
}

func TestOpportunityByFixture(t *testing.T) {
	opp := sampleOpp(42, true)
	oppRepo := &stubOpportunityRepo{byID: map[int64]*models.Opportunity{42: opp}}
	srv := testServer(t, oppRepo, &stubResultRepo{stats: &models.PerformanceStats{}})

	var got models.Opportunity
	status := getJSON(t, srv.URL+"/api/v1/opportunities/fixture/42", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(42), got.FixtureID)

	var errBody map[string]string
	status = getJSON(t, srv.URL+"/api/v1/opportunities/fixture/99", &errBody)
	assert.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, srv.URL+"/api/v1/opportunities/fixture/notanumber", &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPerformanceStats(t *testing.T) {
	resultRepo := &stubResultRepo{stats: &models.PerformanceStats{
		TotalBets: 10,
		WonBets:   8,
		LostBets:  2,
		WinRate:   0.8,
	}}
	srv := testServer(t, &stubOpportunityRepo{}, resultRepo)

	var got models.PerformanceStats
	status := getJSON(t, srv.URL+"/api/v1/stats/performance?days=7", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7, got.PeriodDays)
	assert.Equal(t, int64(10), got.TotalBets)
	assert.InDelta(t, 0.8, got.WinRate, 1e-9)

	var errBody map[string]string
	status = getJSON(t, srv.URL+"/api/v1/stats/performance?days=-1", &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
}
