package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, handler http.Handler) (*APIFootballClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewAPIFootballClient(&config.ProviderConfig{
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		Season:            2025,
		Leagues:           []int{39},
		RequestsPerMinute: 6000,
		TimeoutSeconds:    5,
		RetryAttempts:     0,
		StatsCacheTTL:     10,
	}, testLogger())
	t.Cleanup(func() { _ = client.Close() })

	return client, srv
}

func TestSeasonForDate(t *testing.T) {
	assert.Equal(t, 2025, SeasonForDate(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, SeasonForDate(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, SeasonForDate(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, SeasonForDate(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseRoundNumber(t *testing.T) {
	assert.Equal(t, 12, parseRoundNumber("Regular Season - 12"))
	assert.Equal(t, 1, parseRoundNumber("Regular Season - 1"))
	assert.Equal(t, 0, parseRoundNumber("Quarter-finals"))
	assert.Equal(t, 0, parseRoundNumber(""))
}

func TestFetchFixtures(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "2025-08-30", r.URL.Query().Get("date"))
		assert.Equal(t, "39", r.URL.Query().Get("league"))
		assert.Equal(t, "2025", r.URL.Query().Get("season"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"errors": [],
			"results": 1,
			"response": [{
				"fixture": {"id": 1001, "date": "2025-08-30T15:00:00+00:00", "status": {"short": "NS"}},
				"league": {"id": 39, "name": "Premier League", "season": 2025, "round": "Regular Season - 3"},
				"teams": {"home": {"id": 42, "name": "Arsenal"}, "away": {"id": 49, "name": "Chelsea"}},
				"goals": {"home": null, "away": null}
			}]
		}`))
	}))

	fixtures, err := client.FetchFixtures(context.Background(),
		time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC), 39)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)

	f := fixtures[0]
	assert.Equal(t, int64(1001), f.ID)
	assert.Equal(t, "Arsenal", f.HomeTeam)
	assert.Equal(t, "Chelsea", f.AwayTeam)
	assert.Equal(t, "Premier League", f.LeagueName)
	assert.Equal(t, "Regular Season - 3", f.Round)
	assert.Equal(t, 2025, f.Season)
}

func TestFetchTeamStatistics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/statistics", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"errors": [],
			"response": {
				"fixtures": {"played": {"total": 10}},
				"goals": {
					"for": {"total": {"total": 20}},
					"against": {"total": {"total": 10}}
				}
			}
		}`))
	}))

	stats, err := client.FetchTeamStatistics(context.Background(), 42, 39, 2025)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, 1.0, stats.GoalsAgainstAvg, 1e-9)
	assert.InDelta(t, 0.95, stats.OverRate, 1e-9) // 3.0/3.0 capped at 0.95
	assert.Equal(t, 10, stats.GamesPlayed)
	assert.True(t, stats.HasSeasonData())
}

func TestFetchTeamStatisticsNoGames(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors": [], "response": {"fixtures": {"played": {"total": 0}}, "goals": {}}}`))
	}))

	stats, err := client.FetchTeamStatistics(context.Background(), 42, 39, 2025)
	require.NoError(t, err)
	assert.False(t, stats.HasSeasonData())
}

func TestFetchOverOddsPicksBestPrice(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/odds", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"errors": [],
			"response": [{
				"bookmakers": [
					{"name": "BookA", "bets": [{"id": 5, "name": "Goals Over/Under", "values": [
						{"value": "Over 1.5", "odd": "1.36"},
						{"value": "Under 1.5", "odd": "3.10"}
					]}]},
					{"name": "BookB", "bets": [{"id": 5, "name": "Goals Over/Under", "values": [
						{"value": "Over 1.5", "odd": "1.40"},
						{"value": "Over 2.5", "odd": "2.00"}
					]}]}
				]
			}]
		}`))
	}))

	odds, err := client.FetchOverOdds(context.Background(), 1001)
	require.NoError(t, err)
	require.NotNil(t, odds)
	assert.InDelta(t, 1.40, *odds, 1e-9)
}

func TestFetchOverOddsMissingMarket(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors": [], "response": []}`))
	}))

	odds, err := client.FetchOverOdds(context.Background(), 1001)
	require.NoError(t, err)
	assert.Nil(t, odds)
}

func TestFetchResultStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		home    string
		away    string
		wantErr error
	}{
		{"finished", "FT", "2", "1", nil},
		{"in play", "1H", "1", "0", ErrFixtureNotFinished},
		{"not started", "NS", "null", "null", ErrFixtureNotFinished},
		{"postponed", "PST", "null", "null", ErrFixtureCancelled},
		{"abandoned", "ABD", "1", "0", ErrFixtureCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"errors": [],
					"response": [{
						"fixture": {"id": 1001, "date": "2025-08-30T15:00:00+00:00", "status": {"short": "` + tt.status + `"}},
						"league": {"id": 39, "name": "Premier League", "season": 2025, "round": "Regular Season - 3"},
						"teams": {"home": {"id": 42, "name": "Arsenal"}, "away": {"id": 49, "name": "Chelsea"}},
						"goals": {"home": ` + tt.home + `, "away": ` + tt.away + `}
					}]
				}`))
			}))

			score, err := client.FetchResult(context.Background(), 1001)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, score.HomeGoals)
			assert.Equal(t, 1, score.AwayGoals)
		})
	}
}

func TestAPIErrorPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors": {"token": "Error/Missing application key"}, "response": []}`))
	}))

	_, err := client.FetchFixtures(context.Background(), time.Now(), 39)
	require.Error(t, err)

	var provErr ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ErrCodeInvalidData, provErr.Code)
}

func TestAuthenticationFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.FetchFixtures(context.Background(), time.Now(), 39)
	require.Error(t, err)

	var provErr ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, provErr.Code)
}

// stubProvider counts calls so collector caching is observable.
type stubProvider struct {
	statsCalls     int
	standingsCalls int
	h2h            []int
	odds           *float64
}

var _ Provider = (*stubProvider)(nil)

func (s *stubProvider) FetchFixtures(ctx context.Context, date time.Time, leagueID int) ([]Fixture, error) {
	return nil, nil
}

func (s *stubProvider) FetchTeamStatistics(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error) {
	s.statsCalls++
	return &models.TeamStats{
		GoalsForAvg:     1.8,
		GoalsAgainstAvg: 1.1,
		OverRate:        0.80,
		RecentOverRate:  0.80,
		RecentGoalsAvg:  1.8,
		GamesPlayed:     12,
	}, nil
}

func (s *stubProvider) FetchHeadToHead(ctx context.Context, homeID, awayID, last int) ([]int, error) {
	return s.h2h, nil
}

func (s *stubProvider) FetchOverOdds(ctx context.Context, fixtureID int64) (*float64, error) {
	return s.odds, nil
}

func (s *stubProvider) FetchStandings(ctx context.Context, leagueID, season int) ([]Standing, error) {
	s.standingsCalls++
	return []Standing{
		{TeamID: 42, TeamName: "Arsenal", Rank: 2, Played: 12},
		{TeamID: 49, TeamName: "Chelsea", Rank: 5, Played: 12},
		{TeamID: 50, TeamName: "Manchester City", Rank: 1, Played: 12},
	}, nil
}

func (s *stubProvider) FetchResult(ctx context.Context, fixtureID int64) (*Score, error) {
	return &Score{FixtureID: fixtureID, HomeGoals: 2, AwayGoals: 1, Status: "FT"}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func testFixture(id int64) Fixture {
	return Fixture{
		ID:         id,
		LeagueID:   39,
		LeagueName: "Premier League",
		Season:     2025,
		Round:      "Regular Season - 12",
		Kickoff:    time.Date(2025, time.November, 22, 15, 0, 0, 0, time.UTC),
		HomeTeamID: 42,
		HomeTeam:   "Arsenal",
		AwayTeamID: 49,
		AwayTeam:   "Chelsea",
		Status:     "NS",
	}
}

func TestCollectorBuildContext(t *testing.T) {
	odds := 1.45
	provider := &stubProvider{h2h: []int{3, 2, 1, 4}, odds: &odds}
	collector := NewCollector(provider, &config.ProviderConfig{StatsCacheTTL: 10}, testLogger())

	mc, err := collector.BuildContext(context.Background(), testFixture(1001))
	require.NoError(t, err)

	assert.Equal(t, int64(1001), mc.FixtureID)
	assert.Equal(t, 12, mc.Round)
	assert.Equal(t, 4, mc.TotalRounds) // 2*(3-1) for the three-team stub table
	assert.Equal(t, 2, mc.HomePos)
	assert.Equal(t, 5, mc.AwayPos)
	assert.Equal(t, 3, mc.TableSize)
	assert.Equal(t, []int{3, 2, 1, 4}, mc.H2HGoals)
	assert.True(t, mc.HasOdds())
	assert.True(t, mc.Home.HasSeasonData())
	assert.Equal(t, models.ImportanceNormal, mc.Importance)
}

func TestCollectorCachesStatsAndStandings(t *testing.T) {
	provider := &stubProvider{}
	collector := NewCollector(provider, &config.ProviderConfig{StatsCacheTTL: 10}, testLogger())

	ctx := context.Background()
	_, err := collector.BuildContext(ctx, testFixture(1))
	require.NoError(t, err)
	_, err = collector.BuildContext(ctx, testFixture(2))
	require.NoError(t, err)

	// Two teams fetched once each, one standings fetch for the league
	assert.Equal(t, 2, provider.statsCalls)
	assert.Equal(t, 1, provider.standingsCalls)
}
