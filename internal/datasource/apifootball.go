package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

const (
	providerName = "api-football"

	// Bet market id 5 is Goals Over/Under on API-Football.
	overUnderBetID = 5
	overUnderName  = "Goals Over/Under"
	overLineValue  = "Over 1.5"
)

// Fixture status codes that count as finished or cancelled.
var (
	finishedStatuses  = map[string]bool{"FT": true, "AET": true, "PEN": true}
	cancelledStatuses = map[string]bool{"PST": true, "CANC": true, "ABD": true, "AWD": true, "WO": true}
)

// APIFootballClient implements Provider against the API-Football v3 API.
type APIFootballClient struct {
	baseURL string
	apiKey  string
	http    *RateLimitedHTTPClient
	logger  logrus.FieldLogger
}

// NewAPIFootballClient creates a provider client from configuration.
func NewAPIFootballClient(cfg *config.ProviderConfig, logger logrus.FieldLogger) *APIFootballClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RateLimit = cfg.RequestsPerMinute / 60.0

	return &APIFootballClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    NewRateLimitedHTTPClient(httpCfg, logger),
		logger:  logger,
	}
}

// Name returns the name of the provider
func (c *APIFootballClient) Name() string {
	return providerName
}

// Close releases the underlying HTTP client.
func (c *APIFootballClient) Close() error {
	return c.http.Close()
}

// envelope is the common API-Football response wrapper. The errors field is
// an empty array on success and an object on failure, so it stays raw until
// checked.
type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

func (e *envelope) hasErrors() bool {
	s := string(e.Errors)
	return s != "" && s != "[]" && s != "{}" && s != "null"
}

func (c *APIFootballClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return NewProviderError(providerName, ErrCodeInvalidData, "failed to build request", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return NewProviderError(providerName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewProviderError(providerName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(providerName, ErrCodeRateLimitExceeded, "provider rate limit hit", nil)
	case resp.StatusCode >= 500:
		return NewProviderError(providerName, ErrCodeServerError, fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return NewProviderError(providerName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return NewProviderError(providerName, ErrCodeInvalidData, "failed to decode response", err)
	}
	if env.hasErrors() {
		return NewProviderError(providerName, ErrCodeInvalidData, string(env.Errors), nil)
	}

	if err := json.Unmarshal(env.Response, out); err != nil {
		return NewProviderError(providerName, ErrCodeInvalidData, "failed to decode response payload", err)
	}

	return nil
}

type fixturePayload struct {
	Fixture struct {
		ID     int64     `json:"id"`
		Date   time.Time `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// FetchFixtures retrieves the fixtures of one league on one date (UTC).
func (c *APIFootballClient) FetchFixtures(ctx context.Context, date time.Time, leagueID int) ([]Fixture, error) {
	params := url.Values{}
	params.Set("date", date.UTC().Format("2006-01-02"))
	params.Set("timezone", "UTC")
	params.Set("league", fmt.Sprintf("%d", leagueID))
	params.Set("season", fmt.Sprintf("%d", SeasonForDate(date)))

	var payload []fixturePayload
	if err := c.get(ctx, "fixtures", params, &payload); err != nil {
		return nil, err
	}

	fixtures := make([]Fixture, 0, len(payload))
	for _, p := range payload {
		fixtures = append(fixtures, Fixture{
			ID:         p.Fixture.ID,
			LeagueID:   p.League.ID,
			LeagueName: p.League.Name,
			Season:     p.League.Season,
			Round:      p.League.Round,
			Kickoff:    p.Fixture.Date.UTC(),
			HomeTeamID: p.Teams.Home.ID,
			HomeTeam:   p.Teams.Home.Name,
			AwayTeamID: p.Teams.Away.ID,
			AwayTeam:   p.Teams.Away.Name,
			Status:     p.Fixture.Status.Short,
		})
	}

	return fixtures, nil
}

type teamStatsPayload struct {
	Fixtures struct {
		Played struct {
			Total int `json:"total"`
		} `json:"played"`
	} `json:"fixtures"`
	Goals struct {
		For struct {
			Total struct {
				Total int `json:"total"`
			} `json:"total"`
		} `json:"for"`
		Against struct {
			Total struct {
				Total int `json:"total"`
			} `json:"total"`
		} `json:"against"`
	} `json:"goals"`
}

// FetchTeamStatistics retrieves a team's season aggregates. A team with no
// played games yields zero-value stats, which downstream treats as missing.
func (c *APIFootballClient) FetchTeamStatistics(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error) {
	params := url.Values{}
	params.Set("team", fmt.Sprintf("%d", teamID))
	params.Set("league", fmt.Sprintf("%d", leagueID))
	params.Set("season", fmt.Sprintf("%d", season))

	var payload teamStatsPayload
	if err := c.get(ctx, "teams/statistics", params, &payload); err != nil {
		return nil, err
	}

	played := payload.Fixtures.Played.Total
	if played == 0 {
		return &models.TeamStats{}, nil
	}

	forAvg := float64(payload.Goals.For.Total.Total) / float64(played)
	againstAvg := float64(payload.Goals.Against.Total.Total) / float64(played)
	overRate := minFloat((forAvg+againstAvg)/3.0, 0.95)

	// The statistics endpoint has no per-game recent breakdown, so recent
	// form starts as the season value until enough fixtures accumulate.
	return &models.TeamStats{
		GoalsForAvg:     forAvg,
		GoalsAgainstAvg: againstAvg,
		OverRate:        overRate,
		RecentOverRate:  overRate,
		RecentGoalsAvg:  forAvg,
		GamesPlayed:     played,
	}, nil
}

// FetchHeadToHead retrieves total goals of the last meetings between two
// teams, most recent first. Unfinished meetings are skipped.
func (c *APIFootballClient) FetchHeadToHead(ctx context.Context, homeID, awayID, last int) ([]int, error) {
	params := url.Values{}
	params.Set("h2h", fmt.Sprintf("%d-%d", homeID, awayID))
	params.Set("last", fmt.Sprintf("%d", last))

	var payload []fixturePayload
	if err := c.get(ctx, "fixtures/headtohead", params, &payload); err != nil {
		return nil, err
	}

	var goals []int
	for _, p := range payload {
		if !finishedStatuses[p.Fixture.Status.Short] {
			continue
		}
		if p.Goals.Home == nil || p.Goals.Away == nil {
			continue
		}
		goals = append(goals, *p.Goals.Home+*p.Goals.Away)
	}

	return goals, nil
}

type oddsPayload struct {
	Bookmakers []struct {
		Name string `json:"name"`
		Bets []struct {
			ID     int    `json:"id"`
			Name   string `json:"name"`
			Values []struct {
				Value string `json:"value"`
				Odd   string `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

// FetchOverOdds retrieves the best available Over 1.5 goals price for a
// fixture. Returns nil when no bookmaker has priced the market.
func (c *APIFootballClient) FetchOverOdds(ctx context.Context, fixtureID int64) (*float64, error) {
	params := url.Values{}
	params.Set("fixture", fmt.Sprintf("%d", fixtureID))
	params.Set("bet", fmt.Sprintf("%d", overUnderBetID))

	var payload []oddsPayload
	if err := c.get(ctx, "odds", params, &payload); err != nil {
		return nil, err
	}

	var best *float64
	for _, p := range payload {
		for _, bookmaker := range p.Bookmakers {
			for _, bet := range bookmaker.Bets {
				if bet.Name != overUnderName {
					continue
				}
				for _, v := range bet.Values {
					if v.Value != overLineValue {
						continue
					}
					var odd float64
					if _, err := fmt.Sscanf(v.Odd, "%f", &odd); err != nil || odd <= 1.0 {
						continue
					}
					if best == nil || odd > *best {
						o := odd
						best = &o
					}
				}
			}
		}
	}

	if best == nil {
		c.logger.WithField("fixture_id", fixtureID).Debug("No Over 1.5 odds available")
	}
	return best, nil
}

type standingsPayload struct {
	League struct {
		Standings [][]struct {
			Rank int `json:"rank"`
			Team struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"team"`
			All struct {
				Played int `json:"played"`
			} `json:"all"`
		} `json:"standings"`
	} `json:"league"`
}

// FetchStandings retrieves the current league table.
func (c *APIFootballClient) FetchStandings(ctx context.Context, leagueID, season int) ([]Standing, error) {
	params := url.Values{}
	params.Set("league", fmt.Sprintf("%d", leagueID))
	params.Set("season", fmt.Sprintf("%d", season))

	var payload []standingsPayload
	if err := c.get(ctx, "standings", params, &payload); err != nil {
		return nil, err
	}

	var standings []Standing
	for _, p := range payload {
		for _, group := range p.League.Standings {
			for _, row := range group {
				standings = append(standings, Standing{
					TeamID:   row.Team.ID,
					TeamName: row.Team.Name,
					Rank:     row.Rank,
					Played:   row.All.Played,
				})
			}
		}
	}

	return standings, nil
}

// FetchResult retrieves the final score of a finished fixture.
func (c *APIFootballClient) FetchResult(ctx context.Context, fixtureID int64) (*Score, error) {
	params := url.Values{}
	params.Set("id", fmt.Sprintf("%d", fixtureID))

	var payload []fixturePayload
	if err := c.get(ctx, "fixtures", params, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, NewProviderError(providerName, ErrCodeNotFound, fmt.Sprintf("fixture %d not found", fixtureID), nil)
	}

	p := payload[0]
	status := p.Fixture.Status.Short
	if cancelledStatuses[status] {
		return nil, ErrFixtureCancelled
	}
	if !finishedStatuses[status] || p.Goals.Home == nil || p.Goals.Away == nil {
		return nil, ErrFixtureNotFinished
	}

	return &Score{
		FixtureID: fixtureID,
		HomeGoals: *p.Goals.Home,
		AwayGoals: *p.Goals.Away,
		Status:    status,
	}, nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
