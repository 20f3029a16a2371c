package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/Xavi146570/football-value-detector/internal/models"
)

// Provider defines the interface for fetching football data from an external
// provider. All methods honor the request context and return normalized types;
// provider-specific JSON never leaks past this package.
type Provider interface {
	// FetchFixtures retrieves the fixtures of one league on one date (UTC).
	FetchFixtures(ctx context.Context, date time.Time, leagueID int) ([]Fixture, error)

	// FetchTeamStatistics retrieves a team's season aggregates.
	FetchTeamStatistics(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error)

	// FetchHeadToHead retrieves total goals of the last meetings between two
	// teams, most recent first.
	FetchHeadToHead(ctx context.Context, homeID, awayID, last int) ([]int, error)

	// FetchOverOdds retrieves the best available Over 1.5 goals price for a
	// fixture. Returns nil when no bookmaker has priced the market.
	FetchOverOdds(ctx context.Context, fixtureID int64) (*float64, error)

	// FetchStandings retrieves the current league table.
	FetchStandings(ctx context.Context, leagueID, season int) ([]Standing, error)

	// FetchResult retrieves the final score of a finished fixture. Returns
	// ErrFixtureNotFinished while the match is still in play or postponed.
	FetchResult(ctx context.Context, fixtureID int64) (*Score, error)

	// Name returns the name of the provider
	Name() string
}

// Fixture is one scheduled match as listed by the provider.
type Fixture struct {
	ID         int64     `json:"id"`
	LeagueID   int       `json:"league_id"`
	LeagueName string    `json:"league_name"`
	Season     int       `json:"season"`
	Round      string    `json:"round"`
	Kickoff    time.Time `json:"kickoff"`
	HomeTeamID int       `json:"home_team_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeamID int       `json:"away_team_id"`
	AwayTeam   string    `json:"away_team"`
	Status     string    `json:"status"`
}

// Standing is one row of a league table.
type Standing struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Rank     int    `json:"rank"`
	Played   int    `json:"played"`
}

// Score is the final score of a finished fixture.
type Score struct {
	FixtureID int64  `json:"fixture_id"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Status    string `json:"status"`
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // Provider name
	Code     string // Error code (e.g. "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var (
	// ErrFixtureNotFinished marks a result request for a fixture that has not
	// reached full time yet.
	ErrFixtureNotFinished = errors.New("fixture not finished")

	// ErrFixtureCancelled marks a fixture that was postponed or abandoned.
	ErrFixtureCancelled = errors.New("fixture cancelled")
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}

// SeasonForDate maps a calendar date onto a European football season, which
// runs August through June. January-June belongs to the previous year's
// season.
func SeasonForDate(date time.Time) int {
	if date.Month() <= time.June {
		return date.Year() - 1
	}
	return date.Year()
}
