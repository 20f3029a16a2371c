package models

import (
	"time"
)

// MatchImportance describes how much is riding on a fixture beyond league points.
type MatchImportance int

const (
	// ImportanceUnknown means no context data was available for the fixture.
	ImportanceUnknown MatchImportance = iota
	ImportanceNormal
	ImportanceDerby
)

// String returns the importance as a lowercase label.
func (m MatchImportance) String() string {
	switch m {
	case ImportanceNormal:
		return "normal"
	case ImportanceDerby:
		return "derby"
	default:
		return "unknown"
	}
}

// TeamStats holds a team's season statistics as collected from the data provider.
// Averages are goals per match and must be non-negative.
type TeamStats struct {
	GoalsForAvg     float64 `json:"goals_for_avg"`
	GoalsAgainstAvg float64 `json:"goals_against_avg"`
	OverRate        float64 `json:"over_rate"`        // season Over 1.5 rate
	RecentOverRate  float64 `json:"recent_over_rate"` // Over 1.5 rate across the recent-form window
	RecentGoalsAvg  float64 `json:"recent_goals_avg"` // goals-for average across the recent-form window
	GamesPlayed     int     `json:"games_played"`
}

// HasSeasonData reports whether the team has enough season history to trust its averages.
func (t TeamStats) HasSeasonData() bool {
	return t.GamesPlayed > 0
}

// HasRecentForm reports whether recent-form figures were computed from real matches.
func (t TeamStats) HasRecentForm() bool {
	return t.GamesPlayed > 0 && t.RecentGoalsAvg > 0
}

// MatchContext is the immutable per-fixture snapshot fed into the engine.
// Recent-form and head-to-head data may be missing; the engine substitutes
// documented fallbacks rather than failing. Odds are nil when the bookmaker
// has not priced the Over 1.5 selection.
type MatchContext struct {
	FixtureID   int64           `json:"fixture_id"`
	HomeTeam    string          `json:"home_team"`
	AwayTeam    string          `json:"away_team"`
	League      string          `json:"league"`
	Kickoff     time.Time       `json:"kickoff"`
	Home        TeamStats       `json:"home"`
	Away        TeamStats       `json:"away"`
	H2HGoals    []int           `json:"h2h_goals"` // total goals per past meeting, newest first
	Round       int             `json:"round"`        // 0 when unknown
	TotalRounds int             `json:"total_rounds"` // 0 when unknown
	HomePos     int             `json:"home_pos"`     // league position, 0 when unknown
	AwayPos     int             `json:"away_pos"`
	TableSize   int             `json:"table_size"`
	Importance  MatchImportance `json:"importance"`
	OverOdds    *float64        `json:"over_odds,omitempty"` // decimal odds for Over 1.5
}

// HasOdds reports whether the Over 1.5 selection is priced.
func (c MatchContext) HasOdds() bool {
	return c.OverOdds != nil && *c.OverOdds > 0
}

// HasStandings reports whether league table positions are known.
func (c MatchContext) HasStandings() bool {
	return c.HomePos > 0 && c.AwayPos > 0 && c.TableSize > 0
}

// SeasonProgress returns the fraction of the season played, or false when unknown.
func (c MatchContext) SeasonProgress() (float64, bool) {
	if c.Round <= 0 || c.TotalRounds <= 0 {
		return 0, false
	}
	return float64(c.Round) / float64(c.TotalRounds), true
}
