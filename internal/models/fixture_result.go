package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixture result status values.
const (
	ResultStatusPending   = "pending"
	ResultStatusSettled   = "settled"
	ResultStatusCancelled = "cancelled"
)

// FixtureResult records the actual outcome of a fixture we predicted, used by
// the reconciliation pass to settle stored opportunities.
type FixtureResult struct {
	FixtureID  int64      `db:"fixture_id" json:"fixture_id"`
	HomeGoals  int        `db:"home_goals" json:"home_goals"`
	AwayGoals  int        `db:"away_goals" json:"away_goals"`
	Status     string     `db:"status" json:"status" validate:"required,oneof=pending settled cancelled"`
	OverHit    *bool      `db:"over_hit" json:"over_hit"`       // nil until settled
	ProfitLoss *float64   `db:"profit_loss" json:"profit_loss"` // per unit bankroll, nil until settled
	SettledAt  *time.Time `db:"settled_at" json:"settled_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// TotalGoals returns the combined score.
func (r *FixtureResult) TotalGoals() int {
	return r.HomeGoals + r.AwayGoals
}

// IsOver reports whether the match finished Over 1.5 (two or more goals).
func (r *FixtureResult) IsOver() bool {
	return r.TotalGoals() >= 2
}

// PerformanceStats aggregates settled predictions over a trailing window.
// Money figures use decimal to keep the arithmetic exact across aggregation.
type PerformanceStats struct {
	PeriodDays  int             `db:"period_days" json:"period_days"`
	TotalBets   int64           `db:"total_bets" json:"total_bets"`
	WonBets     int64           `db:"won_bets" json:"won_bets"`
	LostBets    int64           `db:"lost_bets" json:"lost_bets"`
	WinRate     float64         `db:"win_rate" json:"win_rate"`
	TotalStaked decimal.Decimal `db:"total_staked" json:"total_staked"`
	ProfitLoss  decimal.Decimal `db:"profit_loss" json:"profit_loss"`
	ROI         decimal.Decimal `db:"roi" json:"roi"`
}

// ComputeDerived fills win rate and ROI from the raw counters.
func (s *PerformanceStats) ComputeDerived() {
	if s.TotalBets > 0 {
		s.WinRate = float64(s.WonBets) / float64(s.TotalBets)
	}
	if !s.TotalStaked.IsZero() {
		s.ROI = s.ProfitLoss.Div(s.TotalStaked)
	}
}
