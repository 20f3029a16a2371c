package models

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is the decision record produced by one engine evaluation.
// It is created once per MatchContext and never mutated afterwards;
// ownership passes to the persistence layer.
type Opportunity struct {
	ID                 uuid.UUID   `db:"id" json:"id"`
	FixtureID          int64       `db:"fixture_id" json:"fixture_id"`
	HomeTeam           string      `db:"home_team" json:"home_team"`
	AwayTeam           string      `db:"away_team" json:"away_team"`
	League             string      `db:"league" json:"league"`
	Kickoff            time.Time   `db:"kickoff" json:"kickoff"`
	OurProbability     float64     `db:"our_probability" json:"our_probability" validate:"gte=0,lte=1"`
	ImpliedProbability float64     `db:"implied_probability" json:"implied_probability" validate:"gte=0,lte=1"`
	Odds               float64     `db:"odds" json:"odds"`
	Edge               float64     `db:"edge" json:"edge"`
	ExpectedValue      float64     `db:"expected_value" json:"expected_value"`
	Confidence         float64     `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	KellyFraction      float64     `db:"kelly_fraction" json:"kelly_fraction"`
	RecommendedStake   float64     `db:"recommended_stake" json:"recommended_stake"` // fraction of bankroll
	Quality            QualityTier `db:"quality" json:"quality"`
	Risk               RiskTier    `db:"risk" json:"risk"`
	Accepted           bool        `db:"accepted" json:"accepted"`
	Warning            string      `db:"warning" json:"warning,omitempty"`
	AnalyzedAt         time.Time   `db:"analyzed_at" json:"analyzed_at"`
}

// RankScore orders opportunities for reporting: higher EV backed by higher
// confidence ranks first.
func (o *Opportunity) RankScore() float64 {
	return o.ExpectedValue * o.Confidence
}
