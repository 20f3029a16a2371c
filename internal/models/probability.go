package models

// Indicator names as emitted by the engine. The same names key the weight
// configuration, so changing one requires changing the other.
const (
	IndicatorPoisson           = "poisson"
	IndicatorHistoricalRate    = "historical_rate"
	IndicatorRecentTrend       = "recent_trend"
	IndicatorHeadToHead        = "h2h"
	IndicatorOffensiveStrength = "offensive_strength"
	IndicatorOffensiveTrend    = "offensive_trend"
	IndicatorSeasonPhase       = "season_phase"
	IndicatorMotivation        = "motivation"
	IndicatorMatchImportance   = "match_importance"
)

// IndicatorResult is the output of a single indicator. Fallback is true when
// the indicator could not be computed from real data and a documented default
// was substituted instead.
type IndicatorResult struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"` // sub-probability or signal in [0,1]
	Fallback bool    `json:"fallback"`
}

// ProbabilityEstimate is the aggregated output of the indicator pool.
// Confidence decreases monotonically with the number of fallback-flagged
// indicators.
type ProbabilityEstimate struct {
	Probability float64           `json:"probability"` // in [0,1]
	Confidence  float64           `json:"confidence"`  // in [0,1]
	Indicators  []IndicatorResult `json:"indicators"`
}

// FallbackCount returns how many indicators ran on substituted defaults.
func (p ProbabilityEstimate) FallbackCount() int {
	n := 0
	for _, ind := range p.Indicators {
		if ind.Fallback {
			n++
		}
	}
	return n
}
