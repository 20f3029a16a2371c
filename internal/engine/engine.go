// Package engine implements the probability and value decision engine: the
// indicator pool, the Poisson goal model, expected-value comparison, Kelly
// stake sizing and the opportunity classifiers. The engine performs no I/O
// and holds no mutable state; a single instance is safe for concurrent use.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// weightSumEpsilon is the tolerance for the indicator weight sum invariant.
const weightSumEpsilon = 1e-9

// Engine evaluates match contexts into betting opportunities.
type Engine struct {
	cfg     config.EngineConfig
	weights map[string]float64
}

// New creates an engine from a validated configuration. The weight and
// threshold invariants are re-checked here so an engine can never be
// constructed in a state that produces out-of-range output.
func New(cfg config.EngineConfig) (*Engine, error) {
	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > weightSumEpsilon {
		return nil, fmt.Errorf("indicator weights must sum to 1.0, got %.12f", sum)
	}
	if cfg.MinOdds <= 1.0 {
		return nil, fmt.Errorf("min odds must be greater than 1.0")
	}
	if cfg.MinOdds >= cfg.MaxOdds {
		return nil, fmt.Errorf("min odds %.2f must be below max odds %.2f", cfg.MinOdds, cfg.MaxOdds)
	}
	if cfg.MaxConcurrency <= 0 {
		return nil, fmt.Errorf("max concurrency must be positive")
	}

	return &Engine{
		cfg: cfg,
		weights: map[string]float64{
			models.IndicatorPoisson:           cfg.Weights.Poisson,
			models.IndicatorHistoricalRate:    cfg.Weights.HistoricalRate,
			models.IndicatorRecentTrend:       cfg.Weights.RecentTrend,
			models.IndicatorHeadToHead:        cfg.Weights.HeadToHead,
			models.IndicatorOffensiveStrength: cfg.Weights.OffensiveStrength,
			models.IndicatorOffensiveTrend:    cfg.Weights.OffensiveTrend,
			models.IndicatorSeasonPhase:       cfg.Weights.SeasonPhase,
			models.IndicatorMotivation:        cfg.Weights.Motivation,
			models.IndicatorMatchImportance:   cfg.Weights.MatchImportance,
		},
	}, nil
}

// Evaluate runs one match context through the full pipeline: indicator pool,
// value comparison, stake sizing and classification. It returns
// models.ErrMissingOdds when the Over 1.5 selection is not priced; that is a
// per-fixture condition, not a failure of the batch.
func (e *Engine) Evaluate(ctx models.MatchContext) (*models.Opportunity, error) {
	if !ctx.HasOdds() {
		return nil, fmt.Errorf("fixture %d: %w", ctx.FixtureID, models.ErrMissingOdds)
	}
	odds := *ctx.OverOdds

	estimate := e.Estimate(ctx)

	implied := ImpliedProbability(odds)
	ev := ExpectedValue(estimate.Probability, odds)
	accepted := e.checkAcceptance(estimate.Probability, estimate.Confidence, ev, odds)

	// Kelly runs only on range-validated odds; outside the accepted range the
	// stake is zero regardless of the formula.
	var kelly, stake float64
	var warning string
	if accepted.OddsInRange {
		kelly = kellyFraction(estimate.Probability, odds)
		stake = e.recommendStake(kelly)
		if kelly <= 0 && accepted.Accepted() {
			// EV and Kelly agree in sign except for float rounding at the
			// boundary. Kelly is authoritative for the stake; acceptance
			// stays with the threshold conditions and the divergence is
			// surfaced instead of silently resolved.
			warning = "non-positive kelly fraction despite acceptance conditions; stake forced to zero"
		}
	}

	return &models.Opportunity{
		ID:                 uuid.New(),
		FixtureID:          ctx.FixtureID,
		HomeTeam:           ctx.HomeTeam,
		AwayTeam:           ctx.AwayTeam,
		League:             ctx.League,
		Kickoff:            ctx.Kickoff,
		OurProbability:     estimate.Probability,
		ImpliedProbability: implied,
		Odds:               odds,
		Edge:               estimate.Probability - implied,
		ExpectedValue:      ev,
		Confidence:         estimate.Confidence,
		KellyFraction:      kelly,
		RecommendedStake:   stake,
		Quality:            ClassifyQuality(ev, estimate.Confidence, estimate.Probability-implied),
		Risk:               ClassifyRisk(estimate.Confidence, odds),
		Accepted:           accepted.Accepted(),
		Warning:            warning,
		AnalyzedAt:         time.Now().UTC(),
	}, nil
}
