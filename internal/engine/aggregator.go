package engine

import (
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// Estimate runs all nine indicators against the context and combines them
// into one calibrated probability with a confidence score.
//
// The combination is a linear opinion pool: probability = sum(weight_i *
// value_i), deterministic and auditable. Confidence starts at 1.0 and loses a
// fixed penalty for every indicator that ran on a fallback default, floored
// at 0, so it decreases monotonically with the fallback count.
func (e *Engine) Estimate(ctx models.MatchContext) models.ProbabilityEstimate {
	historical := e.historicalRateIndicator(ctx)

	indicators := []models.IndicatorResult{
		e.poissonIndicator(ctx),
		historical,
		e.recentTrendIndicator(ctx, historical),
		e.h2hIndicator(ctx, historical),
		e.offensiveStrengthIndicator(ctx),
		e.offensiveTrendIndicator(ctx),
		e.seasonPhaseIndicator(ctx),
		e.motivationIndicator(ctx),
		e.matchImportanceIndicator(ctx),
	}

	probability := 0.0
	fallbacks := 0
	for _, ind := range indicators {
		probability += e.weights[ind.Name] * ind.Value
		if ind.Fallback {
			fallbacks++
		}
	}

	confidence := 1.0 - e.cfg.FallbackPenalty*float64(fallbacks)
	if confidence < 0 {
		confidence = 0
	}

	return models.ProbabilityEstimate{
		Probability: clampProbability(probability),
		Confidence:  confidence,
		Indicators:  indicators,
	}
}
