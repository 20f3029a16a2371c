package engine

import (
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// The nine indicators. Each is a pure function of the match context producing
// a sub-probability in [0,1] plus a data-sufficiency flag. Missing input never
// aborts an evaluation: the documented fallback is substituted and the flag
// set so the aggregator can discount confidence.

// poissonIndicator converts the expected-goals rate into an Over 1.5
// probability. Falls back to the league-average rate when neither team has
// season history.
func (e *Engine) poissonIndicator(ctx models.MatchContext) models.IndicatorResult {
	lambda := e.cfg.LeagueAvgLambda
	fallback := true
	if ctx.Home.HasSeasonData() && ctx.Away.HasSeasonData() {
		lambda = ExpectedGoals(ctx.Home, ctx.Away)
		fallback = false
	}
	return models.IndicatorResult{
		Name:     models.IndicatorPoisson,
		Value:    PoissonOverProbability(lambda),
		Fallback: fallback,
	}
}

// historicalRateIndicator weights the home side's season Over rate slightly
// above the away side's. Falls back to the league baseline.
func (e *Engine) historicalRateIndicator(ctx models.MatchContext) models.IndicatorResult {
	if !ctx.Home.HasSeasonData() || !ctx.Away.HasSeasonData() {
		return models.IndicatorResult{
			Name:     models.IndicatorHistoricalRate,
			Value:    e.cfg.BaselineOverRate,
			Fallback: true,
		}
	}
	value := ctx.Home.OverRate*0.55 + ctx.Away.OverRate*0.45
	return models.IndicatorResult{
		Name:  models.IndicatorHistoricalRate,
		Value: clampProbability(value),
	}
}

// recentTrendIndicator averages both sides' Over rate across the recent-form
// window. When form data is missing it inherits the historical rate.
func (e *Engine) recentTrendIndicator(ctx models.MatchContext, historical models.IndicatorResult) models.IndicatorResult {
	if !ctx.Home.HasRecentForm() || !ctx.Away.HasRecentForm() {
		return models.IndicatorResult{
			Name:     models.IndicatorRecentTrend,
			Value:    historical.Value,
			Fallback: true,
		}
	}
	value := (ctx.Home.RecentOverRate + ctx.Away.RecentOverRate) / 2
	return models.IndicatorResult{
		Name:  models.IndicatorRecentTrend,
		Value: clampProbability(value),
	}
}

// h2hIndicator computes the Over rate across past meetings. Small samples
// (fewer than three meetings) are blended towards the league baseline; an
// empty list inherits the historical rate with the sufficiency flag cleared.
func (e *Engine) h2hIndicator(ctx models.MatchContext, historical models.IndicatorResult) models.IndicatorResult {
	n := len(ctx.H2HGoals)
	if n == 0 {
		return models.IndicatorResult{
			Name:     models.IndicatorHeadToHead,
			Value:    historical.Value,
			Fallback: true,
		}
	}

	overCount := 0
	for _, goals := range ctx.H2HGoals {
		if goals >= 2 {
			overCount++
		}
	}
	rate := float64(overCount) / float64(n)
	if n < 3 {
		rate = rate*0.6 + e.cfg.BaselineOverRate*0.4
	}
	return models.IndicatorResult{
		Name:  models.IndicatorHeadToHead,
		Value: clampProbability(rate),
	}
}

// offensiveStrengthIndicator maps the combined goals-for average onto a
// sub-probability: a combined attack of 3.0+ goals per match scores high.
func (e *Engine) offensiveStrengthIndicator(ctx models.MatchContext) models.IndicatorResult {
	totalAttack := e.cfg.LeagueAvgLambda
	fallback := true
	if ctx.Home.HasSeasonData() && ctx.Away.HasSeasonData() {
		totalAttack = ctx.Home.GoalsForAvg + ctx.Away.GoalsForAvg
		fallback = false
	}

	var value float64
	switch {
	case totalAttack >= 3.0:
		value = 0.85 + minFloat((totalAttack-3.0)*0.05, 0.10)
	case totalAttack >= 2.5:
		value = 0.75
	case totalAttack >= 2.0:
		value = 0.65
	default:
		value = 0.50 + (totalAttack-1.5)*0.3
	}

	return models.IndicatorResult{
		Name:     models.IndicatorOffensiveStrength,
		Value:    clampProbability(minFloat(value, 0.95)),
		Fallback: fallback,
	}
}

// offensiveTrendIndicator scales the baseline by how much more (or less) both
// teams have scored recently relative to their season averages. A zero delta
// is neutral, which is also the fallback when form data is missing.
func (e *Engine) offensiveTrendIndicator(ctx models.MatchContext) models.IndicatorResult {
	if !ctx.Home.HasRecentForm() || !ctx.Away.HasRecentForm() ||
		ctx.Home.GoalsForAvg <= 0 || ctx.Away.GoalsForAvg <= 0 {
		return models.IndicatorResult{
			Name:     models.IndicatorOffensiveTrend,
			Value:    e.cfg.BaselineOverRate,
			Fallback: true,
		}
	}

	homeImprovement := ctx.Home.RecentGoalsAvg / ctx.Home.GoalsForAvg
	awayImprovement := ctx.Away.RecentGoalsAvg / ctx.Away.GoalsForAvg
	avgImprovement := (homeImprovement + awayImprovement) / 2

	value := minFloat(e.cfg.BaselineOverRate*avgImprovement, 0.95)
	return models.IndicatorResult{
		Name:  models.IndicatorOffensiveTrend,
		Value: clampProbability(value),
	}
}

// seasonPhaseIndicator discounts early-season matches (cautious sides) and
// boosts the run-in, when teams chase points. Neutral 0.5 when the round is
// unknown.
func (e *Engine) seasonPhaseIndicator(ctx models.MatchContext) models.IndicatorResult {
	progress, ok := ctx.SeasonProgress()
	if !ok {
		return models.IndicatorResult{
			Name:     models.IndicatorSeasonPhase,
			Value:    0.5,
			Fallback: true,
		}
	}

	var value float64
	switch {
	case progress < 0.25:
		value = 0.70
	case progress < 0.75:
		value = 0.72
	default:
		value = 0.75
	}
	return models.IndicatorResult{
		Name:  models.IndicatorSeasonPhase,
		Value: value,
	}
}

// motivationIndicator boosts fixtures where either side is fighting for the
// title, European spots or against relegation. Neutral when standings are
// unknown.
func (e *Engine) motivationIndicator(ctx models.MatchContext) models.IndicatorResult {
	if !ctx.HasStandings() {
		return models.IndicatorResult{
			Name:     models.IndicatorMotivation,
			Value:    0.5,
			Fallback: true,
		}
	}

	homeMotivated := highStakesPosition(ctx.HomePos, ctx.TableSize)
	awayMotivated := highStakesPosition(ctx.AwayPos, ctx.TableSize)

	var value float64
	switch {
	case homeMotivated && awayMotivated:
		value = 0.78
	case homeMotivated || awayMotivated:
		value = 0.75
	default:
		value = 0.70
	}
	return models.IndicatorResult{
		Name:  models.IndicatorMotivation,
		Value: value,
	}
}

// matchImportanceIndicator boosts derbies and rivalry fixtures. Neutral when
// no context data reached us.
func (e *Engine) matchImportanceIndicator(ctx models.MatchContext) models.IndicatorResult {
	switch ctx.Importance {
	case models.ImportanceDerby:
		return models.IndicatorResult{Name: models.IndicatorMatchImportance, Value: 0.78}
	case models.ImportanceNormal:
		return models.IndicatorResult{Name: models.IndicatorMatchImportance, Value: e.cfg.BaselineOverRate}
	default:
		return models.IndicatorResult{
			Name:     models.IndicatorMatchImportance,
			Value:    0.5,
			Fallback: true,
		}
	}
}

// highStakesPosition reports whether a league position carries title,
// European or relegation pressure: top four, or the bottom three.
func highStakesPosition(position, tableSize int) bool {
	if position <= 4 {
		return true
	}
	return position >= tableSize-2
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
