package engine

import (
	"math"

	"github.com/Xavi146570/football-value-detector/internal/models"
)

// ExpectedGoals computes the Poisson rate for the total goals in a fixture.
// Each side's rate blends its attack average with the opponent's defensive
// average: lambda_home = (home_attack + away_defense) / 2 and symmetrically
// for the away side.
func ExpectedGoals(home, away models.TeamStats) float64 {
	lambdaHome := (home.GoalsForAvg + away.GoalsAgainstAvg) / 2
	lambdaAway := (away.GoalsForAvg + home.GoalsAgainstAvg) / 2
	return lambdaHome + lambdaAway
}

// PoissonOverProbability returns P(total goals >= 2) for a Poisson rate.
//
//	P(under 1.5) = P(0) + P(1) = e^-lambda * (1 + lambda)
//	P(over 1.5)  = 1 - P(under 1.5)
//
// For any lambda >= 0 the result is in [0,1]: 0 at lambda = 0 and
// approaching 1 as lambda grows.
func PoissonOverProbability(lambdaTotal float64) float64 {
	if lambdaTotal <= 0 || math.IsNaN(lambdaTotal) {
		return 0
	}
	under := math.Exp(-lambdaTotal) * (1 + lambdaTotal)
	return clampProbability(1 - under)
}

// clampProbability forces a probability into [0,1], mapping NaN and Inf to 0.
func clampProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
