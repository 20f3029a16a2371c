package engine

import (
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// The tier classifiers are ordered threshold tables rather than nested
// conditionals: adding a tier or moving a boundary is a data change. Both
// functions are total over valid inputs, ending in a catch-all row.

// qualityRule grades an opportunity from a composite score of EV, confidence
// and edge. Rules are checked top down; the first match wins.
type qualityRule struct {
	minScore      float64
	minConfidence float64
	tier          models.QualityTier
}

var qualityRules = []qualityRule{
	{minScore: 0.25, minConfidence: 0.80, tier: models.QualityExcellent},
	{minScore: 0.15, minConfidence: 0.60, tier: models.QualityGood},
	{minScore: 0.10, minConfidence: 0, tier: models.QualityFair},
}

// ClassifyQuality maps EV, confidence and edge onto a quality tier.
func ClassifyQuality(ev, confidence, edge float64) models.QualityTier {
	score := ev*0.4 + confidence*0.3 + edge*0.3
	for _, rule := range qualityRules {
		if score >= rule.minScore && confidence >= rule.minConfidence {
			return rule.tier
		}
	}
	return models.QualityWeak
}

// riskBand maps an accumulated risk score onto a tier. Bands are checked top
// down against the score's upper bound.
type riskBand struct {
	maxScore int
	tier     models.RiskTier
}

var riskBands = []riskBand{
	{maxScore: 0, tier: models.RiskLow},
	{maxScore: 2, tier: models.RiskModerate},
	{maxScore: 3, tier: models.RiskHigh},
}

// ClassifyRisk maps confidence and odds onto a risk tier. Lower confidence
// and longer odds both add risk.
func ClassifyRisk(confidence, odds float64) models.RiskTier {
	score := 0
	switch {
	case confidence < 0.70:
		score += 2
	case confidence < 0.80:
		score++
	}
	switch {
	case odds > 2.0:
		score += 2
	case odds > 1.7:
		score++
	}

	for _, band := range riskBands {
		if score <= band.maxScore {
			return band.tier
		}
	}
	return models.RiskVeryHigh
}
