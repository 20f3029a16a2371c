package engine

// ImpliedProbability converts decimal odds into the probability a fair market
// would assign: 1/odds.
func ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return 1.0 / odds
}

// ExpectedValue is the expected return per unit staked: (p * odds) - 1.
func ExpectedValue(probability, odds float64) float64 {
	return probability*odds - 1.0
}

// acceptance holds the outcome of the four acceptance conditions. All four
// must hold for an opportunity to be accepted; the struct keeps the checks
// individually inspectable for logging.
type acceptance struct {
	ProbabilityOK bool
	ConfidenceOK  bool
	ValueOK       bool
	OddsInRange   bool
}

func (a acceptance) Accepted() bool {
	return a.ProbabilityOK && a.ConfidenceOK && a.ValueOK && a.OddsInRange
}

// checkAcceptance applies the configured thresholds to an estimate and its
// market price.
func (e *Engine) checkAcceptance(probability, confidence, ev, odds float64) acceptance {
	return acceptance{
		ProbabilityOK: probability >= e.cfg.MinProbability,
		ConfidenceOK:  confidence >= e.cfg.MinConfidence,
		ValueOK:       ev >= e.cfg.MinExpectedValue,
		OddsInRange:   odds >= e.cfg.MinOdds && odds <= e.cfg.MaxOdds,
	}
}
