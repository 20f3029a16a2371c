package engine

// kellyFraction computes the full Kelly bankroll fraction for a back bet:
//
//	b = odds - 1, p = probability, q = 1 - p
//	kelly = (b*p - q) / b
//
// Callers must range-validate odds first; odds of 1.0 would zero the
// denominator and are outside the accepted range by configuration.
func kellyFraction(probability, odds float64) float64 {
	if odds <= 1.0 {
		return 0
	}
	b := odds - 1.0
	p := probability
	q := 1.0 - p
	return (b*p - q) / b
}

// recommendStake turns a full Kelly fraction into the stake we actually
// recommend: a fractional Kelly for variance reduction, capped at the
// configured maximum share of bankroll. Non-positive Kelly always yields a
// zero stake.
func (e *Engine) recommendStake(kelly float64) float64 {
	if kelly <= 0 {
		return 0
	}
	stake := kelly * e.cfg.KellyMultiplier
	if stake > e.cfg.MaxStakeFraction {
		stake = e.cfg.MaxStakeFraction
	}
	return stake
}
