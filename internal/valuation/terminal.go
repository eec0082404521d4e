package valuation

// perpetualTerminalValue computes the Gordon growth terminal value for the
// final projected FCF. Returns false when the WACC-growth spread is below the
// configured minimum: near the singularity the formula amplifies small input
// noise into arbitrarily large values, so no estimate beats a bad one.
func perpetualTerminalValue(fcfFinal, wacc float64, cfg Config) (float64, bool) {
	g := cfg.TerminalGrowthRate
	if wacc-g < cfg.MinWACCGrowthSpread {
		return 0, false
	}
	return fcfFinal * (1 + g) / (wacc - g), true
}

// impliedPerpetuityGrowth back-solves the growth rate at which a perpetuity of
// the final-year FCF would equal the exit-multiple terminal value. A result
// above the plausible ceiling means the multiple is pricing in growth no
// mature company sustains.
func impliedPerpetuityGrowth(fcfFinal, terminalValue, wacc float64) (float64, bool) {
	if terminalValue <= 0 || fcfFinal <= 0 {
		return 0, false
	}
	return wacc - fcfFinal/terminalValue, true
}

// impliedGrowthCeilingTV is the largest exit terminal value consistent with
// the implied-growth ceiling for the given final FCF.
func impliedGrowthCeilingTV(fcfFinal, wacc float64, cfg Config) float64 {
	return fcfFinal / (wacc - cfg.MaxImpliedGrowth)
}

// enterpriseToEquity bridges an enterprise value to a per-share equity value:
// subtract debt, add back cash, divide by shares. Cash is part of the bridge,
// not an optional adjustment.
func enterpriseToEquity(ev, debt, cash, shares float64) float64 {
	return (ev - debt + cash) / shares
}
