package valuation

import "math"

// fcfGrowthRate derives a trailing growth rate from the FCF history (most
// recent first): CAGR when both endpoints are positive, simple change for
// mixed signs, a modest default for a single year. The result is clamped to
// the global window and then to the sector cap, preventing near-term
// hyper-growth from being extrapolated indefinitely.
func fcfGrowthRate(history []float64, sector string, cfg Config) float64 {
	growth := 0.05
	if len(history) >= 2 {
		newest, oldest := history[0], history[len(history)-1]
		years := float64(len(history) - 1)
		switch {
		case newest > 0 && oldest > 0:
			growth = math.Pow(newest/oldest, 1/years) - 1
		case oldest != 0:
			growth = (newest - oldest) / math.Abs(oldest)
		}
	}

	growth = max(cfg.GrowthRateFloor, min(growth, cfg.GrowthRateCap))
	if cap, ok := cfg.SectorGrowthCaps[sector]; ok {
		growth = min(growth, cap)
	}
	return growth
}

// decayedGrowth is the per-year growth under the decay schedule: 10% of the
// initial rate is shed each year, with the decay factor floored at 0.1.
func decayedGrowth(growth float64, year int) float64 {
	decay := 1 - 0.1*float64(year)
	return growth * max(decay, 0.1)
}

// projectPath extends a trailing figure forward year by year.
func projectPath(base, growth float64, years int) []float64 {
	path := make([]float64, 0, years)
	prev := base
	for year := 1; year <= years; year++ {
		prev *= 1 + decayedGrowth(growth, year)
		path = append(path, prev)
	}
	return path
}

// projectFinal returns only the terminal-year value of the same schedule.
func projectFinal(base, growth float64, years int) float64 {
	prev := base
	for year := 1; year <= years; year++ {
		prev *= 1 + decayedGrowth(growth, year)
	}
	return prev
}

// presentValue discounts a projected path back to today at the given rate,
// with path[0] one year out.
func presentValue(path []float64, rate float64) float64 {
	var pv float64
	for i, v := range path {
		pv += v / math.Pow(1+rate, float64(i+1))
	}
	return pv
}

// discountAt discounts a single terminal figure from the given year.
func discountAt(value, rate float64, year int) float64 {
	return value / math.Pow(1+rate, float64(year))
}
