package valuation

import (
	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// Provenance tags for resolved multiples. Preserved in the result so the
// number can be audited back to its source tier.
const (
	SourcePeerMedian      = "Sector Peer Median"
	SourceBlendedIndustry = "Blended (Ticker + Industry)"
	SourceBlendedSector   = "Blended (Ticker + Sector)"
	SourceTickerOwn       = "Ticker EV/EBITDA"
	SourceIndustryDefault = "Industry Default"
	SourceSectorDefault   = "Sector Default"
	SourceGlobalDefault   = "Global Default"

	SourceCompanyRevenue        = "Company EV/Revenue"
	SourceIndustryRevenue       = "Industry Revenue Default"
	SourceSectorRevenue         = "Sector Revenue Default"
	SourceGlobalRevenueDefault  = "Global Revenue Default"
)

// multipleCandidate is a value-with-provenance produced by one strategy tier.
type multipleCandidate struct {
	value  float64
	source string
}

// exitMultipleStrategy attempts one tier of the exit-multiple chain, returning
// false when its data is unavailable so the resolver moves to the next tier.
type exitMultipleStrategy func(rec domain.FundamentalsRecord, peerMedian *float64, cfg Config) (multipleCandidate, bool)

// The ordered exit-multiple fallback chain. Live peer data beats the ticker's
// own multiple, which beats static defaults.
var exitMultipleChain = []exitMultipleStrategy{
	peerMedianStrategy,
	tickerBlendStrategy,
	industryDefaultStrategy,
	sectorDefaultStrategy,
}

func peerMedianStrategy(_ domain.FundamentalsRecord, peerMedian *float64, _ Config) (multipleCandidate, bool) {
	if peerMedian == nil || *peerMedian <= 0 {
		return multipleCandidate{}, false
	}
	return multipleCandidate{value: *peerMedian, source: SourcePeerMedian}, true
}

// tickerBlendStrategy blends the company's own EV/EBITDA 50/50 with the best
// available reference default (industry beats sector); alone when no
// reference exists. Sanitize has already dropped out-of-window ratios.
func tickerBlendStrategy(rec domain.FundamentalsRecord, _ *float64, cfg Config) (multipleCandidate, bool) {
	if rec.EVToEBITDA == nil {
		return multipleCandidate{}, false
	}
	own := *rec.EVToEBITDA
	if industry, ok := cfg.IndustryExitMultiples[rec.Industry]; ok {
		return multipleCandidate{value: (own + industry) / 2, source: SourceBlendedIndustry}, true
	}
	if sector, ok := cfg.SectorExitMultiples[rec.Sector]; ok {
		return multipleCandidate{value: (own + sector) / 2, source: SourceBlendedSector}, true
	}
	return multipleCandidate{value: own, source: SourceTickerOwn}, true
}

func industryDefaultStrategy(rec domain.FundamentalsRecord, _ *float64, cfg Config) (multipleCandidate, bool) {
	if m, ok := cfg.IndustryExitMultiples[rec.Industry]; ok {
		return multipleCandidate{value: m, source: SourceIndustryDefault}, true
	}
	return multipleCandidate{}, false
}

func sectorDefaultStrategy(rec domain.FundamentalsRecord, _ *float64, cfg Config) (multipleCandidate, bool) {
	if m, ok := cfg.SectorExitMultiples[rec.Sector]; ok {
		return multipleCandidate{value: m, source: SourceSectorDefault}, true
	}
	return multipleCandidate{}, false
}

// resolveExitMultiple walks the chain and clamps the winning candidate to
// [floor, ceiling], where the floor is the industry override when present.
func resolveExitMultiple(rec domain.FundamentalsRecord, peerMedian *float64, cfg Config) (float64, string) {
	floor := cfg.ExitMultipleFloor
	if f, ok := cfg.IndustryExitMultipleFloors[rec.Industry]; ok {
		floor = f
	}

	for _, strategy := range exitMultipleChain {
		if c, ok := strategy(rec, peerMedian, cfg); ok {
			return domain.Clamp(c.value, floor, cfg.ExitMultipleCap), c.source
		}
	}
	return domain.Clamp(cfg.DefaultExitMultiple, floor, cfg.ExitMultipleCap), SourceGlobalDefault
}

// resolveRevenueMultiple resolves the EV/Revenue multiple for companies routed
// away from EBITDA-based terminal values. Only the company's own ratio is
// clamped; table defaults are trusted as-is.
func resolveRevenueMultiple(rec domain.FundamentalsRecord, cfg Config) (float64, string) {
	if rec.EVToRevenue != nil && *rec.EVToRevenue > 0 {
		return domain.Clamp(*rec.EVToRevenue, cfg.RevenueMultipleFloor, cfg.RevenueMultipleCap), SourceCompanyRevenue
	}
	if m, ok := cfg.IndustryRevenueMultiples[rec.Industry]; ok {
		return m, SourceIndustryRevenue
	}
	if m, ok := cfg.SectorRevenueMultiples[rec.Sector]; ok {
		return m, SourceSectorRevenue
	}
	return cfg.DefaultRevenueMultiple, SourceGlobalRevenueDefault
}
