package valuation

import (
	"strings"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// companyClass routes a company to a valuation treatment. It selects between
// treatments; it is not itself a valuation method.
type companyClass int

const (
	// classStandard companies go through the full DCF pipeline.
	classStandard companyClass = iota
	// classBank covers traditional banks and insurers, valued on a
	// ROE-adjusted fair price-to-book instead of cash flows.
	classBank
	// classREIT entities are excluded from the terminal-value chain and
	// carry a distinct P/B-based status.
	classREIT
)

func isFinancialSector(sector string) bool {
	switch strings.ToLower(sector) {
	case "financial services", "financials":
		return true
	}
	return false
}

func isREITSector(sector string) bool {
	return strings.ToLower(sector) == "real estate"
}

// isAssetLightFinancial detects financial-sector companies whose value sits in
// intangibles rather than book assets (payment networks, ratings agencies,
// exchanges). These must be routed to standard DCF: a P/B lens is the wrong
// tool when tangible book value is minimal. The config ticker set pins known
// cases; the ROE/P-B heuristic catches the rest.
func isAssetLightFinancial(rec domain.FundamentalsRecord, cfg Config) bool {
	if cfg.AssetLightTickers[rec.Ticker] {
		return true
	}
	if rec.ReturnOnEquity != nil && rec.PriceToBook != nil {
		return *rec.ReturnOnEquity > cfg.AssetLightROEThreshold && *rec.PriceToBook > cfg.AssetLightPBThreshold
	}
	return false
}

// classify routes the (already sanitized) record.
func classify(rec domain.FundamentalsRecord, cfg Config) companyClass {
	if isREITSector(rec.Sector) {
		return classREIT
	}
	if isFinancialSector(rec.Sector) && !isAssetLightFinancial(rec, cfg) {
		return classBank
	}
	return classStandard
}
