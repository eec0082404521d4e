package valuation

import (
	"github.com/samber/lo"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// cappedBeta bounds beta to a realistic range. An unfloored beta near zero
// yields a near-4% cost of equity, which is economically meaningless for an
// operating company; the cap rejects leveraged-artifact betas the same way.
func cappedBeta(beta *float64, cfg Config) float64 {
	return domain.Clamp(lo.FromPtrOr(beta, 1.0), cfg.BetaFloor, cfg.BetaCap)
}

// costOfEquity applies the CAPM: risk-free rate + beta x equity risk premium.
func costOfEquity(rec domain.FundamentalsRecord, cfg Config) float64 {
	return cfg.RiskFreeRate + cappedBeta(rec.Beta, cfg)*cfg.EquityRiskPremium
}

// resolveWACC computes the market-cap-weighted cost of capital and applies the
// industry floor followed by the global bounds. The returned value is always
// within [WACCFloor, WACCCap].
func resolveWACC(rec domain.FundamentalsRecord, cfg Config) float64 {
	ke := costOfEquity(rec, cfg)

	totalDebt := lo.FromPtr(rec.TotalDebt)

	// Cost of debt from interest expense over total debt, bounded to reject
	// data artifacts; otherwise risk-free plus a BBB-grade spread.
	var kd float64
	if rec.InterestExpense != nil && totalDebt > 0 {
		pretax := domain.Clamp(*rec.InterestExpense/totalDebt, cfg.CostOfDebtFloor, cfg.CostOfDebtCap)
		kd = pretax * (1 - cfg.TaxRate)
	} else {
		kd = cfg.RiskFreeRate + cfg.DebtSpreadFallback
	}

	var wacc float64
	if mc := lo.FromPtr(rec.MarketCap); mc > 0 {
		we := mc / (mc + totalDebt)
		wd := totalDebt / (mc + totalDebt)
		wacc = we*ke + wd*kd
	} else {
		wacc = cfg.DefaultWACC
	}

	// Distressed/cyclical industries carry a higher minimum discount rate.
	if floor, ok := cfg.IndustryWACCFloors[rec.Industry]; ok {
		wacc = max(wacc, floor)
	}

	// Re-apply global bounds so an industry floor can never push WACC
	// outside the configured ceiling.
	return domain.Clamp(wacc, cfg.WACCFloor, cfg.WACCCap)
}
