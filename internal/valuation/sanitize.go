package valuation

import (
	"fmt"
	"math"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// Sanitize normalizes an untrusted fundamentals record into the engine's
// internal conventions before any computation touches it. Implausible ratios
// are dropped (set absent, never clamped and never zeroed) and sign quirks
// are resolved here so call sites never have to remember them.
func Sanitize(rec domain.FundamentalsRecord, cfg Config) (domain.FundamentalsRecord, []string) {
	var notes []string

	// Provider artifacts: a P/B of 0.001 or 5000 is not a real ratio.
	if rec.PriceToBook != nil {
		if pb := *rec.PriceToBook; pb < cfg.PriceToBookMin || pb > cfg.PriceToBookMax {
			notes = append(notes, fmt.Sprintf("P/B %.3f outside [%.2f, %.0f], dropped", pb, cfg.PriceToBookMin, cfg.PriceToBookMax))
			rec.PriceToBook = nil
		}
	}

	// A ticker-level EV/EBITDA outside (1, 100) is unusable for blending.
	if rec.EVToEBITDA != nil {
		if ev := *rec.EVToEBITDA; ev <= cfg.EVToEBITDAMin || ev >= cfg.EVToEBITDAMax {
			notes = append(notes, fmt.Sprintf("EV/EBITDA %.1f outside (%.0f, %.0f), dropped", ev, cfg.EVToEBITDAMin, cfg.EVToEBITDAMax))
			rec.EVToEBITDA = nil
		}
	}

	// Interest expense sign convention varies by source; normalize to a
	// positive magnitude before it reaches the cost-of-debt ratio.
	if rec.InterestExpense != nil {
		v := math.Abs(*rec.InterestExpense)
		if v == 0 {
			rec.InterestExpense = nil
		} else {
			rec.InterestExpense = &v
		}
	}

	// NaN/Inf from upstream arithmetic must never enter the pipeline.
	for _, p := range []**float64{
		&rec.CurrentPrice, &rec.MarketCap, &rec.SharesOutstanding, &rec.Beta,
		&rec.TrailingEPS, &rec.EBITDA, &rec.EBITDAMargin, &rec.TotalRevenue,
		&rec.RevenueGrowth, &rec.ReturnOnEquity, &rec.TotalDebt, &rec.TotalCash,
		&rec.InterestExpense, &rec.EVToEBITDA, &rec.EVToRevenue,
		&rec.PriceToBook, &rec.AnalystTargetPrice,
	} {
		if *p != nil && (math.IsNaN(**p) || math.IsInf(**p, 0)) {
			*p = nil
		}
	}

	cleaned := rec.FreeCashFlow[:0:0]
	for _, f := range rec.FreeCashFlow {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			cleaned = append(cleaned, f)
		}
	}
	rec.FreeCashFlow = cleaned

	return rec, notes
}
