package valuation

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// valuateBank values traditional banks and insurers on a ROE-adjusted fair
// price-to-book. A bank's cash flows are its working inventory, so a DCF on
// FCF double-counts leverage; book value is the meaningful base instead.
func valuateBank(rec domain.FundamentalsRecord, cfg Config) Result {
	r := Result{Method: MethodROEAdjustedPB, Confidence: ConfidenceMedium, Status: StatusFairValue}

	if rec.PriceToBook == nil || *rec.PriceToBook <= 0 {
		return insufficientData("P/B ratio unavailable or unreliable")
	}
	pb := *rec.PriceToBook

	ke := costOfEquity(rec, cfg)
	fairPB := cfg.BankFairPBFallback
	if roe := lo.FromPtr(rec.ReturnOnEquity); roe > 0 && ke > 0 {
		fairPB = domain.Clamp(roe/ke, cfg.BankFairPBFloor, cfg.BankFairPBCap)
	}
	r.note(fmt.Sprintf("Financial sector: ROE-adjusted P/B, fair P/B=%.2f", fairPB))

	if price := lo.FromPtr(rec.CurrentPrice); price > 0 {
		bookPerShare := price / pb
		fair := max(bookPerShare*fairPB, cfg.IVFloor)
		r.IntrinsicValue = ptr(domain.Round2(fair))
		r.BuyPrice = ptr(domain.Round2(fair * (1 - cfg.MarginOfSafety)))
		r.UpsidePct = ptr(domain.Round4((fair - price) / price))
	}

	switch ratio := pb / fairPB; {
	case ratio < 0.75:
		r.Status = StatusUndervalued
	case ratio > 1.5:
		r.Status = StatusOvervalued
	}
	return r
}

// valuateREIT returns a P/B-based stub for REITs. The data source carries no
// FFO, so a cash-flow model is not attemptable; the fair P/B is a flat policy
// value rather than a ROE-derived one.
func valuateREIT(rec domain.FundamentalsRecord, cfg Config) Result {
	r := Result{Method: MethodREITPB, Confidence: ConfidenceMedium, Status: StatusFairValue}

	if rec.PriceToBook == nil || *rec.PriceToBook <= 0 {
		return insufficientData("P/B ratio unavailable or unreliable")
	}
	pb := *rec.PriceToBook
	r.note("REIT: cash-flow model skipped, P/B-based valuation")

	if price := lo.FromPtr(rec.CurrentPrice); price > 0 {
		bookPerShare := price / pb
		fair := max(bookPerShare*cfg.REITFairPB, cfg.IVFloor)
		r.IntrinsicValue = ptr(domain.Round2(fair))
		r.BuyPrice = ptr(domain.Round2(fair * (1 - cfg.MarginOfSafety)))
		r.UpsidePct = ptr(domain.Round4((fair - price) / price))
	}

	switch {
	case pb < cfg.REITCheapPB:
		r.Status = StatusUndervalued
	case pb > cfg.REITExpensivePB:
		r.Status = StatusOvervalued
	}
	return r
}

func insufficientData(reason string) Result {
	r := Result{
		Method:     MethodInsufficientData,
		Status:     StatusInsufficientData,
		Confidence: ConfidenceLow,
	}
	r.note(reason)
	return r
}
