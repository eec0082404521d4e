package valuation

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// PeerContext carries optional market anchors computed outside the engine.
// Absent fields degrade gracefully through the fallback chains.
type PeerContext struct {
	// MedianEVToEBITDA is the live sector-peer median, the top tier of the
	// exit-multiple chain.
	MedianEVToEBITDA *float64
}

// Engine computes per-share intrinsic values from fundamentals. It is
// stateless and safe for concurrent use; the config is read-only after
// construction.
type Engine struct {
	cfg Config
}

// NewEngine validates the config once so every later call can trust it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new valuation engine: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the policy values the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Valuate runs the full pipeline for one company: sanitize, classify, project,
// discount, blend, govern. Bad or missing input is a degraded-confidence
// outcome, never an error.
func (e *Engine) Valuate(raw domain.FundamentalsRecord, peer PeerContext) Result {
	cfg := e.cfg
	rec, sanitizeNotes := Sanitize(raw, cfg)

	var r Result
	switch classify(rec, cfg) {
	case classBank:
		r = valuateBank(rec, cfg)
	case classREIT:
		r = valuateREIT(rec, cfg)
	default:
		r = e.valuateStandard(rec, peer)
	}
	r.Notes = append(sanitizeNotes, r.Notes...)
	return r
}

func (e *Engine) valuateStandard(rec domain.FundamentalsRecord, peer PeerContext) Result {
	cfg := e.cfg

	shares := lo.FromPtr(rec.SharesOutstanding)
	if shares <= 0 {
		return insufficientData("shares outstanding missing or zero, cannot compute per-share value")
	}

	price := lo.FromPtr(rec.CurrentPrice)
	marketCap := lo.FromPtr(rec.MarketCap)
	totalDebt := lo.FromPtr(rec.TotalDebt)
	totalCash := lo.FromPtr(rec.TotalCash)
	revenue := lo.FromPtr(rec.TotalRevenue)

	// Earnings quality. Thin or negative earnings undermine any
	// multiple-based method, so the outcome is pinned to Low later.
	var qualityNote string
	forceLow := false
	switch eps, margin := rec.TrailingEPS, rec.EBITDAMargin; {
	case eps != nil && *eps < 0:
		forceLow = true
		qualityNote = fmt.Sprintf("negative trailing EPS ($%.2f)", *eps)
	case margin != nil && *margin <= 0:
		forceLow = true
		qualityNote = fmt.Sprintf("non-positive EBITDA margin (%.1f%%)", *margin*100)
	case margin != nil && *margin < cfg.MinEBITDAMargin:
		forceLow = true
		qualityNote = fmt.Sprintf("thin EBITDA margin (%.1f%%)", *margin*100)
	}

	base, ok := e.resolveBaseFCF(rec)
	if !ok {
		return insufficientData("no free cash flow or revenue data available")
	}
	r := Result{Status: StatusFairValue, Confidence: base.confidence}
	if base.proxyNote != "" {
		r.note(base.proxyNote)
	}
	if forceLow {
		r.Confidence = ConfidenceLow
		r.note(qualityNote)
	}

	// Projection and discount rate.
	projected := projectPath(base.fcf, base.growth, cfg.ProjectionYears)
	fcfFinal := projected[len(projected)-1]
	wacc := resolveWACC(rec, cfg)
	r.WACC = ptr(domain.Round4(wacc))
	r.FCFGrowthRate = ptr(domain.Round4(base.growth))

	// Terminal value, exit-multiple path.
	baseEBITDA := resolveBaseEBITDA(rec, marketCap, totalDebt)
	exitMultiple, exitSource := resolveExitMultiple(rec, peer.MedianEVToEBITDA, cfg)
	var tvExit float64
	switch {
	case baseEBITDA != nil && *baseEBITDA > 0:
		ebitdaFinal := projectFinal(*baseEBITDA, base.growth, cfg.ProjectionYears)
		tvExit = ebitdaFinal * exitMultiple
	case revenue > 0:
		revMultiple, revSource := resolveRevenueMultiple(rec, cfg)
		revenueFinal := projectFinal(revenue, base.growth, cfg.ProjectionYears)
		tvExit = revenueFinal * revMultiple
		exitMultiple = revMultiple
		exitSource = fmt.Sprintf("EV/Revenue (%s)", revSource)
		r.note(fmt.Sprintf("EBITDA unavailable or negative, EV/Revenue terminal value (x%.1f)", revMultiple))
	default:
		// Last resort. May produce a negative terminal value; the zero
		// floor catches it downstream.
		tvExit = fcfFinal * exitMultiple
		r.note("EBITDA and revenue unavailable, exit multiple applied to FCF")
	}

	// Terminal value, perpetual-growth path.
	tvPerp, perpOK := perpetualTerminalValue(fcfFinal, wacc, cfg)
	if !perpOK {
		r.note(fmt.Sprintf("WACC-growth spread below %.2f, perpetual growth path skipped", cfg.MinWACCGrowthSpread))
	}

	// Implied perpetuity growth sanity check on the exit terminal value.
	impliedBreach := false
	if g, gok := impliedPerpetuityGrowth(fcfFinal, tvExit, wacc); gok {
		r.ImpliedGrowth = ptr(domain.Round4(g))
		if g > cfg.MaxImpliedGrowth {
			impliedBreach = true
			r.note(fmt.Sprintf("implied growth %.1f%% exceeds ceiling %.0f%%", g*100, cfg.MaxImpliedGrowth*100))
		}
	}

	// Present value and the EV-to-equity bridge, per path. The perpetual leg
	// is discarded when the equity bridge leaves it nonpositive (debt exceeds
	// the discounted cash flows).
	pvFCF := presentValue(projected, wacc)
	var ivPerp *float64
	if perpOK {
		v := enterpriseToEquity(pvFCF+discountAt(tvPerp, wacc, cfg.ProjectionYears), totalDebt, totalCash, shares)
		if v > 0 {
			ivPerp = &v
		}
	}

	// A breached exit multiple must never flow through unblended. When no
	// perpetual-growth value survives to blend against, whether the path was
	// skipped or its equity value went nonpositive, the terminal value itself
	// is pulled back to the ceiling-consistent level.
	if impliedBreach && ivPerp == nil && fcfFinal > 0 {
		tvExit = impliedGrowthCeilingTV(fcfFinal, wacc, cfg)
		r.note("exit terminal value clamped to implied-growth ceiling")
	}

	ivExit := enterpriseToEquity(pvFCF+discountAt(tvExit, wacc, cfg.ProjectionYears), totalDebt, totalCash, shares)

	r.ExitMultiple = ptr(domain.Round2(exitMultiple))
	r.ExitMultipleSource = exitSource

	// Blend.
	iv := e.blend(&r, ivExit, ivPerp, rec, impliedBreach)

	// Governor, in order: zero floor, price cap, analyst divergence cap.
	if iv < cfg.IVFloor {
		iv = cfg.IVFloor
		r.Confidence = ConfidenceLow
		r.note("intrinsic value floored at $0")
	}
	if price > 0 && iv > price*cfg.IVCapMultiplier {
		iv = price * cfg.IVCapMultiplier
		r.note(fmt.Sprintf("intrinsic value capped at %.0fx current price", cfg.IVCapMultiplier))
	}
	if target := lo.FromPtr(rec.AnalystTargetPrice); target > 0 &&
		lo.FromPtr(rec.AnalystCount) >= cfg.MinAnalystsForTarget &&
		iv > target*cfg.AnalystTargetMaxDeviation {
		iv = target * cfg.AnalystTargetCapMultiple
		r.Confidence = ConfidenceLow
		r.note(fmt.Sprintf("intrinsic value capped by analyst consensus (target=$%.2f, %d analysts)", target, lo.FromPtr(rec.AnalystCount)))
	}

	// Component values are bounded the same way for display.
	ivExit = max(ivExit, cfg.IVFloor)
	if ivPerp != nil && price > 0 && *ivPerp > price*cfg.IVCapMultiplier {
		capped := price * cfg.IVCapMultiplier
		ivPerp = &capped
	}
	r.IVExitMultiple = ptr(domain.Round2(ivExit))
	if ivPerp != nil {
		r.IVPerpetualGrowth = ptr(domain.Round2(*ivPerp))
	}

	r.IntrinsicValue = ptr(domain.Round2(iv))
	if iv > 0 {
		r.BuyPrice = ptr(domain.Round2(iv * (1 - cfg.MarginOfSafety)))
	} else {
		r.BuyPrice = ptr(0)
	}

	if price > 0 && iv > 0 {
		upside := (iv - price) / price
		r.UpsidePct = ptr(domain.Round4(upside))
		switch {
		case upside > cfg.MarginOfSafety:
			r.Status = StatusUndervalued
		case upside < cfg.SellDownside:
			r.Status = StatusOvervalued
		default:
			r.Status = StatusFairValue
		}
	} else {
		r.Status = StatusInsufficientData
	}
	return r
}

// blend merges the per-path intrinsic values with confidence-tier weights and
// the optional analyst anchor, setting the method tag on the result.
func (e *Engine) blend(r *Result, ivExit float64, ivPerp *float64, rec domain.FundamentalsRecord, impliedBreach bool) float64 {
	cfg := e.cfg

	if ivPerp == nil || ivExit <= 0 {
		if ivPerp != nil && ivExit <= 0 {
			r.Method = MethodPerpOnly
			return *ivPerp
		}
		r.Method = MethodExitOnly
		return ivExit
	}

	wExit := cfg.BlendExitWeights[r.Confidence]
	if impliedBreach {
		// Never let the breached exit value dominate the blend.
		wExit = min(wExit, 0.5)
		r.downgrade(ConfidenceMedium)
	}
	wPerp := 1 - wExit
	r.Method = MethodBlended

	target := lo.FromPtr(rec.AnalystTargetPrice)
	if target > 0 && lo.FromPtr(rec.AnalystCount) >= cfg.MinAnalystsForTarget {
		anchor := cfg.AnalystAnchorWeight
		wExit *= 1 - anchor
		wPerp *= 1 - anchor
		r.Method = MethodBlendedAnalyst
		return wExit*ivExit + wPerp**ivPerp + anchor*target
	}
	return wExit*ivExit + wPerp**ivPerp
}

// baseFCF is the starting point for projection: the trailing figure, its
// derived growth rate, and the confidence the data quality supports.
type baseFCF struct {
	fcf        float64
	growth     float64
	confidence Confidence
	proxyNote  string
}

// resolveBaseFCF picks the trailing FCF or, when history is missing or
// uniformly negative, a revenue or market-cap proxy at an assumed margin.
func (e *Engine) resolveBaseFCF(rec domain.FundamentalsRecord) (baseFCF, bool) {
	cfg := e.cfg
	history := rec.FreeCashFlow

	allNegative := len(history) > 0 && lo.EveryBy(history, func(f float64) bool { return f < 0 })
	if len(history) == 0 || allNegative {
		proxy, ok := e.proxyBaseFCF(rec)
		if ok && allNegative {
			proxy.proxyNote = "all FCF values negative, " + proxy.proxyNote
		}
		return proxy, ok
	}

	b := baseFCF{
		fcf:    history[0],
		growth: fcfGrowthRate(history, rec.Sector, cfg),
	}
	allPositive := lo.EveryBy(history, func(f float64) bool { return f > 0 })
	switch {
	case len(history) >= 3 && allPositive && rec.Beta != nil:
		b.confidence = ConfidenceHigh
	case len(history) < 3 || !allPositive:
		b.confidence = ConfidenceMedium
	default:
		b.confidence = ConfidenceHigh
	}
	return b, true
}

func (e *Engine) proxyBaseFCF(rec domain.FundamentalsRecord) (baseFCF, bool) {
	cfg := e.cfg
	if rec.RevenueGrowth == nil {
		return baseFCF{}, false
	}
	growth := max(*rec.RevenueGrowth*0.5, cfg.ProxyMinGrowth)

	if revenue := lo.FromPtr(rec.TotalRevenue); revenue > 0 {
		return baseFCF{
			fcf:        revenue * cfg.ProxyFCFMargin,
			growth:     growth,
			confidence: ConfidenceLow,
			proxyNote:  "using revenue-based FCF proxy",
		}, true
	}
	if marketCap := lo.FromPtr(rec.MarketCap); marketCap > 0 {
		return baseFCF{
			fcf:        marketCap * cfg.ProxyFCFMargin,
			growth:     growth,
			confidence: ConfidenceLow,
			proxyNote:  "using market-cap-based FCF proxy",
		}, true
	}
	return baseFCF{}, false
}

// resolveBaseEBITDA returns the reported EBITDA or estimates it from revenue
// times margin, then from enterprise value over the EV/EBITDA ratio. Nil when
// nothing usable remains.
func resolveBaseEBITDA(rec domain.FundamentalsRecord, marketCap, totalDebt float64) *float64 {
	if rec.EBITDA != nil && *rec.EBITDA > 0 {
		return rec.EBITDA
	}
	if revenue, margin := lo.FromPtr(rec.TotalRevenue), lo.FromPtr(rec.EBITDAMargin); revenue > 0 && margin > 0 {
		return ptr(revenue * margin)
	}
	if ratio := lo.FromPtr(rec.EVToEBITDA); ratio > 1 && marketCap > 0 {
		return ptr((marketCap + totalDebt) / ratio)
	}
	return nil
}
