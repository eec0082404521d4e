package valuation

import (
	"math"
	"testing"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCappedBetaDefaultsToOne(t *testing.T) {
	if got := cappedBeta(nil, DefaultConfig()); got != 1.0 {
		t.Errorf("missing beta: expected 1.0, got %v", got)
	}
}

func TestCappedBetaFloorAndCap(t *testing.T) {
	cfg := DefaultConfig()
	if got := cappedBeta(ptr(0.2), cfg); got != 0.5 {
		t.Errorf("beta 0.2: expected floor 0.5, got %v", got)
	}
	if got := cappedBeta(ptr(3.1), cfg); got != 2.5 {
		t.Errorf("beta 3.1: expected cap 2.5, got %v", got)
	}
}

func TestResolveWACCAllEquity(t *testing.T) {
	rec := domain.FundamentalsRecord{
		Beta:      ptr(1.0),
		MarketCap: ptr(1000.0),
	}

	// ke = 0.043 + 1.0*0.055 = 0.098, no debt so WACC = ke
	got := resolveWACC(rec, DefaultConfig())
	if !almost(got, 0.098) {
		t.Errorf("expected 0.098, got %v", got)
	}
}

func TestResolveWACCWithDebt(t *testing.T) {
	rec := domain.FundamentalsRecord{
		Beta:            ptr(1.0),
		MarketCap:       ptr(750.0),
		TotalDebt:       ptr(250.0),
		InterestExpense: ptr(20.0),
	}

	// ke = 0.098
	// kd pretax = 20/250 = 0.08, after tax = 0.08*0.79 = 0.0632
	// WACC = 0.75*0.098 + 0.25*0.0632 = 0.0735 + 0.0158 = 0.0893
	got := resolveWACC(rec, DefaultConfig())
	if !almost(got, 0.0893) {
		t.Errorf("expected 0.0893, got %v", got)
	}
}

func TestResolveWACCFallbackCostOfDebt(t *testing.T) {
	// Debt present but no interest expense: kd = Rf + 150bps = 0.058
	rec := domain.FundamentalsRecord{
		Beta:      ptr(1.0),
		MarketCap: ptr(500.0),
		TotalDebt: ptr(500.0),
	}

	// WACC = 0.5*0.098 + 0.5*0.058 = 0.078
	got := resolveWACC(rec, DefaultConfig())
	if !almost(got, 0.078) {
		t.Errorf("expected 0.078, got %v", got)
	}
}

func TestResolveWACCDefaultWithoutMarketCap(t *testing.T) {
	got := resolveWACC(domain.FundamentalsRecord{}, DefaultConfig())
	if got != 0.10 {
		t.Errorf("expected default WACC 0.10, got %v", got)
	}
}

func TestResolveWACCIndustryFloor(t *testing.T) {
	rec := domain.FundamentalsRecord{
		Industry:  "Airlines",
		Beta:      ptr(0.6),
		MarketCap: ptr(1000.0),
	}

	// Unfloored WACC = 0.043 + 0.6*0.055 = 0.076, Airlines floor is 0.14
	got := resolveWACC(rec, DefaultConfig())
	if got != 0.14 {
		t.Errorf("expected Airlines floor 0.14, got %v", got)
	}
}

func TestResolveWACCWithinGlobalBounds(t *testing.T) {
	cfg := DefaultConfig()
	for _, beta := range []float64{-5, 0, 0.5, 1, 2.5, 10} {
		rec := domain.FundamentalsRecord{Beta: ptr(beta), MarketCap: ptr(1000.0)}
		got := resolveWACC(rec, cfg)
		if got < cfg.WACCFloor || got > cfg.WACCCap {
			t.Errorf("beta %v: WACC %v outside [%v, %v]", beta, got, cfg.WACCFloor, cfg.WACCCap)
		}
	}
}
