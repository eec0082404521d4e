package valuation

import (
	"testing"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

func TestClassifyStandardSectors(t *testing.T) {
	for _, sector := range []string{"Technology", "Healthcare", "Energy", ""} {
		rec := domain.FundamentalsRecord{Sector: sector}
		if got := classify(rec, DefaultConfig()); got != classStandard {
			t.Errorf("sector %q: expected standard, got %v", sector, got)
		}
	}
}

func TestClassifyREIT(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Real Estate"}
	if got := classify(rec, DefaultConfig()); got != classREIT {
		t.Errorf("expected REIT class, got %v", got)
	}
}

func TestClassifyTraditionalBank(t *testing.T) {
	rec := domain.FundamentalsRecord{
		Ticker:         "JPM",
		Sector:         "Financial Services",
		ReturnOnEquity: ptr(0.15),
		PriceToBook:    ptr(1.8),
	}
	if got := classify(rec, DefaultConfig()); got != classBank {
		t.Errorf("expected bank class, got %v", got)
	}
}

func TestClassifyAssetLightTickerOverride(t *testing.T) {
	// Payment networks are pinned to standard DCF regardless of ratios.
	rec := domain.FundamentalsRecord{Ticker: "V", Sector: "Financial Services"}
	if got := classify(rec, DefaultConfig()); got != classStandard {
		t.Errorf("V: expected standard class, got %v", got)
	}
}

func TestClassifyAssetLightHeuristic(t *testing.T) {
	rec := domain.FundamentalsRecord{
		Ticker:         "XYZ",
		Sector:         "Financial Services",
		ReturnOnEquity: ptr(0.30),
		PriceToBook:    ptr(8.0),
	}
	if got := classify(rec, DefaultConfig()); got != classStandard {
		t.Errorf("high ROE + high P/B: expected standard class, got %v", got)
	}
}
