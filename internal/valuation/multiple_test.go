package valuation

import (
	"testing"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

func TestExitMultiplePeerMedianWins(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Technology", EVToEBITDA: ptr(22.0)}

	got, source := resolveExitMultiple(rec, ptr(13.5), DefaultConfig())

	if got != 13.5 {
		t.Errorf("expected peer median 13.5, got %v", got)
	}
	if source != SourcePeerMedian {
		t.Errorf("expected source %q, got %q", SourcePeerMedian, source)
	}
}

func TestExitMultipleBlendedWithSector(t *testing.T) {
	// No peer median, no industry entry: own 22 blended with sector default 20
	rec := domain.FundamentalsRecord{Sector: "Technology", EVToEBITDA: ptr(22.0)}

	got, source := resolveExitMultiple(rec, nil, DefaultConfig())

	if got != 21.0 {
		t.Errorf("expected (22+20)/2 = 21.0, got %v", got)
	}
	if source != SourceBlendedSector {
		t.Errorf("expected source %q, got %q", SourceBlendedSector, source)
	}
}

func TestExitMultipleBlendedIndustryBeatsSector(t *testing.T) {
	rec := domain.FundamentalsRecord{
		Sector:     "Industrials",
		Industry:   "Aerospace & Defense",
		EVToEBITDA: ptr(13.0),
	}

	// Industry default 15 takes precedence over sector default 12
	got, source := resolveExitMultiple(rec, nil, DefaultConfig())

	if got != 14.0 {
		t.Errorf("expected (13+15)/2 = 14.0, got %v", got)
	}
	if source != SourceBlendedIndustry {
		t.Errorf("expected source %q, got %q", SourceBlendedIndustry, source)
	}
}

func TestExitMultipleAirlinesIndustryDefaultNotClampedUp(t *testing.T) {
	// Airlines carries a 6.0 floor override, so the 6.0 industry default
	// survives instead of being pulled up to the global floor of 8.0.
	rec := domain.FundamentalsRecord{Sector: "Industrials", Industry: "Airlines"}

	got, source := resolveExitMultiple(rec, nil, DefaultConfig())

	if got != 6.0 {
		t.Errorf("expected 6.0, got %v", got)
	}
	if source != SourceIndustryDefault {
		t.Errorf("expected source %q, got %q", SourceIndustryDefault, source)
	}
}

func TestExitMultipleSectorDefault(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Energy"}

	got, source := resolveExitMultiple(rec, nil, DefaultConfig())

	if got != 8.0 {
		t.Errorf("expected Energy default 8.0, got %v", got)
	}
	if source != SourceSectorDefault {
		t.Errorf("expected source %q, got %q", SourceSectorDefault, source)
	}
}

func TestExitMultipleGlobalDefault(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Unmapped"}

	got, source := resolveExitMultiple(rec, nil, DefaultConfig())

	if got != 12.0 {
		t.Errorf("expected global default 12.0, got %v", got)
	}
	if source != SourceGlobalDefault {
		t.Errorf("expected source %q, got %q", SourceGlobalDefault, source)
	}
}

func TestExitMultipleClampedToCap(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Technology"}

	got, _ := resolveExitMultiple(rec, ptr(40.0), DefaultConfig())

	if got != 25.0 {
		t.Errorf("expected cap 25.0, got %v", got)
	}
}

func TestExitMultipleClampedToFloor(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Technology"}

	got, _ := resolveExitMultiple(rec, ptr(3.0), DefaultConfig())

	if got != 8.0 {
		t.Errorf("expected global floor 8.0, got %v", got)
	}
}

func TestRevenueMultipleCompanyOwnClamped(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Technology", EVToRevenue: ptr(12.0)}

	got, source := resolveRevenueMultiple(rec, DefaultConfig())

	if got != 10.0 {
		t.Errorf("expected cap 10.0, got %v", got)
	}
	if source != SourceCompanyRevenue {
		t.Errorf("expected source %q, got %q", SourceCompanyRevenue, source)
	}
}

func TestRevenueMultipleIndustryDefault(t *testing.T) {
	rec := domain.FundamentalsRecord{Sector: "Healthcare", Industry: "Biotechnology"}

	got, source := resolveRevenueMultiple(rec, DefaultConfig())

	if got != 6.0 {
		t.Errorf("expected Biotechnology default 6.0, got %v", got)
	}
	if source != SourceIndustryRevenue {
		t.Errorf("expected source %q, got %q", SourceIndustryRevenue, source)
	}
}

func TestRevenueMultipleSectorThenGlobal(t *testing.T) {
	cfg := DefaultConfig()

	got, source := resolveRevenueMultiple(domain.FundamentalsRecord{Sector: "Energy"}, cfg)
	if got != 1.0 || source != SourceSectorRevenue {
		t.Errorf("Energy: expected 1.0/%q, got %v/%q", SourceSectorRevenue, got, source)
	}

	got, source = resolveRevenueMultiple(domain.FundamentalsRecord{Sector: "Unmapped"}, cfg)
	if got != 2.0 || source != SourceGlobalRevenueDefault {
		t.Errorf("unmapped: expected 2.0/%q, got %v/%q", SourceGlobalRevenueDefault, got, source)
	}
}
