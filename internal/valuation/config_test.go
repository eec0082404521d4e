package valuation

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsZeroProjectionYears(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProjectionYears = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero projection years")
	}
}

func TestValidateRejectsInvertedWACCBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WACCFloor = 0.20
	cfg.WACCCap = 0.06
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted WACC bounds")
	}
}

func TestValidateRejectsMissingBlendWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlendExitWeights = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing blend weights")
	}
}

func TestValidateRejectsFloorBelowImpliedCeiling(t *testing.T) {
	// The ceiling-clamp fallback divides by WACCFloor - MaxImpliedGrowth.
	cfg := DefaultConfig()
	cfg.MaxImpliedGrowth = 0.07
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when WACC floor does not exceed implied growth ceiling")
	}
}

func TestValidateRejectsBlendWeightOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlendExitWeights[ConfidenceHigh] = 1.2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for blend weight above 1")
	}
}
