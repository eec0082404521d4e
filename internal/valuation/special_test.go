package valuation

import (
	"testing"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

func TestValuateBankROEAdjustedPB(t *testing.T) {
	rec := domain.FundamentalsRecord{
		CurrentPrice:   ptr(100.0),
		PriceToBook:    ptr(1.0),
		ReturnOnEquity: ptr(0.12),
		Beta:           ptr(1.0),
	}

	r := valuateBank(rec, DefaultConfig())

	// ke = 0.098, fair P/B = 0.12/0.098 = 1.2245
	// book/share = 100/1.0 = 100, fair value = 122.45
	if r.Method != MethodROEAdjustedPB {
		t.Errorf("expected method %q, got %q", MethodROEAdjustedPB, r.Method)
	}
	if r.IntrinsicValue == nil || *r.IntrinsicValue != 122.45 {
		t.Errorf("expected IV 122.45, got %v", r.IntrinsicValue)
	}
	if r.BuyPrice == nil || *r.BuyPrice != 91.84 {
		t.Errorf("expected buy price 91.84, got %v", r.BuyPrice)
	}
	// pb/fair = 1/1.2245 = 0.8166, between 0.75 and 1.5
	if r.Status != StatusFairValue {
		t.Errorf("expected Fair Value, got %q", r.Status)
	}
	if r.Confidence != ConfidenceMedium {
		t.Errorf("expected Medium confidence, got %q", r.Confidence)
	}
}

func TestValuateBankFairPBClamped(t *testing.T) {
	rec := domain.FundamentalsRecord{
		CurrentPrice:   ptr(100.0),
		PriceToBook:    ptr(1.0),
		ReturnOnEquity: ptr(0.80),
		Beta:           ptr(1.0),
	}

	r := valuateBank(rec, DefaultConfig())

	// Raw fair P/B = 0.80/0.098 = 8.16, clamped to 4.0: IV = 100 * 4.0
	if r.IntrinsicValue == nil || *r.IntrinsicValue != 400.0 {
		t.Errorf("expected IV 400.00, got %v", r.IntrinsicValue)
	}
	// pb/fair = 1/4 = 0.25 < 0.75
	if r.Status != StatusUndervalued {
		t.Errorf("expected Undervalued, got %q", r.Status)
	}
}

func TestValuateBankFallbackFairPB(t *testing.T) {
	// No ROE: fair P/B falls back to 1.5.
	rec := domain.FundamentalsRecord{
		CurrentPrice: ptr(90.0),
		PriceToBook:  ptr(3.0),
	}

	r := valuateBank(rec, DefaultConfig())

	// book/share = 30, fair = 45; pb/fair = 3/1.5 = 2.0 > 1.5
	if r.IntrinsicValue == nil || *r.IntrinsicValue != 45.0 {
		t.Errorf("expected IV 45.00, got %v", r.IntrinsicValue)
	}
	if r.Status != StatusOvervalued {
		t.Errorf("expected Overvalued, got %q", r.Status)
	}
}

func TestValuateBankMissingPB(t *testing.T) {
	r := valuateBank(domain.FundamentalsRecord{CurrentPrice: ptr(50.0)}, DefaultConfig())

	if r.Status != StatusInsufficientData {
		t.Errorf("expected Insufficient Data, got %q", r.Status)
	}
	if r.Confidence != ConfidenceLow {
		t.Errorf("expected Low confidence, got %q", r.Confidence)
	}
	if r.IntrinsicValue != nil {
		t.Errorf("expected nil IV, got %v", *r.IntrinsicValue)
	}
}

func TestValuateREITCheap(t *testing.T) {
	rec := domain.FundamentalsRecord{
		CurrentPrice: ptr(90.0),
		PriceToBook:  ptr(0.9),
	}

	r := valuateREIT(rec, DefaultConfig())

	// book/share = 100, fair = 100 * 1.5 = 150; P/B 0.9 < 1.0
	if r.Method != MethodREITPB {
		t.Errorf("expected method %q, got %q", MethodREITPB, r.Method)
	}
	if r.IntrinsicValue == nil || *r.IntrinsicValue != 150.0 {
		t.Errorf("expected IV 150.00, got %v", r.IntrinsicValue)
	}
	if r.Status != StatusUndervalued {
		t.Errorf("expected Undervalued, got %q", r.Status)
	}
}

func TestValuateREITExpensive(t *testing.T) {
	rec := domain.FundamentalsRecord{
		CurrentPrice: ptr(100.0),
		PriceToBook:  ptr(3.0),
	}

	r := valuateREIT(rec, DefaultConfig())

	if r.Status != StatusOvervalued {
		t.Errorf("expected Overvalued, got %q", r.Status)
	}
}
