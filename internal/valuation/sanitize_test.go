package valuation

import (
	"math"
	"strings"
	"testing"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

func TestSanitizeDropsImplausiblePriceToBook(t *testing.T) {
	rec := domain.FundamentalsRecord{PriceToBook: ptr(0.001)}

	got, notes := Sanitize(rec, DefaultConfig())

	if got.PriceToBook != nil {
		t.Errorf("P/B 0.001 should be dropped, got %v", *got.PriceToBook)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "P/B") {
		t.Errorf("expected one P/B note, got %v", notes)
	}
}

func TestSanitizeKeepsPlausiblePriceToBook(t *testing.T) {
	rec := domain.FundamentalsRecord{PriceToBook: ptr(3.2)}

	got, notes := Sanitize(rec, DefaultConfig())

	if got.PriceToBook == nil || *got.PriceToBook != 3.2 {
		t.Errorf("P/B 3.2 should survive, got %v", got.PriceToBook)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes, got %v", notes)
	}
}

func TestSanitizeDropsOutOfWindowEVToEBITDA(t *testing.T) {
	rec := domain.FundamentalsRecord{EVToEBITDA: ptr(150.0)}

	got, notes := Sanitize(rec, DefaultConfig())

	if got.EVToEBITDA != nil {
		t.Errorf("EV/EBITDA 150 should be dropped, got %v", *got.EVToEBITDA)
	}
	if len(notes) != 1 {
		t.Errorf("expected one note, got %v", notes)
	}
}

func TestSanitizeNormalizesInterestExpenseSign(t *testing.T) {
	rec := domain.FundamentalsRecord{InterestExpense: ptr(-50.0)}

	got, _ := Sanitize(rec, DefaultConfig())

	if got.InterestExpense == nil || *got.InterestExpense != 50.0 {
		t.Errorf("interest expense -50 should become 50, got %v", got.InterestExpense)
	}
}

func TestSanitizeDropsZeroInterestExpense(t *testing.T) {
	rec := domain.FundamentalsRecord{InterestExpense: ptr(0.0)}

	got, _ := Sanitize(rec, DefaultConfig())

	if got.InterestExpense != nil {
		t.Errorf("zero interest expense should be dropped, got %v", *got.InterestExpense)
	}
}

func TestSanitizeScrubsNaN(t *testing.T) {
	rec := domain.FundamentalsRecord{
		CurrentPrice: ptr(math.NaN()),
		MarketCap:    ptr(math.Inf(1)),
		FreeCashFlow: []float64{100, math.NaN(), 90},
	}

	got, _ := Sanitize(rec, DefaultConfig())

	if got.CurrentPrice != nil {
		t.Error("NaN price should be dropped")
	}
	if got.MarketCap != nil {
		t.Error("Inf market cap should be dropped")
	}
	if len(got.FreeCashFlow) != 2 || got.FreeCashFlow[0] != 100 || got.FreeCashFlow[1] != 90 {
		t.Errorf("FCF history should keep only finite values, got %v", got.FreeCashFlow)
	}
}
