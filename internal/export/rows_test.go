package export

import (
	"strings"
	"testing"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/relative"
	"github.com/Milokay/sp500-pipeline/internal/signal"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
)

func ptrf(v float64) *float64 { return &v }

func sampleRow(ticker, sector, sig string, conviction int, upside *float64) analysis.Row {
	row := analysis.Row{
		Ticker:      ticker,
		CompanyName: ticker + " Corp",
		Sector:      sector,
		Signal:      signal.Signal{Signal: sig, Conviction: conviction, Rationale: sig + ": test"},
		Valuation: valuation.Result{
			UpsidePct:  upside,
			Method:     valuation.MethodBlended,
			Confidence: valuation.ConfidenceMedium,
		},
		Relative: relative.Result{Status: relative.StatusInLine},
	}
	row.Technicals.RSI = 50
	row.Technicals.BandPosition = "N/A"
	return row
}

func TestDashboardSorted(t *testing.T) {
	rows := []analysis.Row{
		sampleRow("AAA", "Technology", signal.Hold, 3, nil),
		sampleRow("BBB", "Technology", signal.StrongBuy+" (Low Confidence)", 4, ptrf(0.4)),
		sampleRow("CCC", "Technology", signal.Buy, 5, ptrf(0.3)),
		sampleRow("DDD", "Technology", signal.StrongBuy, 5, ptrf(0.5)),
		sampleRow("EEE", "Technology", signal.StrongSell, 4, ptrf(-0.3)),
	}

	sorted := dashboardSorted(rows)
	want := []string{"DDD", "BBB", "CCC", "AAA", "EEE"}
	for i, ticker := range want {
		if sorted[i].Ticker != ticker {
			t.Errorf("position %d = %s, want %s", i, sorted[i].Ticker, ticker)
		}
	}
}

func TestDashboardRowShape(t *testing.T) {
	row := sampleRow("AAPL", "Technology", signal.Buy, 4, ptrf(0.25))
	row.Fundamentals.CurrentPrice = ptrf(190.0)

	cells := dashboardRow(row)
	if len(cells) != len(dashboardHeaders) {
		t.Fatalf("cells = %d, headers = %d", len(cells), len(dashboardHeaders))
	}
	if cells[0] != "AAPL" {
		t.Errorf("ticker cell = %v", cells[0])
	}
	if cells[3] != 190.0 {
		t.Errorf("price cell = %v, want 190.0", cells[3])
	}
	// Intrinsic value missing: rendered as N/A, not zero
	if cells[4] != "N/A" {
		t.Errorf("intrinsic value cell = %v, want N/A", cells[4])
	}
}

func TestSectorSummaryRows(t *testing.T) {
	rows := []analysis.Row{
		sampleRow("AAA", "Technology", signal.Buy, 4, ptrf(0.30)),  // undervalued
		sampleRow("BBB", "Technology", signal.Sell, 2, ptrf(-0.20)), // overvalued
		sampleRow("CCC", "Technology", signal.Hold, 3, ptrf(0.05)),  // neither
		sampleRow("DDD", "Energy", signal.Hold, 3, nil),
	}

	summary := sectorSummaryRows(rows)
	if len(summary) != 2 {
		t.Fatalf("sectors = %d, want 2", len(summary))
	}
	// Sorted alphabetically: Energy, Technology
	if summary[0][0] != "Energy" || summary[1][0] != "Technology" {
		t.Fatalf("sector order = %v, %v", summary[0][0], summary[1][0])
	}

	tech := summary[1]
	if tech[1] != 3 {
		t.Errorf("tech count = %v, want 3", tech[1])
	}
	avg, ok := tech[2].(float64)
	if !ok || avg < 0.049 || avg > 0.051 {
		t.Errorf("tech avg upside = %v, want 0.05", tech[2])
	}
	if tech[3] != 1 || tech[4] != 1 {
		t.Errorf("tech under/over = %v/%v, want 1/1", tech[3], tech[4])
	}

	energy := summary[0]
	if energy[2] != "N/A" {
		t.Errorf("energy avg upside = %v, want N/A with no upside data", energy[2])
	}
}

func TestDataQualityRow(t *testing.T) {
	row := sampleRow("XYZ", "Technology", signal.Hold, 3, nil)
	row.Fundamentals.CurrentPrice = ptrf(100.0)
	row.Fundamentals.FetchedAt = time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	row.Valuation.Notes = []string{"exit multiple clamped", "IV capped"}
	row.Relative.Note = "Only 2 tickers in Technology sector"

	cells := dataQualityRow(row)
	if cells[0] != "XYZ" {
		t.Errorf("ticker = %v", cells[0])
	}

	missing, _ := cells[2].(string)
	for _, field := range []string{"market_cap", "intrinsic_value", "free_cash_flow"} {
		if !strings.Contains(missing, field) {
			t.Errorf("missing fields %q lacks %s", missing, field)
		}
	}
	if strings.Contains(missing, "current_price") {
		t.Errorf("missing fields %q should not include current_price", missing)
	}

	if cells[3] != "2026-08-29 10:30:00" {
		t.Errorf("last updated = %v", cells[3])
	}

	notes, _ := cells[4].(string)
	if !strings.Contains(notes, "DCF: exit multiple clamped; IV capped") {
		t.Errorf("notes = %q", notes)
	}
	if !strings.Contains(notes, "Relative: Only 2 tickers") {
		t.Errorf("notes = %q", notes)
	}
}

func TestDataQualityRowClean(t *testing.T) {
	row := sampleRow("OK", "Technology", signal.Hold, 3, ptrf(0.1))
	row.Fundamentals.CurrentPrice = ptrf(100.0)
	row.Fundamentals.MarketCap = ptrf(1000.0)
	row.Valuation.IntrinsicValue = ptrf(110.0)
	row.Fundamentals.FreeCashFlow = []float64{10}

	cells := dataQualityRow(row)
	if cells[2] != "None" {
		t.Errorf("missing = %v, want None", cells[2])
	}
	if cells[4] != "None" {
		t.Errorf("notes = %v, want None", cells[4])
	}
}

func TestAssumptionsRows(t *testing.T) {
	cfg := valuation.DefaultConfig()
	rows := assumptionsRows(cfg, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))

	var foundRiskFree, foundTech bool
	for _, row := range rows {
		switch row[0] {
		case "Risk-Free Rate":
			foundRiskFree = true
			if row[1] != "4.3%" {
				t.Errorf("risk-free rate = %v, want 4.3%%", row[1])
			}
		case "  Technology":
			foundTech = true
			if row[1] != "20.0x" {
				t.Errorf("Technology multiple = %v, want 20.0x", row[1])
			}
		}
	}
	if !foundRiskFree {
		t.Error("Risk-Free Rate row missing")
	}
	if !foundTech {
		t.Error("Technology sector multiple row missing")
	}
}

func TestBuildHistoryRow(t *testing.T) {
	run := &analysis.Run{
		GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Rows: []analysis.Row{
			sampleRow("A", "Technology", signal.Buy, 4, ptrf(0.30)),
			sampleRow("B", "Technology", signal.StrongBuy+" (Low Confidence)", 4, ptrf(0.50)),
			sampleRow("C", "Technology", signal.Hold, 3, nil),
		},
		Failures: []analysis.Failure{{Ticker: "BAD", Reason: "no data"}},
	}

	row := buildHistoryRow(run)
	if len(row) != len(historyHeaders) {
		t.Fatalf("row = %d cells, headers = %d", len(row), len(historyHeaders))
	}
	if row[0] != "29.08.2026" {
		t.Errorf("date = %v", row[0])
	}
	if row[1] != 3 || row[2] != 1 {
		t.Errorf("tickers/failures = %v/%v, want 3/1", row[1], row[2])
	}
	if row[3] != 1 || row[4] != 1 || row[5] != 1 {
		t.Errorf("strong buy/buy/hold = %v/%v/%v, want 1/1/1", row[3], row[4], row[5])
	}
	avg, ok := row[8].(float64)
	if !ok || avg < 0.399 || avg > 0.401 {
		t.Errorf("avg upside = %v, want 0.40", row[8])
	}
}
