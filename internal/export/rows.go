package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/signal"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
)

// signalRank orders dashboard rows strongest-buy first.
var signalRank = map[string]int{
	signal.StrongBuy:  0,
	signal.Buy:        1,
	signal.Hold:       2,
	signal.Sell:       3,
	signal.StrongSell: 4,
}

func baseSignal(s string) string {
	return strings.TrimSuffix(s, " (Low Confidence)")
}

// dashboardSorted orders rows by signal strength, then conviction.
func dashboardSorted(rows []analysis.Row) []analysis.Row {
	sorted := append([]analysis.Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := signalRank[baseSignal(sorted[i].Signal.Signal)], signalRank[baseSignal(sorted[j].Signal.Signal)]
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Signal.Conviction > sorted[j].Signal.Conviction
	})
	return sorted
}

var dashboardHeaders = []string{
	"Ticker", "Company", "Sector", "Price", "Intrinsic Value", "Upside %", "Buy Price",
	"Lower Band", "Upper Band", "Band Position", "RSI", "Signal", "Conviction", "Rationale",
	"P/B", "EPS", "ROE", "EBITDA %",
	"IV (Exit Mult)", "IV (Perp Growth)", "Exit Multiple", "Multiple Source", "Implied g", "WACC", "FCF Growth",
	"Method", "Confidence", "Rel Status", "Sector %ile",
	"Return 1M", "Return 6M", "Return 1Y", "Return 3Y", "Std Dev 52W", "Sharpe 52W",
}

// dashboardRow flattens one analysis row into dashboard cell values; missing
// numbers render as N/A.
func dashboardRow(r analysis.Row) []any {
	return []any{
		r.Ticker,
		orNA(r.CompanyName),
		orNA(r.Sector),
		numOrNA(r.Fundamentals.CurrentPrice),
		numOrNA(r.Valuation.IntrinsicValue),
		numOrNA(r.Valuation.UpsidePct),
		numOrNA(r.Valuation.BuyPrice),
		numOrNA(r.Technicals.LowerBand),
		numOrNA(r.Technicals.UpperBand),
		r.Technicals.BandPosition,
		r.Technicals.RSI,
		r.Signal.Signal,
		r.Signal.Conviction,
		r.Signal.Rationale,
		numOrNA(r.Fundamentals.PriceToBook),
		numOrNA(r.Fundamentals.TrailingEPS),
		numOrNA(r.Fundamentals.ReturnOnEquity),
		numOrNA(r.Fundamentals.EBITDAMargin),
		numOrNA(r.Valuation.IVExitMultiple),
		numOrNA(r.Valuation.IVPerpetualGrowth),
		numOrNA(r.Valuation.ExitMultiple),
		orNA(r.Valuation.ExitMultipleSource),
		numOrNA(r.Valuation.ImpliedGrowth),
		numOrNA(r.Valuation.WACC),
		numOrNA(r.Valuation.FCFGrowthRate),
		r.Valuation.Method,
		string(r.Valuation.Confidence),
		orNA(r.Relative.Status),
		numOrNA(r.Relative.SectorPercentile),
		numOrNA(r.Technicals.Return1M),
		numOrNA(r.Technicals.Return6M),
		numOrNA(r.Technicals.Return1Y),
		numOrNA(r.Technicals.Return3Y),
		numOrNA(r.Technicals.StdDev52W),
		numOrNA(r.Technicals.Sharpe52W),
	}
}

var sectorSummaryHeaders = []string{"Sector", "# Stocks", "Avg Upside %", "# Undervalued", "# Overvalued", "Avg RSI"}

type sectorAgg struct {
	count       int
	upsideSum   float64
	upsideCount int
	undervalued int
	overvalued  int
	rsiSum      float64
	rsiCount    int
}

// sectorSummaryRows aggregates per-sector breadth stats. Rows with upside
// above 15% count as undervalued, below -10% as overvalued.
func sectorSummaryRows(rows []analysis.Row) [][]any {
	bySector := make(map[string]*sectorAgg)
	for _, r := range rows {
		sector := r.Sector
		if sector == "" {
			sector = "Unknown"
		}
		agg, ok := bySector[sector]
		if !ok {
			agg = &sectorAgg{}
			bySector[sector] = agg
		}
		agg.count++
		if up := r.Valuation.UpsidePct; up != nil {
			agg.upsideSum += *up
			agg.upsideCount++
			if *up > 0.15 {
				agg.undervalued++
			} else if *up < -0.10 {
				agg.overvalued++
			}
		}
		agg.rsiSum += r.Technicals.RSI
		agg.rsiCount++
	}

	sectors := lo.Keys(bySector)
	sort.Strings(sectors)

	out := make([][]any, 0, len(sectors))
	for _, sector := range sectors {
		agg := bySector[sector]
		avgUpside := any("N/A")
		if agg.upsideCount > 0 {
			avgUpside = agg.upsideSum / float64(agg.upsideCount)
		}
		avgRSI := any("N/A")
		if agg.rsiCount > 0 {
			avgRSI = agg.rsiSum / float64(agg.rsiCount)
		}
		out = append(out, []any{sector, agg.count, avgUpside, agg.undervalued, agg.overvalued, avgRSI})
	}
	return out
}

var dataQualityHeaders = []string{"Ticker", "Confidence", "Missing Fields", "Last Updated", "Notes"}

// dataQualityRow lists the holes behind each ticker's confidence tier.
func dataQualityRow(r analysis.Row) []any {
	var missing []string
	check := func(name string, v *float64) {
		if v == nil {
			missing = append(missing, name)
		}
	}
	check("current_price", r.Fundamentals.CurrentPrice)
	check("market_cap", r.Fundamentals.MarketCap)
	check("intrinsic_value", r.Valuation.IntrinsicValue)
	check("upside_pct", r.Valuation.UpsidePct)
	if r.Sector == "" {
		missing = append(missing, "sector")
	}
	if len(r.Fundamentals.FreeCashFlow) == 0 {
		missing = append(missing, "free_cash_flow")
	}
	missingStr := "None"
	if len(missing) > 0 {
		missingStr = strings.Join(missing, ", ")
	}

	updated := "N/A"
	if !r.Fundamentals.FetchedAt.IsZero() {
		updated = r.Fundamentals.FetchedAt.UTC().Format("2006-01-02 15:04:05")
	}

	var notes []string
	if len(r.Valuation.Notes) > 0 {
		notes = append(notes, "DCF: "+strings.Join(r.Valuation.Notes, "; "))
	}
	if r.Relative.Note != "" {
		notes = append(notes, "Relative: "+r.Relative.Note)
	}
	notesStr := "None"
	if len(notes) > 0 {
		notesStr = strings.Join(notes, " | ")
	}

	return []any{r.Ticker, string(r.Valuation.Confidence), missingStr, updated, notesStr}
}

var assumptionsHeaders = []string{"Parameter", "Value", "Description"}

// assumptionsRows documents the standing model policy so the report is
// self-describing.
func assumptionsRows(cfg valuation.Config, generatedAt time.Time) [][]any {
	rows := [][]any{
		{"Report Generated", generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"), "Timestamp of report generation"},
		{"", "", ""},
		{"Risk-Free Rate", pct(cfg.RiskFreeRate), "Used in WACC calculation"},
		{"Equity Risk Premium", pct(cfg.EquityRiskPremium), "Market risk premium for WACC"},
		{"Default WACC", pct(cfg.DefaultWACC), "Fallback discount rate"},
		{"Projection Years", fmt.Sprintf("%d", cfg.ProjectionYears), "Cash flow projection horizon"},
		{"Margin of Safety", pct(cfg.MarginOfSafety), "Safety margin for buy price calculation"},
		{"", "", ""},
		{"--- Terminal Value ---", "", ""},
		{"Primary Method", "Exit Multiple (EV/EBITDA)", "Sector-specific EV/EBITDA multiples"},
		{"Secondary Method", "Perpetual Growth (Gordon Growth)", "Blended with the exit multiple path"},
		{"Terminal Growth Rate", pct(cfg.TerminalGrowthRate), "Perpetual growth rate"},
		{"Default Exit Multiple", fmt.Sprintf("%.1fx", cfg.DefaultExitMultiple), "Fallback when sector data unavailable"},
		{"Max Implied Growth", pct(cfg.MaxImpliedGrowth), "GDP ceiling for the implied perpetuity growth check"},
		{"", "", ""},
		{"--- Sector Exit Multiples ---", "", ""},
	}

	sectors := lo.Keys(cfg.SectorExitMultiples)
	sort.Strings(sectors)
	for _, sector := range sectors {
		rows = append(rows, []any{
			"  " + sector,
			fmt.Sprintf("%.1fx", cfg.SectorExitMultiples[sector]),
			"Default EV/EBITDA if peer median unavailable",
		})
	}

	rows = append(rows,
		[]any{"", "", ""},
		[]any{"--- Technical Analysis ---", "", ""},
		[]any{"Bollinger Window", "20", "Days for Bollinger Bands calculation"},
		[]any{"Bollinger Std Dev", "2.0", "Standard deviations for bands"},
		[]any{"RSI Period", "14", "Period for RSI calculation"},
	)
	return rows
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func orNA(s string) any {
	if s == "" {
		return "N/A"
	}
	return s
}

func numOrNA(v *float64) any {
	if v == nil {
		return "N/A"
	}
	return *v
}
