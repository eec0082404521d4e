package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/snapshot"
)

// SummaryHandler provides condensed views over stored analysis runs.
type SummaryHandler struct {
	runs *snapshot.Service
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(runs *snapshot.Service) *SummaryHandler {
	return &SummaryHandler{runs: runs}
}

type confidenceCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type buySummary struct {
	Ticker         string   `json:"ticker"`
	CompanyName    string   `json:"companyName,omitempty"`
	Signal         string   `json:"signal"`
	Conviction     int      `json:"conviction"`
	UpsidePct      *float64 `json:"upsidePct"`
	CurrentPrice   *float64 `json:"currentPrice"`
	IntrinsicValue *float64 `json:"intrinsicValue"`
}

type runSummary struct {
	RunDate      time.Time        `json:"runDate"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	Tickers      int              `json:"tickers"`
	Failures     int              `json:"failures"`
	Signals      map[string]int   `json:"signals"`
	Confidence   confidenceCounts `json:"confidence"`
	AvgUpsidePct *float64         `json:"avgUpsidePct"`
	TopBuys      []buySummary     `json:"topBuys"`
}

// GetSummary handles GET /api/v1/summary — summary of the latest run.
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.runs.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no runs found")
			return
		}
		slog.Error("failed to get latest run", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeSummary(w, s)
}

// GetSummaryByDate handles GET /api/v1/summary/{date}.
func (h *SummaryHandler) GetSummaryByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.PathValue("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	s, err := h.runs.GetByDate(r.Context(), date)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found for date")
			return
		}
		slog.Error("failed to get run by date", "date", dateStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeSummary(w, s)
}

func (h *SummaryHandler) writeSummary(w http.ResponseWriter, s *snapshot.Snapshot) {
	run, err := snapshot.Decode(s)
	if err != nil {
		slog.Error("failed to parse run data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to parse run data")
		return
	}
	writeJSON(w, http.StatusOK, summarize(s.RunDate, run))
}

// summarize condenses a full run into the summary payload with the top ten
// buy-side rows.
func summarize(runDate time.Time, run *analysis.Run) runSummary {
	high, medium, low := run.ConfidenceCounts()

	var upsideSum float64
	var upsideCount int
	for _, row := range run.Rows {
		if row.Valuation.UpsidePct != nil {
			upsideSum += *row.Valuation.UpsidePct
			upsideCount++
		}
	}
	var avgUpside *float64
	if upsideCount > 0 {
		v := upsideSum / float64(upsideCount)
		avgUpside = &v
	}

	buys := run.BuyRows(10)
	topBuys := make([]buySummary, 0, len(buys))
	for _, row := range buys {
		topBuys = append(topBuys, buySummary{
			Ticker:         row.Ticker,
			CompanyName:    row.CompanyName,
			Signal:         row.Signal.Signal,
			Conviction:     row.Signal.Conviction,
			UpsidePct:      row.Valuation.UpsidePct,
			CurrentPrice:   row.Fundamentals.CurrentPrice,
			IntrinsicValue: row.Valuation.IntrinsicValue,
		})
	}

	return runSummary{
		RunDate:      runDate,
		GeneratedAt:  run.GeneratedAt,
		Tickers:      len(run.Rows),
		Failures:     len(run.Failures),
		Signals:      run.SignalCounts(),
		Confidence:   confidenceCounts{High: high, Medium: medium, Low: low},
		AvgUpsidePct: avgUpside,
		TopBuys:      topBuys,
	}
}
