package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/snapshot"
)

// Handler provides HTTP endpoints for stored analysis runs.
type Handler struct {
	runs *snapshot.Service
}

// NewHandler creates a new API handler.
func NewHandler(runs *snapshot.Service) *Handler {
	return &Handler{runs: runs}
}

// GetLatestRun handles GET /api/v1/runs/latest.
func (h *Handler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, s)
}

// GetRunByDate handles GET /api/v1/runs/{date}.
func (h *Handler) GetRunByDate(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, s)
}

// ListRuns handles GET /api/v1/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 365
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GenerateRun handles POST /api/v1/runs/generate. Optional query parameters:
// tickers (comma-separated subset) and refresh (bypass the fundamentals cache).
func (h *Handler) GenerateRun(w http.ResponseWriter, r *http.Request) {
	opts := analysis.Options{
		ForceRefresh: r.URL.Query().Get("refresh") == "true",
	}
	if t := r.URL.Query().Get("tickers"); t != "" {
		opts.Tickers = strings.Split(t, ",")
	}

	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	run, err := h.runs.Generate(r.Context(), date, opts)
	if err != nil {
		slog.Error("failed to generate run", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
