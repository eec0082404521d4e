package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/snapshot"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, runs *snapshot.Service, adminAPIKey string) *http.Server {
	handler := NewHandler(runs)
	summary := NewSummaryHandler(runs)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/runs/latest", handler.GetLatestRun)
	mux.HandleFunc("GET /api/v1/runs/{date}", handler.GetRunByDate)
	mux.HandleFunc("GET /api/v1/runs", handler.ListRuns)
	mux.HandleFunc("GET /api/v1/summary", summary.GetSummary)
	mux.HandleFunc("GET /api/v1/summary/{date}", summary.GetSummaryByDate)

	generateHandler := http.HandlerFunc(handler.GenerateRun)
	if adminAPIKey != "" {
		mux.Handle("POST /api/v1/runs/generate", requireAuth(adminAPIKey, generateHandler))
	} else {
		mux.Handle("POST /api/v1/runs/generate", generateHandler)
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
