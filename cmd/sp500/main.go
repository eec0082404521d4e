package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/api"
	"github.com/Milokay/sp500-pipeline/internal/config"
	"github.com/Milokay/sp500-pipeline/internal/database"
	"github.com/Milokay/sp500-pipeline/internal/export"
	sig "github.com/Milokay/sp500-pipeline/internal/signal"
	"github.com/Milokay/sp500-pipeline/internal/snapshot"
	"github.com/Milokay/sp500-pipeline/internal/universe"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
	"github.com/Milokay/sp500-pipeline/internal/worker"
	"github.com/Milokay/sp500-pipeline/internal/yahoo"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "sp500",
		Usage: "S&P 500 valuation and trading-signal pipeline",
		Commands: []*cli.Command{
			analyzeCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Run one analysis pass and write an Excel report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tickers",
				Usage: "comma-separated ticker subset (default: full index)",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "bypass the fundamentals cache",
			},
			&cli.StringFlag{
				Name:  "output",
				Value: "sp500_analysis.xlsx",
				Usage: "path of the Excel report",
			},
			&cli.BoolFlag{
				Name:  "sheets",
				Usage: "also push the run to the configured Google Sheet",
			},
		},
		Action: runAnalyze,
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the API server with scheduled analysis and universe workers",
		Action: runServe,
	}
}

// buildPipeline wires the data and analysis services over the given
// repositories.
func buildPipeline(cfg config.Config, universeRepo universe.Repository, yahooRepo yahoo.Repository, logger *slog.Logger) (*analysis.Service, *universe.Service, error) {
	scraper := universe.NewScraper(cfg.UniverseURL)
	universeSvc := universe.NewService(scraper, universeRepo, cfg.UniverseStale, logger)

	client := yahoo.NewClient(cfg.YahooBaseURL, cfg.YahooRetryMax, cfg.YahooRetryBaseDelay)
	dataSvc := yahoo.NewService(client, yahooRepo, cfg.FundamentalsStale, cfg.YahooRequestDelay, logger)

	engine, err := valuation.NewEngine(valuation.DefaultConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("building valuation engine: %w", err)
	}

	return analysis.NewService(universeSvc, dataSvc, engine, cfg.FetchConcurrency, logger), universeSvc, nil
}

func runAnalyze(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := slog.Default()

	var universeRepo universe.Repository = universe.NewMemRepository()
	var yahooRepo yahoo.Repository = yahoo.NewMemRepository()
	var pool *pgxpool.Pool

	if cfg.DatabaseURL != "" {
		var err error
		pool, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		if err := migrate(ctx, pool); err != nil {
			return err
		}
		universeRepo = universe.NewPgRepository(pool)
		yahooRepo = yahoo.NewPgRepository(pool)
	} else {
		logger.Info("DATABASE_URL not set, running without persistent cache")
	}

	analysisSvc, _, err := buildPipeline(cfg, universeRepo, yahooRepo, logger)
	if err != nil {
		return err
	}

	opts := analysis.Options{ForceRefresh: c.Bool("refresh")}
	if t := c.String("tickers"); t != "" {
		opts.Tickers = strings.Split(t, ",")
	}

	var run *analysis.Run
	if pool != nil {
		snapshotSvc := snapshot.NewService(analysisSvc, snapshot.NewPgRepository(pool))
		run, err = snapshotSvc.Generate(ctx, utcDate(), opts)
	} else {
		run, err = analysisSvc.Run(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	writers := []export.Writer{export.NewExcelWriter(c.String("output"), valuation.DefaultConfig())}
	if c.Bool("sheets") {
		if cfg.SheetsSpreadsheetID == "" || cfg.SheetsCredentialsJSON == "" {
			return fmt.Errorf("--sheets requires SHEETS_SPREADSHEET_ID and SHEETS_CREDENTIALS_JSON")
		}
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		writers = append(writers, sheetsWriter)
	}

	if err := export.NewService(logger, writers...).Export(ctx, run); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	printSummary(run, c.String("output"))
	return nil
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := slog.Default()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for serve")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	if err := migrate(ctx, pool); err != nil {
		return err
	}

	analysisSvc, universeSvc, err := buildPipeline(cfg,
		universe.NewPgRepository(pool), yahoo.NewPgRepository(pool), logger)
	if err != nil {
		return err
	}

	snapshotSvc := snapshot.NewService(analysisSvc, snapshot.NewPgRepository(pool))

	// Export hook: pushes each scheduled run to Google Sheets when configured.
	var hook worker.AfterRunHook
	if cfg.SheetsSpreadsheetID != "" && cfg.SheetsCredentialsJSON != "" {
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		hook = export.NewService(logger, sheetsWriter)
	}

	universeWorker := worker.NewUniverseWorker(universeSvc, cfg.UniverseWorkerInterval)
	go universeWorker.Run(ctx)

	analysisWorker := worker.NewAnalysisWorker(snapshotSvc, cfg.AnalysisWorkerInterval, hook)
	go analysisWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, generate endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, snapshotSvc, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// printSummary writes a console digest of the run: signal distribution, top
// buy-side picks, and any tickers that failed.
func printSummary(run *analysis.Run, outputPath string) {
	fmt.Printf("\nAnalyzed %d tickers (%d failures)\n", len(run.Rows), len(run.Failures))

	counts := run.SignalCounts()
	fmt.Println("\nSignal distribution:")
	for _, s := range []string{sig.StrongBuy, sig.Buy, sig.Hold, sig.Sell, sig.StrongSell} {
		if counts[s] > 0 {
			fmt.Printf("  %-12s %d\n", s, counts[s])
		}
	}

	buys := run.BuyRows(10)
	if len(buys) > 0 {
		fmt.Println("\nTop picks:")
		for _, row := range buys {
			upside := "n/a"
			if row.Valuation.UpsidePct != nil {
				upside = fmt.Sprintf("%+.1f%%", *row.Valuation.UpsidePct*100)
			}
			fmt.Printf("  %-6s conviction %d/5  upside %-8s %s\n",
				row.Ticker, row.Signal.Conviction, upside, row.Signal.Signal)
		}
	}

	if len(run.Failures) > 0 {
		fmt.Println("\nFailed tickers:")
		for _, f := range run.Failures {
			fmt.Printf("  %-6s %s\n", f.Ticker, f.Reason)
		}
	}

	fmt.Printf("\nReport written to %s\n", outputPath)
}
