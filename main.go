package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FDT12/TN-by-Night-B/api"
	"github.com/FDT12/TN-by-Night-B/config"
	"github.com/FDT12/TN-by-Night-B/models"
	"github.com/FDT12/TN-by-Night-B/monitoring"
	"github.com/FDT12/TN-by-Night-B/scraper/teskerti"
	"github.com/FDT12/TN-by-Night-B/services"
	"github.com/FDT12/TN-by-Night-B/storage"
	"github.com/FDT12/TN-by-Night-B/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	mode := "scrape"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "scrape":
		runScrape(cfg, logger)
	case "import":
		runImport(cfg, logger)
	case "serve":
		runServe(cfg, logger)
	default:
		logger.Error("Unknown mode %q — expected scrape, import or serve", mode)
		os.Exit(2)
	}
}

func runScrape(cfg *config.Config, logger *utils.Logger) {
	logger.Info("=== TN by Night scraper starting ===")
	logger.Info("Config — listing: %s | rate: %dms | nav timeout: %ds | default city: %s",
		cfg.ListingURL, cfg.RateLimitMs, cfg.NavTimeoutSec, cfg.DefaultCity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics()
	if metricsSrv := monitoring.StartServer(cfg.MetricsPort, logger); metricsSrv != nil {
		defer metricsSrv.Close()
	}

	scraper, err := teskerti.New(cfg, logger, metrics)
	if err != nil {
		logger.Error("Scraper setup failed: %v", err)
		os.Exit(1)
	}

	events, err := scraper.Run(ctx)
	if err != nil {
		logger.Error("Crawl failed: %v", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		logger.Warn("No events discovered — nothing to save")
		return
	}

	resolved, errored, pending := 0, 0, 0
	for _, ev := range events {
		switch ev.City {
		case models.CityError:
			errored++
		case models.CityPending:
			pending++
		default:
			resolved++
		}
	}
	logger.Info("Crawl done — discovered: %d | resolved: %d | errored: %d | pending: %d",
		len(events), resolved, errored, pending)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		if err := csvWriter.Write(events); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Saved %d events to %s", len(events), csvWriter.Path())
		}
		csvWriter.Close()
	}

	// An interrupted run still hands its resolved events to the sink;
	// pending ones are left for the next run.
	sinkEvents := events
	if pending > 0 {
		sinkEvents = make([]*models.Event, 0, len(events))
		for _, ev := range events {
			if ev.City != models.CityPending {
				sinkEvents = append(sinkEvents, ev)
			}
		}
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Events are preserved in the CSV export — run 'import' once the database is back")
		os.Exit(1)
	}
	defer pgWriter.Close()

	inserted, updated, err := pgWriter.UpsertEvents(sinkEvents)
	if err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Stored events — %d inserted, %d updated", inserted, updated)

	if cache := storage.NewRedisCache(cfg.RedisAddr, cfg.HeatmapCacheTTLSec); cache != nil {
		cache.InvalidateHeatmap(ctx)
	}

	approved, err := pgWriter.FetchByStatus(models.StatusApproved)
	if err != nil {
		logger.Error("Failed to fetch events for the density report: %v", err)
		approved = sinkEvents
	}
	services.PrintHeatmapReport(services.BuildHeatmap(approved), services.Summarize(approved))
}

func runImport(cfg *config.Config, logger *utils.Logger) {
	path := cfg.CSVOutputPath
	if len(os.Args) > 2 {
		path = os.Args[2]
	}

	events, err := storage.ReadEvents(path)
	if err != nil {
		logger.Error("CSV import failed: %v", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		logger.Warn("No events found in %s", path)
		return
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer pgWriter.Close()

	inserted, updated, err := pgWriter.UpsertEvents(events)
	if err != nil {
		logger.Error("Import failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Imported %s — %d inserted, %d updated", path, inserted, updated)
}

func runServe(cfg *config.Config, logger *utils.Logger) {
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer pgWriter.Close()

	cache := storage.NewRedisCache(cfg.RedisAddr, cfg.HeatmapCacheTTLSec)
	if cache == nil {
		logger.Info("Heatmap cache disabled (REDIS_ADDR not set)")
	}

	server := api.NewServer(cfg, pgWriter, cache, monitoring.NewMetrics(), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
