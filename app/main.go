package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoopwire/hoopwire/app/api"
	"github.com/hoopwire/hoopwire/app/cfg"
	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/news"
	"github.com/hoopwire/hoopwire/app/scraper"
	"github.com/hoopwire/hoopwire/app/tasks"
	"github.com/hoopwire/hoopwire/app/translator"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Hoopwire server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	newsRepo := database.NewNewsRepository(db)
	teamRepo := database.NewTeamRepository(db)

	seeded, err := database.SeedTeams(teamRepo)
	if err != nil {
		slog.Error("Failed to seed team glossary", "error", err)
		os.Exit(1)
	}
	slog.Info("Team glossary synchronized", "teams", seeded)

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
	}
	newsScraper := scraper.NewScraper(httpClient, news.Feeds, appCfg.UserAgent)
	persister := scraper.NewPersister(newsRepo)

	if appCfg.RunOnce {
		runOnce(newsScraper, persister)
		return
	}

	var translationService translator.Service
	if appCfg.TranslationEnabled {
		translationService, err = translator.NewAmazonTranslate(context.Background())
		if err != nil {
			slog.Error("Failed to initialize translation service", "error", err)
			os.Exit(1)
		}
		slog.Info("Translation enabled", "target", appCfg.TranslationTarget)
	}

	slog.Info("Starting background scheduler",
		"workers", appCfg.WorkerCount,
		"interval_seconds", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(newsScraper, persister, newsRepo, translationService)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(newsRepo, teamRepo, newsScraper, persister)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

// runOnce executes a single scraping job and exits. Used for cron-style
// deployments where an external scheduler owns the cadence.
func runOnce(fetcher scraper.Fetcher, persister *scraper.Persister) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := scraper.RunScrapingJob(ctx, fetcher, persister)
	if err != nil {
		slog.Error("Scraping job failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Run-once completed",
		"saved", result.SavedCount,
		"skipped", result.SkippedCount,
		"errors", len(result.Errors))
}
