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

	"github.com/trendcomb/trendcomb/app/api"
	"github.com/trendcomb/trendcomb/app/blog"
	"github.com/trendcomb/trendcomb/app/cfg"
	"github.com/trendcomb/trendcomb/app/database"
	"github.com/trendcomb/trendcomb/app/tasks"
	"github.com/trendcomb/trendcomb/app/trends"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was requested
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting Trend Comb server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	configCache := trends.NewConfigCache(appCfg.CategoriesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load category configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Category configurations loaded", "count", configCache.GetConfigCount())

	storyRepo := database.NewStoryRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	auditRepo := database.NewAuditRepository(db)

	grokClient := trends.NewClient(appCfg.GrokAPIURL, appCfg.GrokAPIKey, appCfg.GrokModel, appCfg.UserAgent)
	generator := trends.NewGenerator(grokClient, storyRepo, auditRepo)
	fetcher := trends.NewFetcher(grokClient, storyRepo, auditRepo, generator, configCache)
	publisher := blog.NewClient(appCfg.BlogAPIURL, appCfg.BlogAPIKey, appCfg.UserAgent)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, categoryRepo, settingsRepo, fetcher)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(storyRepo, categoryRepo, settingsRepo, auditRepo,
		generator, fetcher, publisher, configCache, appCfg.Version)
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
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Trend Comb server started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
