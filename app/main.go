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

	"github.com/lysyi3m/bandcamp-comb/app/api"
	"github.com/lysyi3m/bandcamp-comb/app/cache"
	"github.com/lysyi3m/bandcamp-comb/app/cfg"
	"github.com/lysyi3m/bandcamp-comb/app/feed"
	"github.com/lysyi3m/bandcamp-comb/app/pipeline"
	"github.com/lysyi3m/bandcamp-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Bandcamp Comb server",
		"version", appCfg.Version,
		"account", appCfg.Username,
		"timezone", appCfg.Timezone,
		"cache_duration", appCfg.CacheDuration.String(),
		"log_level", logLevel.String())

	rules, err := feed.LoadRules(appCfg.RulesFile)
	if err != nil {
		slog.Error("Failed to load extraction rules", "file", appCfg.RulesFile, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}

	fetcher := feed.NewFetcher(httpClient, appCfg.Identity, appCfg.UserAgent, appCfg.FetchTimeout)
	dates := feed.NewDateNormalizer(appCfg.Location, time.Now)
	sanitizer := feed.NewSanitizer(rules)

	extractor, err := feed.NewExtractor(rules, sanitizer, dates, appCfg.FeedURL())
	if err != nil {
		slog.Error("Failed to create extractor", "error", err)
		os.Exit(1)
	}

	feedCache := cache.NewFreshnessCache(appCfg.CacheDuration)
	processor := pipeline.NewProcessor(fetcher, extractor, feed.NewGenerator(appCfg.Version), feed.NewParser(),
		feedCache, appCfg.Username, appCfg.FeedURL(), time.Now)

	var scheduler tasks.TaskSchedulerInterface
	if appCfg.WarmInterval > 0 {
		slog.Info("Starting cache warmer", "interval", appCfg.WarmInterval.String(), "workers", appCfg.WorkerCount)
		scheduler = tasks.NewScheduler(processor, appCfg.WarmInterval, appCfg.WorkerCount)
		scheduler.Start()
	}

	handler := api.NewHandler(processor, feedCache, appCfg.Username, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		slog.Info("Endpoints available",
			"rss", fmt.Sprintf("http://localhost:%s/rss", appCfg.Port),
			"atom", fmt.Sprintf("http://localhost:%s/atom", appCfg.Port),
			"health", fmt.Sprintf("http://localhost:%s/health", appCfg.Port),
			"metrics", fmt.Sprintf("http://localhost:%s/metrics", appCfg.Port))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

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

	if scheduler != nil {
		scheduler.Stop()
		slog.Info("Cache warmer stopped")
	}

	slog.Info("Bandcamp Comb server shutdown complete")
}
