package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/salesdeck/pulse/internal/adapters/dialer"
	"github.com/salesdeck/pulse/internal/adapters/http/api"
	"github.com/salesdeck/pulse/internal/adapters/http/swagger"
	"github.com/salesdeck/pulse/internal/adapters/llm"
	"github.com/salesdeck/pulse/internal/adapters/meetings"
	"github.com/salesdeck/pulse/internal/adapters/roster"
	app "github.com/salesdeck/pulse/internal/app"
	"github.com/salesdeck/pulse/internal/config"
	"github.com/salesdeck/pulse/internal/domain/reconcile"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 120 * time.Second // ask requests wait on two model round trips
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Upstream adapters.
	vendor := dialer.New(cfg.VendorHost, cfg.VendorAPIKey,
		dialer.WithTeamID(cfg.VendorTeamID),
		dialer.WithLogger(loggerInstance.Named("dialer")),
	)

	var meetingSource app.MeetingSource
	switch cfg.MeetingSource {
	case config.MeetingSourceWorkbook:
		meetingSource = meetings.NewWorkbook(cfg.MeetingWorkbookPath,
			meetings.WithWorkbookLogger(loggerInstance.Named("meetings")))
	default:
		meetingSource = meetings.NewFeed(cfg.MeetingFeedURL,
			meetings.WithFeedLogger(loggerInstance.Named("meetings")))
	}

	teams, err := roster.Load(cfg.RosterPath)
	if err != nil {
		os.Stderr.WriteString("failed to load roster: " + err.Error() + "\n")
		return
	}

	modelClient := llm.NewAnthropic(
		llm.WithModel(cfg.AnthropicModel),
		llm.WithMaxTokens(int64(cfg.AnthropicMaxTokens)),
		llm.WithLogger(loggerInstance.Named("llm")),
	)

	// Create and start the service with configuration options
	svc := app.New(vendor, meetingSource, teams, modelClient,
		app.WithLogger(loggerInstance),
		app.WithCacheTTL(cfg.CacheTTL()),
		app.WithMeetingFetchTimeout(cfg.MeetingFetchTimeout()),
		app.WithMaxLookbackDays(cfg.MaxLookbackDays),
		app.WithReconcileEngine(reconcile.New(
			reconcile.WithExcludedLeadSource(cfg.ExcludedLeadSource),
			reconcile.WithPrimaryMetric(cfg.PrimaryMetric),
			reconcile.WithLogger(loggerInstance.Named("reconcile")),
		)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
