package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/teambalance/internal/adapters/http/api"
	"github.com/okian/teambalance/internal/adapters/http/swagger"
	"github.com/okian/teambalance/internal/adapters/report"
	"github.com/okian/teambalance/internal/adapters/source"
	app "github.com/okian/teambalance/internal/app"
	"github.com/okian/teambalance/internal/config"
	"github.com/okian/teambalance/internal/domain/ratesearch"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 60 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	if code := run(os.Args[1:], os.Stdout, os.Stderr); code != exitOK {
		os.Exit(code)
	}
}

// run executes the command line and returns the process exit code. Reports
// go to stdout, logs to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("teambalance", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		input  = fs.String("input", "", "Qualifier JSON file (overrides pool_file)")
		format = fs.String("format", "", "Report format: text or json (overrides output_format)")
		serve  = fs.Bool("serve", false, "Start the HTTP API instead of a one-shot run")
		help   = fs.Bool("help", false, "Show help")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *help {
		fs.Usage()
		return exitOK
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		if errors.Is(err, config.ErrInvalidConfig) {
			return exitUsage
		}
		return exitFailed
	}
	if *input != "" {
		cfg.PoolFile = *input
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}
	if err := cfg.Validate(ctx); err != nil {
		fmt.Fprintln(stderr, "invalid flags: "+err.Error())
		return exitUsage
	}

	// Initialize logging
	if err := logger.InitWithWriter(stderr, cfg.LogFormat); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailed
	}
	defer func() {
		_ = logger.Sync()
	}()
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithSettings(cfg.Settings()),
		app.WithRateRange(cfg.RateMin, cfg.RateMax, cfg.RateStep),
		app.WithMaxRatio(cfg.MaxRatio),
		app.WithMode(ratesearch.Mode(cfg.RateSearchMode)),
	)

	if *serve {
		if err := serveHTTP(ctx, cfg, svc, nil); err != nil {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			return exitFailed
		}
		return exitOK
	}

	if err := balanceOnce(ctx, cfg, svc, stdout); err != nil {
		loggerInstance.Error(ctx, "balancing failed", logger.Error(err))
		return exitFailed
	}
	return exitOK
}

// balanceOnce reads the configured pool, balances it and writes the report.
func balanceOnce(ctx context.Context, cfg *config.Config, svc *app.Service, w io.Writer) error {
	pool, err := source.LoadFile(ctx, cfg.PoolFile)
	if err != nil {
		return err
	}
	summary, err := svc.Run(ctx, pool)
	if err != nil {
		return err
	}

	if cfg.OutputFormat == "json" {
		return report.JSON(w, summary)
	}
	if err := report.Text(w, report.TitleBeforeTimezone, summary.BeforeTeams); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return report.Text(w, report.TitleAfterTimezone, summary.Teams)
}

// serveHTTP runs the API until ctx is cancelled. When ready is not nil the
// bound address is sent on it once the listener is open.
func serveHTTP(ctx context.Context, cfg *config.Config, svc *app.Service, ready chan<- string) error {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	loggerInstance := logger.Get()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, api.WithLogger(loggerInstance))
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	addr := ln.Addr().String()
	if ready != nil {
		ready <- addr
	}

	// Start the HTTP server
	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", addr))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a serve failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	loggerInstance.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
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

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics publishes the configured pool shape so it is visible
// before the first run.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	poolSize, okPool := stats["poolSize"].(int)
	teamCount, okTeams := stats["teamCount"].(int)
	if okPool && okTeams {
		metrics.UpdatePoolShape(poolSize, teamCount)
	}
}
