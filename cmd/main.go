package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/nutriscreen/internal/adapters/http/api"
	"github.com/okian/nutriscreen/internal/adapters/http/swagger"
	app "github.com/okian/nutriscreen/internal/app"
	"github.com/okian/nutriscreen/internal/config"
	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/okian/nutriscreen/pkg/logger"
	"github.com/okian/nutriscreen/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
	maxTopLimit            = 500
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			_ = svc.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the reference store, the assessor and the service
// from cfg.
func newService(cfg *config.Config) (*app.Service, error) {
	strategies, err := cfg.Strategies()
	if err != nil {
		return nil, fmt.Errorf("z-score strategies: %w", err)
	}

	var store *reference.MemoryStore
	if cfg.ReferenceTables != "" {
		store, err = reference.LoadFile(cfg.ReferenceTables, reference.WithStrategies(strategies))
	} else {
		store, err = reference.Default(reference.WithStrategies(strategies))
	}
	if err != nil {
		return nil, fmt.Errorf("load reference tables: %w", err)
	}

	assessor, err := assessment.New(store,
		assessment.WithPregnancyPolicy(cfg.PregnancyPolicy()),
		assessment.WithPregnancyMinAge(cfg.PregnancyMinAgeYears),
		assessment.WithPrecision(cfg.RoundingPrecision),
	)
	if err != nil {
		return nil, fmt.Errorf("create assessor: %w", err)
	}

	logger.Get().Info(context.Background(), "assessment engine ready",
		logger.String("reference", store.Name()),
		logger.String("pregnancy_policy", cfg.PregnancyPolicy().String()),
		logger.Int("precision", cfg.RoundingPrecision))

	return app.New(assessor,
		app.WithLogger(logger.Get().Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithBatchParallelism(cfg.BatchParallelism),
		app.WithMaxBatchSize(cfg.MaxBatchSize),
		app.WithMaxRecords(cfg.MaxRecords),
	), nil
}

// newHandler registers the API and docs routes.
func newHandler(ctx context.Context, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, maxTopLimit).Register(ctx, mux)
	return mux
}

// startServiceMetricsUpdater refreshes gauges derived from service state.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	stats := svc.Stats(ctx)
	metrics.UpdateQueueSize(stats.QueueLength)
	metrics.UpdateWorkerCount(stats.Workers)
	metrics.UpdateRepositoryRecords(stats.Stored)
}
