// API server entry point for NicheSignal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/turtacn/NicheSignal/internal/bootstrap"
	"github.com/turtacn/NicheSignal/internal/config"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	monprom "github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/NicheSignal/internal/interfaces/http"
	"github.com/turtacn/NicheSignal/internal/interfaces/http/handlers"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config initialization failed: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting NicheSignal API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("build_date", buildDate),
		logging.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	metrics := monprom.NewPipelineMetrics(registry)

	components, err := bootstrap.Build(ctx, cfg, cfg.Detection.Industry, metrics, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	checks := map[string]handlers.ReadinessCheck{}
	if components.Pool != nil {
		pool := components.Pool
		checks["postgres"] = func(ctx context.Context) error { return pool.Ping(ctx) }
	}
	if components.Cache != nil {
		cache := components.Cache
		checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx) }
	}

	routerCfg := httpserver.RouterConfig{
		ScoreHandler:  handlers.NewScoreHandler(components.Pipeline),
		HealthHandler: handlers.NewHealthHandler(checks),
		Registry:      registry,
		Logger:        logger,
		Mode:          cfg.Server.Mode,
	}
	if components.Repo != nil {
		routerCfg.RunHandler = handlers.NewRunHandler(components.Repo)
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
