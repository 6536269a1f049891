// Command vacunas is the interactive console over the artigo catalog and the
// vaccine schema.
//
// Usage:
//
//	vacunas [-config file] [-metrics-addr addr]               run the menu
//	vacunas [-config file] migrate up|down                    create or drop the vaccine schema
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vacuna-catalog/internal/config"
	"vacuna-catalog/internal/handler/cli"
	hhttp "vacuna-catalog/internal/handler/http"
	pgRepo "vacuna-catalog/internal/infra/adapter/persistence/postgres"
	"vacuna-catalog/internal/infra/db"
	"vacuna-catalog/internal/observability/logging"
	"vacuna-catalog/internal/observability/tracing"
	"vacuna-catalog/internal/resilience/circuitbreaker"
	"vacuna-catalog/internal/resilience/retry"
	artUC "vacuna-catalog/internal/usecase/article"
	vacUC "vacuna-catalog/internal/usecase/vaccine"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, cli.SanitizeError(err))
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("vacunas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", os.Getenv("VACUNAS_CONFIG"), "path to the YAML configuration file")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	logger := initLogger(stderr, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.InitProvider(logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	database, err := db.Open(ctx, cfg.Database.DSN(), connectionConfig(cfg.Database.Pool), cfg.Database.PingTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	switch cmd := fs.Arg(0); cmd {
	case "", "menu":
		return runMenu(ctx, logger, cfg, database, stdin, stdout)
	case "migrate":
		return migrate(ctx, logger, database, fs.Arg(1))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func initLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var logger *slog.Logger
	if cfg.Format == "text" {
		logger = logging.NewTextLogger(w, cfg.Level)
	} else {
		logger = logging.NewLogger(w, cfg.Level)
	}
	slog.SetDefault(logger)
	return logger
}

func connectionConfig(p config.PoolConfig) db.ConnectionConfig {
	return db.ConnectionConfig{
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxLifetime: p.ConnMaxLifetime,
		ConnMaxIdleTime: p.ConnMaxIdleTime,
	}
}

func migrate(ctx context.Context, logger *slog.Logger, database *sql.DB, direction string) error {
	switch direction {
	case "up":
		if err := db.MigrateUp(ctx, database); err != nil {
			return err
		}
	case "down":
		if err := db.MigrateDown(ctx, database); err != nil {
			return err
		}
	default:
		return fmt.Errorf("migrate: expected up or down, got %q", direction)
	}
	logger.Info("migration finished", slog.String("direction", direction))
	return nil
}

// runMenu wires the stores to the console and serves metrics and health next to it.
// The metrics server stops when the menu returns or a signal arrives.
func runMenu(ctx context.Context, logger *slog.Logger, cfg *config.Config, database *sql.DB, stdin io.Reader, stdout io.Writer) error {
	breakerCfg := circuitbreaker.DBConfig()
	breakerCfg.MaxRequests = cfg.Breaker.MaxRequests
	breakerCfg.Interval = cfg.Breaker.Interval
	breakerCfg.Timeout = cfg.Breaker.Timeout
	breakerCfg.FailureThreshold = cfg.Breaker.FailureThreshold
	breakerCfg.MinRequests = cfg.Breaker.MinRequests

	retryCfg := retry.DBConfig()
	retryCfg.MaxAttempts = cfg.Retry.MaxAttempts
	retryCfg.InitialDelay = cfg.Retry.InitialDelay
	retryCfg.MaxDelay = cfg.Retry.MaxDelay

	runner := circuitbreaker.NewDBCircuitBreaker(db.NewTransactor(database), breakerCfg)
	uow := pgRepo.NewUnitOfWork(runner, retryCfg)

	h := cli.NewHandler(stdin, stdout,
		&artUC.Service{UoW: uow},
		&vacUC.Service{UoW: uow},
		logger)

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		server := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           hhttp.NewMux(database, runner),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics server starting", slog.String("addr", cfg.Metrics.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			return server.Shutdown(shutdownCtx)
		})
	}

	// Run blocks on stdin, so it is not joined on shutdown.
	menuDone := make(chan error, 1)
	go func() { menuDone <- h.Run(ctx) }()

	g.Go(func() error {
		defer cancel()
		select {
		case err := <-menuDone:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		}
	})

	return g.Wait()
}
