// @title           Holostream Metrics API
// @version         1.0
// @description     Prometheus-compatible metrics engine for the holo-bot livestream.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key authentication

// @host      localhost:8080
// @BasePath  /api

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	_ "holostream/docs" // Swagger docs

	apiserver "holostream/internal/api"
	configapp "holostream/internal/config/application"
	"holostream/internal/infrastructure/database"
	"holostream/internal/infrastructure/logger"
	metricsapp "holostream/internal/metrics/application"
	metricsdomain "holostream/internal/metrics/domain"
	metricsinfra "holostream/internal/metrics/infrastructure"
)

const demoInterval = 5 * time.Second

func flags() []cli.Flag {
	fs := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
		&cli.StringFlag{Name: "env-file", Usage: "Load environment variables from `FILE` (default .env.local, .env)"},
	}
	for _, opt := range configapp.Options {
		if opt.Bool {
			fs = append(fs, &cli.BoolFlag{Name: opt.Flag, Usage: opt.Usage})
			continue
		}
		fs = append(fs, &cli.StringFlag{Name: opt.Flag, Usage: opt.Usage})
	}
	return fs
}

// setFlags collects the flags given on the command line
func setFlags(c *cli.Context) map[string]string {
	set := make(map[string]string)
	for _, opt := range configapp.Options {
		if !c.IsSet(opt.Flag) {
			continue
		}
		if opt.Bool {
			set[opt.Flag] = strconv.FormatBool(c.Bool(opt.Flag))
			continue
		}
		set[opt.Flag] = c.String(opt.Flag)
	}
	return set
}

func run(c *cli.Context) error {
	bootLogger := logger.NewLogger()
	if c.IsSet("env-file") {
		configapp.LoadEnvFiles(bootLogger, c.String("env-file"))
	} else {
		configapp.LoadEnvFiles(bootLogger)
	}

	cfg, err := configapp.LoadRuntimeConfig(c.Context, c.String("config"), os.LookupEnv, setFlags(c))
	if err != nil {
		bootLogger.Error("Failed to load configuration", "err", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting holostream",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"instance", cfg.Prometheus.Instance,
		"demo", cfg.DemoMode,
	)

	sigCtx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	started := time.Now()

	// Metrics engine
	inst := metricsinfra.NewInstrumentation()
	engine := metricsapp.NewEngine(appLogger, metricsinfra.NewPushgatewayClient(nil), cfg.Prometheus, metricsapp.WithObserver(inst))

	reporter := metricsapp.NewReporter(engine, cfg.Prometheus.Instance, cfg.Version)
	reporter.RecordStartup(started)
	reporter.RecordHealth()

	reader := metricsinfra.NewSystemReader()
	sampler := metricsapp.NewSystemSampler(appLogger, reader, reporter, appLogger, cfg.Prometheus.Interval)
	sampler.Start(sigCtx)
	defer sampler.Stop()

	if cfg.DemoMode {
		simulator := metricsapp.NewDemoSimulator(appLogger, reporter, demoInterval, cfg.Streaming.Quality, started.UnixNano())
		simulator.Start(sigCtx)
		defer simulator.Stop()
	}

	// Metric history
	var history metricsdomain.Repository
	if cfg.DBPath != "" {
		dbWrite, dbRead, err := openHistory(cfg.DBPath)
		if err != nil {
			appLogger.Error("Failed to open history database", "path", cfg.DBPath, "err", err)
			return err
		}
		defer dbWrite.Close()
		defer dbRead.Close()

		repo := metricsinfra.NewRepository(dbRead, dbWrite)
		history = repo

		recorder := metricsapp.NewHistoryRecorder(appLogger, engine, metricsapp.NewRepositorySink(repo, cfg.HistoryRetention), cfg.Prometheus.Interval)
		recorder.Start(sigCtx)
		defer recorder.Stop()
		appLogger.Info("Metric history enabled", "path", cfg.DBPath, "retention", cfg.HistoryRetention)
	}

	engine.Start(sigCtx)

	apiServer := apiserver.NewServer(appLogger, cfg, apiserver.Dependencies{
		Engine:          engine,
		History:         history,
		SystemReader:    reader,
		Instrumentation: inst.Handler(),
		Started:         started,
	})

	// Start API server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("Holostream started successfully, waiting for shutdown signal")

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		engine.Stop()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownErr := apiServer.Shutdown(shutdownCtx)
	engine.Stop()

	// Last push so the gateway holds the final values
	if engine.Config().Enabled {
		if err := engine.PushNow(shutdownCtx); err != nil {
			appLogger.Warn("Final push failed", "err", err)
		}
	}

	appLogger.Info("Graceful shutdown completed")
	return shutdownErr
}

// openHistory opens the single-writer and the pooled reader connections
func openHistory(path string) (*sql.DB, *sql.DB, error) {
	dbWrite, err := database.OpenHistory(path)
	if err != nil {
		return nil, nil, err
	}
	dbWrite.SetMaxOpenConns(1)

	if path == ":memory:" {
		return dbWrite, dbWrite, nil
	}

	dbRead, err := database.ConnectSQLite(path)
	if err != nil {
		dbWrite.Close()
		return nil, nil, fmt.Errorf("failed to connect to read database: %w", err)
	}
	dbRead.SetMaxOpenConns(runtime.NumCPU())
	return dbWrite, dbRead, nil
}

func main() {
	app := &cli.App{
		Name:   "holostream",
		Usage:  "Prometheus-compatible metrics engine for the holo-bot livestream",
		Flags:  flags(),
		Action: run,
		// --version is a config option, not the cli built-in
		HideVersion: true,
	}

	if err := app.Run(os.Args); err != nil {
		// Use default logger for final error message if run() failed early
		logger.DefaultLogger().Error("Application error", "err", err)
		os.Exit(1)
	}
}
