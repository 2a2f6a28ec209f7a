package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	api "holostream/internal/api/application"
	"holostream/internal/api/handlers"
	apimiddleware "holostream/internal/api/middleware"
	configapp "holostream/internal/config/application"
	metricsdomain "holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
)

const feedInterval = 2 * time.Second

// Dependencies are the components the API server exposes
type Dependencies struct {
	Engine api.MetricsEngine
	// History is nil when no database is configured
	History      metricsdomain.Repository
	SystemReader metricsdomain.SystemReader
	// Instrumentation is served at /debug/metrics when set
	Instrumentation http.Handler
	Started         time.Time
}

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     sharedlogger.Logger
}

// NewServer creates a new API server
func NewServer(logger sharedlogger.Logger, runtimeCfg *configapp.RuntimeConfig, deps Dependencies) *Server {
	// Initialize services
	metricsService := api.NewMetricsService(deps.Engine, deps.History)
	configService := api.NewConfigService(deps.Engine)
	healthService := api.NewHealthService(deps.Engine, deps.SystemReader, api.HealthInfo{
		Version:     runtimeCfg.Version,
		Environment: runtimeCfg.Environment,
		DemoMode:    runtimeCfg.DemoMode,
		Streaming:   runtimeCfg.Streaming,
	}, deps.Started)

	// Initialize handlers
	metricsHandler := handlers.NewMetricsHandler(metricsService)
	configHandler := handlers.NewConfigHandler(configService)
	healthHandler := handlers.NewHealthHandler(healthService)
	feedHandler := handlers.NewFeedHandler(metricsService, feedInterval)

	// Setup chi router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// HTTP logging middleware - need concrete slog.Logger for httplog
	var slogLogger *slog.Logger
	if infraLogger, ok := logger.(interface{ SLog() *slog.Logger }); ok {
		slogLogger = infraLogger.SLog()
	} else {
		slogLogger = slog.Default()
	}

	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))

	// Swagger UI (only in dev mode, no auth required)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	// Scrape, ingest and health are always public
	r.Get("/api/metrics", metricsHandler.Scrape)
	r.Post("/api/metrics", metricsHandler.Ingest)
	r.Get("/api/health", healthHandler.Health)
	r.Head("/api/health", healthHandler.HealthHead)

	if deps.Instrumentation != nil {
		r.Handle("/debug/metrics", deps.Instrumentation)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if runtimeCfg.APIKey != "" {
			r.Use(apimiddleware.APIKeyAuthWithKey(runtimeCfg.APIKey))
		}

		r.Get("/metrics", metricsHandler.List)
		r.Get("/metrics/history", metricsHandler.ListSamples)
		r.Get("/prometheus/status", metricsHandler.Status)
		r.Get("/prometheus/config", configHandler.GetConfig)
		r.Put("/prometheus/config", configHandler.UpdateConfig)
		r.Get("/ws", feedHandler.Stream)
	})

	if runtimeCfg.APIKey == "" {
		logger.Warn("No API key configured, /api/v1 is unauthenticated")
	}

	httpServer := &http.Server{
		Addr:        ":" + runtimeCfg.APIPort,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: feed connections stay open, handlers bound their writes
		IdleTimeout: 60 * time.Second,
	}

	logger.Debug("Server configured",
		"port", runtimeCfg.APIPort,
		"dev_mode", runtimeCfg.DevMode,
		"history", deps.History != nil,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
