// @title Photolist API
// @version 1.0
// @description Named photo list cache with gallery backend sync.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/photosync/photolist/docs"
	"github.com/photosync/photolist/internal/backend"
	"github.com/photosync/photolist/internal/config"
	"github.com/photosync/photolist/internal/handlers"
	custommw "github.com/photosync/photolist/internal/middleware"
	"github.com/photosync/photolist/internal/observability"
	"github.com/photosync/photolist/internal/repository"
	"github.com/photosync/photolist/internal/services"
)

const (
	serviceName    = "photolist"
	serviceVersion = "1.0.0"
)

func main() {
	logger := observability.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Initialize(ctx, observability.NewConfig(serviceName, serviceVersion))
	if err != nil {
		logger.Warnf("Telemetry disabled: %v", err)
	}

	kv, err := openStore(cfg.Store)
	if err != nil {
		logger.Errorf("Failed to open %s store: %v", cfg.Store.Driver, err)
		os.Exit(1)
	}
	defer kv.Close()

	listMetrics, err := observability.NewListMetrics()
	if err != nil {
		logger.Warnf("List metrics unavailable: %v", err)
	}
	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		logger.Warnf("HTTP metrics unavailable: %v", err)
	}

	hub := services.NewWebSocketHub()
	go hub.Run(ctx)

	gallery := backend.NewClient(cfg.Backend.URL, cfg.Backend.Token, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second)
	listService := services.NewListService(ctx, repository.NewListStore(kv, listMetrics), gallery, services.ListServiceConfig{
		MaxLists: cfg.Lists.MaxLists,
		PageSize: cfg.Backend.PageSize,
		Notifier: services.NewHubNotifier(hub),
		Metrics:  listMetrics,
	})

	healthHandler := handlers.NewHealthHandler(listService)
	listHandler := handlers.NewListHandler(listService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(observability.TracingMiddleware(serviceName))
	if httpMetrics != nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	}
	r.Use(custommw.APIKeyAuth(cfg.Security.APIKey, cfg.Security.APIKeyHeader))

	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)
	r.Route("/api/lists", listHandler.Routes)
	r.Get("/ws", wsHandler.HandleConnection)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Photolist server starting on %s", cfg.ServerAddress)
		logger.Infof("Store: %s, backend: %s, capacity: %d lists", cfg.Store.Driver, cfg.Backend.URL, cfg.Lists.MaxLists)
		if cfg.Security.APIKey == "" {
			logger.Warnf("No API key configured; /api is unauthenticated")
		}

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Telemetry shutdown: %v", err)
		}
	}

	logger.Infof("Server stopped")
}

func openStore(cfg config.Store) (repository.KVStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return repository.NewPostgresStore(cfg.DatabaseURL)
	case config.DriverMemory:
		return repository.NewMemoryStore(), nil
	default:
		return repository.NewSQLiteStore(cfg.Path)
	}
}
