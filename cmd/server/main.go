package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/authpages/internal"
	"github.com/DukeRupert/authpages/internal/backend"
	"github.com/DukeRupert/authpages/internal/handler"
	"github.com/DukeRupert/authpages/internal/metrics"
	"github.com/DukeRupert/authpages/internal/middleware"
	"github.com/DukeRupert/authpages/internal/page"
	"github.com/DukeRupert/authpages/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg)

	// Simulated auth backend
	sim, err := backend.NewSimulated(backend.SimulatedConfig{
		Delay:        cfg.SimulatedDelay,
		DemoEmail:    cfg.DemoEmail,
		DemoPassword: cfg.DemoPassword,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("backend initialization failed: %w", err)
	}

	// Page instances live until submitted away from or idle past the TTL
	pages := page.NewRegistry(cfg.PageInstanceTTL, logger, page.WithMaxInstances(cfg.PageInstanceLimit))
	defer pages.Close()

	// Initialize template renderer
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		FS:           web.Templates(),
		TemplatesDir: "web/templates",
		Logger:       logger,
		IsDev:        cfg.IsDev(),
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	pageCfg := handler.AuthConfig{
		AppName:            cfg.AppName,
		CompanyName:        cfg.CompanyName,
		ResetRedirectDelay: cfg.ResetRedirectDelay,
	}
	authHandler := handler.NewAuthHandler(sim, pages, renderer, logger, pageCfg)
	pageHandler := handler.NewPageHandler(renderer, logger, pageCfg)

	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword, logger)
	if !metricsAuth.Enabled() {
		logger.Warn("/metrics is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}
	requestLogger := middleware.NewRequestLoggingMiddleware(logger)

	// ==========================================================================
	// Routes
	// ==========================================================================

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	authHandler.RegisterRoutes(mux)
	// registered last: owns the "/" catch-all
	pageHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           middleware.Stack(requestLogger.Handler, metrics.Middleware)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ==========================================================================
	// Graceful Shutdown
	// ==========================================================================

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-sigChan:
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Unmounting cancels any submission still waiting on the backend
	pages.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
