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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clearview-aqi/dashboard/internal/api"
	"github.com/clearview-aqi/dashboard/internal/config"
	"github.com/clearview-aqi/dashboard/internal/factory"
	"github.com/clearview-aqi/dashboard/internal/logging"
	"github.com/clearview-aqi/dashboard/internal/middleware"
	"github.com/clearview-aqi/dashboard/internal/validation"
	"github.com/clearview-aqi/dashboard/internal/web"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	limiterSweepInterval   = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger, logCloser, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		_ = logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Create application factory
	app, err := factory.New(factory.ConfigFrom(cfg, logger))
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	logger.Info("storage ready", slog.String("type", cfg.StorageType))

	loginLimiter := middleware.NewRateLimiter("login", cfg.LoginRateLimit, cfg.LoginRateBurst).
		TrustProxyHeaders(cfg.TrustProxyHeaders)
	validator := validation.New()
	report := cfg.Report()

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		Validator:    validator,
		LoginLimiter: loginLimiter,
		Report:       report,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		Validator:    validator,
		LoginLimiter: loginLimiter,
		Report:       report,
		SecureCookie: cfg.CookieSecure,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.PortNumber()
	server := api.NewServer(mux, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.AuthService.RunCleanup(ctx, sessionCleanupInterval)
	go loginLimiter.RunSweeper(ctx, limiterSweepInterval)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
