package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clearview-aqi/dashboard/internal/api/apierr"
	"github.com/clearview-aqi/dashboard/internal/api/handler"
	apimiddleware "github.com/clearview-aqi/dashboard/internal/api/middleware"
	"github.com/clearview-aqi/dashboard/internal/api/response"
	"github.com/clearview-aqi/dashboard/internal/middleware"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
	"github.com/clearview-aqi/dashboard/internal/validation"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	Validator    *validation.Validator
	LoginLimiter *middleware.RateLimiter // optional
	Report       model.Report
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	validator := cfg.Validator
	if validator == nil {
		validator = validation.New()
	}
	var limiter handler.LoginLimiter
	if cfg.LoginLimiter != nil {
		limiter = cfg.LoginLimiter
	}

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService, validator, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.AuthService, limiter, cfg.Logger)
	dashboardHandler := handler.NewDashboardHandler(cfg.Report)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Metrics)

	// Account and login routes (no auth required)
	api.HandleFunc("/users", userHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/sessions/current", sessionHandler.Current).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/current", sessionHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/dashboard", dashboardHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
