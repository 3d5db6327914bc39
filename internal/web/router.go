package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clearview-aqi/dashboard/internal/middleware"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
	"github.com/clearview-aqi/dashboard/internal/validation"
	"github.com/clearview-aqi/dashboard/internal/web/handler"
	webmiddleware "github.com/clearview-aqi/dashboard/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	Validator    *validation.Validator
	LoginLimiter *middleware.RateLimiter // optional
	Report       model.Report
	SecureCookie bool
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	validator := cfg.Validator
	if validator == nil {
		validator = validation.New()
	}
	cookies := webmiddleware.CookieConfig{Secure: cfg.SecureCookie}

	// Apply global middleware to all routes
	r.Use(middleware.RequestID)
	r.Use(webmiddleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(cfg.Report.EmbedOrigin()))
	r.Use(webmiddleware.Flash())
	r.Use(webmiddleware.Session(cfg.AuthService, cookies, cfg.Logger))

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	var limiter handler.LoginLimiter
	if cfg.LoginLimiter != nil {
		limiter = cfg.LoginLimiter
	}
	authHandler := handler.NewAuthHandler(cfg.AuthService, validator, limiter, cookies, cfg.Logger)
	dashboardHandler := handler.NewDashboardHandler(cfg.Report, cfg.Logger)

	// Public routes
	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/signup", authHandler.SignupPage).Methods(http.MethodGet)
	r.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(webmiddleware.RequireAuth)
	protected.HandleFunc("/dashboard", dashboardHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/connect", dashboardHandler.Connect).Methods(http.MethodGet)

	r.NotFoundHandler = notFound(cfg)

	return r
}

// notFound renders the 404 page with the visitor's navigation menu
// mux skips router middleware for unmatched requests, so the session is resolved here
func notFound(cfg RouterConfig) http.Handler {
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webmiddleware.RenderError(w, r, http.StatusNotFound, "Page not found", "The page you requested does not exist.")
	})
	return middleware.Logging(cfg.Logger)(
		webmiddleware.Session(cfg.AuthService, webmiddleware.CookieConfig{Secure: cfg.SecureCookie}, cfg.Logger)(page),
	)
}
