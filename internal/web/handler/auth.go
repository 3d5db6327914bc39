package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
	"github.com/clearview-aqi/dashboard/internal/services/credentials"
	"github.com/clearview-aqi/dashboard/internal/validation"
	"github.com/clearview-aqi/dashboard/internal/web/middleware"
	"github.com/clearview-aqi/dashboard/internal/web/templates/pages"
)

// Messages shown to the user
const (
	MsgSignupSuccess      = "Account created successfully! Please login."
	MsgInvalidCredentials = "Invalid username or password"
	MsgDuplicateUser      = "Username already exists. Please choose another."
	MsgPasswordMismatch   = "Passwords do not match"
	MsgMissingCredentials = "Username and password are required"
	MsgTooManyAttempts    = "Too many login attempts. Please wait a moment and try again."
	MsgLoggedOut          = "You have been logged out"
)

// Gate is the session gate as used by the auth pages
type Gate interface {
	Signup(ctx context.Context, username, password, confirm string) error
	Login(ctx context.Context, session *model.Session, username, password string) error
	Logout(ctx context.Context, session *model.Session) error
	End(ctx context.Context, token string) error
}

// LoginLimiter decides whether a login attempt may proceed
type LoginLimiter interface {
	Allow(r *http.Request) bool
}

// AuthHandler handles the login, signup and logout pages
type AuthHandler struct {
	gate      Gate
	validator *validation.Validator
	limiter   LoginLimiter
	cookies   middleware.CookieConfig
	logger    *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
// limiter may be nil to disable login throttling
func NewAuthHandler(gate Gate, validator *validation.Validator, limiter LoginLimiter, cookies middleware.CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		gate:      gate,
		validator: validator,
		limiter:   limiter,
		cookies:   cookies,
		logger:    logger,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := pages.LoginData{
		PageData: pageData(r, "Login"),
		Next:     r.URL.Query().Get("next"),
	}
	render(w, r, h.logger, http.StatusOK, pages.Login(data))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session.IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "Invalid form data", "", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	if err := h.validator.Login(validation.Login{Username: username, Password: password}); err != nil {
		h.renderLogin(w, r, http.StatusOK, MsgMissingCredentials, username, next)
		return
	}

	if h.limiter != nil && !h.limiter.Allow(r) {
		h.renderLogin(w, r, http.StatusTooManyRequests, MsgTooManyAttempts, username, next)
		return
	}

	err := h.gate.Login(r.Context(), session, username, password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.renderLogin(w, r, http.StatusOK, MsgInvalidCredentials, username, next)
		return
	case errors.Is(err, auth.ErrAlreadyAuthenticated):
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	default:
		h.logger.Error("login failed", slog.String("error", err.Error()))
		middleware.RenderError(w, r, http.StatusInternalServerError, "Internal Server Error", "Login is unavailable right now. Please try again later.")
		return
	}

	middleware.SetSessionCookie(w, h.cookies, session)
	middleware.SetFlash(w, "success", "Logged in as "+session.Username)
	http.Redirect(w, r, safeNext(next, "/dashboard"), http.StatusSeeOther)
}

// SignupPage renders the signup page
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := pages.SignupData{
		PageData:    pageData(r, "Signup"),
		FieldErrors: make(map[string]string),
	}
	render(w, r, h.logger, http.StatusOK, pages.Signup(data))
}

// Signup handles signup form submission
// A successful signup leaves the session anonymous and sends the user to login
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderSignup(w, r, http.StatusBadRequest, "Invalid form data", "", nil)
		return
	}

	form := validation.Signup{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}

	if err := h.validator.Signup(form); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			h.renderSignup(w, r, http.StatusOK, "", form.Username, fields)
			return
		}
		h.logger.Error("signup validation failed", slog.String("error", err.Error()))
		middleware.RenderError(w, r, http.StatusInternalServerError, "Internal Server Error", "Signup is unavailable right now. Please try again later.")
		return
	}

	err := h.gate.Signup(r.Context(), form.Username, form.Password, form.PasswordConfirm)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrPasswordMismatch):
		h.renderSignup(w, r, http.StatusOK, "", form.Username, map[string]string{"password_confirm": MsgPasswordMismatch})
		return
	case errors.Is(err, credentials.ErrDuplicateUser):
		h.renderSignup(w, r, http.StatusOK, MsgDuplicateUser, form.Username, nil)
		return
	case errors.Is(err, credentials.ErrPasswordTooLong):
		h.renderSignup(w, r, http.StatusOK, "", form.Username, map[string]string{"password": "Password must be at most 72 bytes"})
		return
	default:
		h.logger.Error("signup failed", slog.String("error", err.Error()))
		middleware.RenderError(w, r, http.StatusInternalServerError, "Internal Server Error", "Signup is unavailable right now. Please try again later.")
		return
	}

	middleware.SetFlash(w, "success", MsgSignupSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout returns the browser to the anonymous state and drops its stored session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session.Token != "" {
		if err := h.gate.Logout(r.Context(), session); err != nil {
			h.logger.Error("logout failed", slog.String("error", err.Error()))
			middleware.RenderError(w, r, http.StatusInternalServerError, "Internal Server Error", "Logout failed. Please try again.")
			return
		}
		if err := h.gate.End(r.Context(), session.Token); err != nil {
			h.logger.Warn("failed to discard session", slog.String("error", err.Error()))
		}
		middleware.ClearSessionCookie(w, h.cookies)
	}

	middleware.SetFlash(w, "info", MsgLoggedOut)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, errorMsg, username, next string) {
	data := pages.LoginData{
		PageData: pageData(r, "Login"),
		Username: username,
		Error:    errorMsg,
		Next:     next,
	}
	render(w, r, h.logger, status, pages.Login(data))
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, status int, errorMsg, username string, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string]string)
	}
	data := pages.SignupData{
		PageData:    pageData(r, "Signup"),
		Username:    username,
		Error:       errorMsg,
		FieldErrors: fieldErrors,
	}
	render(w, r, h.logger, status, pages.Signup(data))
}
