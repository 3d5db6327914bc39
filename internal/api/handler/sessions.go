package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clearview-aqi/dashboard/internal/api/apierr"
	"github.com/clearview-aqi/dashboard/internal/api/middleware"
	"github.com/clearview-aqi/dashboard/internal/api/request"
	"github.com/clearview-aqi/dashboard/internal/api/response"
	"github.com/clearview-aqi/dashboard/internal/model"
)

// SessionGate is the part of the auth service the sessions endpoints drive
type SessionGate interface {
	Anonymous() *model.Session
	Login(ctx context.Context, session *model.Session, username, password string) error
	Logout(ctx context.Context, session *model.Session) error
	End(ctx context.Context, token string) error
}

// LoginLimiter decides whether a login attempt may proceed
type LoginLimiter interface {
	Allow(r *http.Request) bool
}

// SessionHandler handles login and logout for API clients
type SessionHandler struct {
	gate    SessionGate
	limiter LoginLimiter
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
// limiter may be nil to disable login throttling
func NewSessionHandler(gate SessionGate, limiter LoginLimiter, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		gate:    gate,
		limiter: limiter,
		logger:  logger,
	}
}

// Create handles POST /api/v1/sessions
// Only a successful login stores a session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username and password are required"))
		return
	}

	if h.limiter != nil && !h.limiter.Allow(r) {
		apierr.WriteError(w, apierr.NewRateLimitedError())
		return
	}

	session := h.gate.Anonymous()
	if err := h.gate.Login(r.Context(), session, username, req.Password); err != nil {
		if apierr.Status(err) == http.StatusInternalServerError {
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session, true))
}

// Current handles GET /api/v1/sessions/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	response.JSON(w, http.StatusOK, response.SessionFromModel(session, false))
}

// Delete handles DELETE /api/v1/sessions/current
// The session is logged out and then discarded
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	token := session.Token
	if err := h.gate.Logout(r.Context(), session); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
		apierr.WriteError(w, err)
		return
	}
	if err := h.gate.End(r.Context(), token); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}
