package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clearview-aqi/dashboard/internal/api/apierr"
	"github.com/clearview-aqi/dashboard/internal/api/request"
	"github.com/clearview-aqi/dashboard/internal/api/response"
	"github.com/clearview-aqi/dashboard/internal/validation"
)

// Registrar creates accounts
type Registrar interface {
	Signup(ctx context.Context, username, password, confirm string) error
}

// UserHandler handles account endpoints
type UserHandler struct {
	registrar Registrar
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(registrar Registrar, validator *validation.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		registrar: registrar,
		validator: validator,
		logger:    logger,
	}
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	form := validation.Signup{
		Username:        strings.TrimSpace(req.Username),
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}
	if err := h.validator.Signup(form); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.registrar.Signup(r.Context(), form.Username, form.Password, form.PasswordConfirm); err != nil {
		if apierr.Status(err) == http.StatusInternalServerError {
			h.logger.Error("signup failed", slog.String("error", err.Error()))
		}
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.User{Username: form.Username})
}
