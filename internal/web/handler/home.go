package handler

import (
	"net/http"

	"github.com/clearview-aqi/dashboard/internal/web/middleware"
)

// HomeHandler handles the site root
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home sends signed-in users to the dashboard and everyone else to login
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
