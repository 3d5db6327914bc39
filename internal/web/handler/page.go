package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/clearview-aqi/dashboard/internal/web/middleware"
	"github.com/clearview-aqi/dashboard/internal/web/templates/layout"
)

// pageData builds the layout data shared by every page
func pageData(r *http.Request, title string) layout.PageData {
	session := middleware.GetSession(r.Context())
	data := layout.PageData{
		Title:         title,
		Authenticated: session.IsAuthenticated(),
		CurrentPath:   r.URL.Path,
		Flash:         middleware.GetFlash(r.Context()),
	}
	if data.Authenticated {
		data.Username = session.Username
	}
	return data
}

func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
}

// safeNext returns next if it is a local absolute path, else fallback
func safeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}
