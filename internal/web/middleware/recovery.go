package middleware

import (
	"log/slog"
	"net/http"

	"github.com/clearview-aqi/dashboard/internal/middleware"
	"github.com/clearview-aqi/dashboard/internal/web/templates/layout"
	"github.com/clearview-aqi/dashboard/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	RenderError(w, r, http.StatusInternalServerError, "Internal Server Error", "Something went wrong. Please try again later.")
}

// RenderError writes a full HTML error page with the given status
func RenderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	session := GetSession(r.Context())
	data := pages.ErrorData{
		PageData: layout.PageData{
			Title:         heading,
			Authenticated: session.IsAuthenticated(),
			CurrentPath:   r.URL.Path,
		},
		Heading: heading,
		Message: message,
	}
	if session.IsAuthenticated() {
		data.Username = session.Username
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.Error(data).Render(r.Context(), w)
}
