package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"

	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "session"
)

// SessionGate is the part of the auth service the web layer needs
type SessionGate interface {
	Anonymous() *model.Session
	Resume(ctx context.Context, token string) (*model.Session, error)
}

// GetSession retrieves the session from the request context
// Returns nil outside the Session middleware
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// Session resolves the session cookie into the request context
// Visitors without a valid cookie get an unstored anonymous session, and a
// stale cookie is cleared
func Session(gate SessionGate, cookies CookieConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, stale := resumeSession(r, gate, logger)
			if session == nil {
				if stale {
					ClearSessionCookie(w, cookies)
				}
				session = gate.Anonymous()
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// resumeSession reports stale when a cookie was sent but did not resolve
func resumeSession(r *http.Request, gate SessionGate, logger *slog.Logger) (*model.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	session, err := gate.Resume(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidSession) {
			logger.Warn("failed to resume session", slog.String("error", err.Error()))
		}
		return nil, true
	}
	return session, false
}

// RequireAuth redirects anonymous sessions to the login page
// Must run after Session
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).IsAuthenticated() {
			SetFlash(w, "info", "Please login to continue")
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CookieConfig controls session cookie attributes
type CookieConfig struct {
	Secure bool
}

// SetSessionCookie points the browser at session, expiring with it
func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
