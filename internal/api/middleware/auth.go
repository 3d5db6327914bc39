package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clearview-aqi/dashboard/internal/api/apierr"
	"github.com/clearview-aqi/dashboard/internal/model"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is shared with the web interface so a browser session
// also works against the API
const SessionCookieName = "session"

// SessionResolver looks up live sessions by token
type SessionResolver interface {
	Resume(ctx context.Context, token string) (*model.Session, error)
}

// Auth creates authentication middleware
// Only authenticated sessions pass; anonymous ones are rejected like missing tokens
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := sessions.Resume(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			if !session.IsAuthenticated() {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// MustGetSession returns the authenticated session or panics
func MustGetSession(ctx context.Context) *model.Session {
	session := GetSession(ctx)
	if session == nil {
		panic("no session in context - auth middleware not applied?")
	}
	return session
}
