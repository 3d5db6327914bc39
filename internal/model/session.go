package model

import "time"

// SessionState is the authentication state of a session
type SessionState string

const (
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)

// Session is the explicit session-state object held by the presentation layer
type Session struct {
	Token     string       `json:"token"`
	State     SessionState `json:"state"`
	Username  string       `json:"username,omitempty"` // empty unless authenticated
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IsAuthenticated reports whether the session has passed a login
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.State == SessionAuthenticated
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
