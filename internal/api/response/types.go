package response

import (
	"time"

	"github.com/clearview-aqi/dashboard/internal/model"
)

// User is the public view of an account
type User struct {
	Username string `json:"username"`
}

// Session represents a session in API responses
type Session struct {
	SessionToken string    `json:"session_token,omitempty"`
	State        string    `json:"state"`
	Username     string    `json:"username,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionFromModel converts a model.Session
// The token is only echoed when withToken is set, i.e. when it was just issued
func SessionFromModel(s *model.Session, withToken bool) Session {
	resp := Session{
		State:     string(s.State),
		Username:  s.Username,
		ExpiresAt: s.ExpiresAt,
	}
	if withToken {
		resp.SessionToken = s.Token
	}
	return resp
}

// Dashboard describes the embedded report shown to signed-in users
type Dashboard struct {
	Title        string `json:"title"`
	EmbedURL     string `json:"embed_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	LinkedInURL  string `json:"linkedin_url,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// DashboardFromModel converts a model.Report
func DashboardFromModel(r model.Report) Dashboard {
	return Dashboard(r)
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
