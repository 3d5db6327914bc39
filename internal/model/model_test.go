package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionIsAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
	assert.False(t, (&Session{State: SessionAnonymous}).IsAuthenticated())
	assert.True(t, (&Session{State: SessionAuthenticated, Username: "alice"}).IsAuthenticated())
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Nanosecond)))
}

func TestReportEmbedOrigin(t *testing.T) {
	r := Report{EmbedURL: "https://app.powerbi.com/reportEmbed?reportId=abc"}
	assert.Equal(t, "https://app.powerbi.com", r.EmbedOrigin())

	assert.Empty(t, Report{EmbedURL: "not a url"}.EmbedOrigin())
}
