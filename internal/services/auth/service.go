// Package auth is the session gate: it moves a session between the
// anonymous and authenticated states by way of the credential store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearview-aqi/dashboard/internal/dependencies/clock"
	"github.com/clearview-aqi/dashboard/internal/dependencies/random"
	"github.com/clearview-aqi/dashboard/internal/metrics"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/credentials"
	"github.com/clearview-aqi/dashboard/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidSession       = errors.New("invalid or expired session")
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")
)

// CredentialStore is the subset of the credential store used by the gate
type CredentialStore interface {
	Register(ctx context.Context, username, password string) error
	Verify(ctx context.Context, username, password string) (bool, error)
}

// Ensure the credential store satisfies the gate's needs
var _ CredentialStore = (*credentials.Store)(nil)

// Service handles signup, login, logout and the session lifecycle
type Service struct {
	credentials CredentialStore
	sessions    storage.SessionStorage
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(creds CredentialStore, sessions storage.SessionStorage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		credentials:     creds,
		sessions:        sessions,
		clock:           clk,
		random:          rnd,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
	}
}

// Anonymous returns an anonymous session that is not stored and has no token
// Login on it issues a stored session; nothing else needs to persist it
func (s *Service) Anonymous() *model.Session {
	now := s.clock.Now()
	return &model.Session{
		State:     model.SessionAnonymous,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
}

// NewSession starts a new anonymous session and stores it
func (s *Service) NewSession(ctx context.Context) (*model.Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:     s.random.Token(),
		State:     model.SessionAnonymous,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Signup registers a new credential
// The session is not touched: a successful signup still has to log in
func (s *Service) Signup(ctx context.Context, username, password, confirm string) error {
	if password != confirm {
		metrics.SignupsTotal.WithLabelValues("password_mismatch").Inc()
		return ErrPasswordMismatch
	}

	if err := s.credentials.Register(ctx, username, password); err != nil {
		if errors.Is(err, credentials.ErrDuplicateUser) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

// Login authenticates session as username if the password verifies
// On success the session moves to a freshly issued token and the old token
// stops resolving; on failure session is left exactly as it was
func (s *Service) Login(ctx context.Context, session *model.Session, username, password string) error {
	if session == nil {
		return ErrInvalidSession
	}
	if session.IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}

	ok, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.Info("login rejected", slog.String("username", username))
		return ErrInvalidCredentials
	}

	now := s.clock.Now()
	authenticated := &model.Session{
		Token:     s.random.Token(),
		State:     model.SessionAuthenticated,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	if err := s.sessions.SaveSession(ctx, authenticated); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if session.Token != "" {
		if err := s.sessions.DeleteSession(ctx, session.Token); err != nil {
			s.logger.Warn("failed to drop pre-login session", slog.String("error", err.Error()))
		}
	}

	*session = *authenticated
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("login succeeded", slog.String("username", username))
	return nil
}

// Logout returns an authenticated session to the anonymous state
// Logging out an anonymous session is a no-op
func (s *Service) Logout(ctx context.Context, session *model.Session) error {
	if !session.IsAuthenticated() {
		return nil
	}

	updated := *session
	updated.State = model.SessionAnonymous
	updated.Username = ""
	if err := s.sessions.SaveSession(ctx, &updated); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("logout", slog.String("username", session.Username))
	*session = updated
	metrics.LogoutsTotal.Inc()
	return nil
}

// Resume loads the session for token
// Unknown and expired tokens return ErrInvalidSession; expired ones are removed
func (s *Service) Resume(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.sessions.GetSession(ctx, token)
	if errors.Is(err, model.ErrSessionNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if session.Expired(s.clock.Now()) {
		if err := s.sessions.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to drop expired session", slog.String("error", err.Error()))
		}
		return nil, ErrInvalidSession
	}
	return session, nil
}

// End discards the session for token
func (s *Service) End(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteExpiredSessions(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	metrics.SessionsCleanedTotal.Add(float64(removed))
	return removed, nil
}

// RunCleanup calls CleanExpiredSessions every interval until ctx is done
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.CleanExpiredSessions(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Error("session cleanup failed", slog.String("error", err.Error()))
				}
				continue
			}
			if removed > 0 {
				s.logger.Info("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}
