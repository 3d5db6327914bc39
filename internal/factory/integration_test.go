package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/clearview-aqi/dashboard/internal/config"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
	"github.com/clearview-aqi/dashboard/internal/services/credentials"
	"github.com/clearview-aqi/dashboard/internal/storage/memory"
	sqlstorage "github.com/clearview-aqi/dashboard/internal/storage/sql"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: signup, login, logout and the session lifecycle end to end
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	s.app.MockRandom.QueueToken("anon-1", "authed-1")

	// Step 1: A visitor arrives and gets an anonymous session
	session, err := s.app.AuthService.NewSession(s.ctx)
	s.Require().NoError(err)
	s.Equal("anon-1", session.Token)
	s.False(session.IsAuthenticated())

	// Step 2: Signup does not authenticate
	s.Require().NoError(s.app.AuthService.Signup(s.ctx, "alice", "Secret123", "Secret123"))
	s.False(session.IsAuthenticated())

	// Step 3: Login authenticates and rotates the token
	s.Require().NoError(s.app.AuthService.Login(s.ctx, session, "alice", "Secret123"))
	s.Equal("authed-1", session.Token)
	s.Equal("alice", session.Username)

	// Step 4: The new token resumes to the authenticated session
	resumed, err := s.app.AuthService.Resume(s.ctx, "authed-1")
	s.Require().NoError(err)
	s.True(resumed.IsAuthenticated())

	// Step 5: Logout keeps the session but drops the identity
	s.Require().NoError(s.app.AuthService.Logout(s.ctx, resumed))
	resumed, err = s.app.AuthService.Resume(s.ctx, "authed-1")
	s.Require().NoError(err)
	s.False(resumed.IsAuthenticated())

	// Step 6: After the session lifetime, the token stops resolving
	s.app.MockClock.Advance(25 * time.Hour)
	_, err = s.app.AuthService.Resume(s.ctx, "authed-1")
	s.ErrorIs(err, auth.ErrInvalidSession)
}

func (s *IntegrationSuite) TestCredentialsSharedWithAuth() {
	s.Require().NoError(s.app.Credentials.Register(s.ctx, "bob", "Hunter22"))

	err := s.app.AuthService.Signup(s.ctx, "bob", "x", "x")
	s.ErrorIs(err, credentials.ErrDuplicateUser)

	ok, err := s.app.Credentials.Verify(s.ctx, "bob", "Hunter22")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *IntegrationSuite) TestCleanupRemovesExpiredSessions() {
	_, err := s.app.AuthService.NewSession(s.ctx)
	s.Require().NoError(err)
	s.app.MockClock.Advance(48 * time.Hour)

	removed, err := s.app.AuthService.CleanExpiredSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.IsType(t, &memory.Storage{}, app.Storage)
	assert.Same(t, app.Storage, app.Sessions)
}

func TestNewSQLiteKeepsSessionsInMemory(t *testing.T) {
	app, err := New(Config{
		StorageType: StorageTypeSQLite,
		SQLConfig:   &sqlstorage.Config{DSN: filepath.Join(t.TempDir(), "users.db")},
		BcryptCost:  4,
	})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.IsType(t, &sqlstorage.Storage{}, app.Storage)
	assert.IsType(t, &memory.Storage{}, app.Sessions)

	ctx := context.Background()
	require.NoError(t, app.AuthService.Signup(ctx, "alice", "Secret123", "Secret123"))
	session, err := app.AuthService.NewSession(ctx)
	require.NoError(t, err)
	require.NoError(t, app.AuthService.Login(ctx, session, "alice", "Secret123"))
	assert.Equal(t, model.SessionAuthenticated, session.State)
}

func TestNewRejectsBadStorageConfig(t *testing.T) {
	_, err := New(Config{StorageType: "mongo"})
	assert.ErrorContains(t, err, "invalid StorageType")

	_, err = New(Config{StorageType: StorageTypeRedis})
	assert.ErrorContains(t, err, "RedisConfig required")

	_, err = New(Config{StorageType: StorageTypePostgres})
	assert.ErrorContains(t, err, "SQLConfig required")
}

func TestConfigFrom(t *testing.T) {
	base := config.Config{
		SessionDuration: time.Hour,
		BcryptCost:      11,
		RedisURL:        "redis://cache:6379",
		SQLitePath:      "data/users.db",
		DatabaseURL:     "postgres://u:p@db/clearview",
	}

	c := base
	c.StorageType = config.StorageRedis
	cfg := ConfigFrom(&c, nil)
	require.NotNil(t, cfg.RedisConfig)
	assert.Equal(t, "redis://cache:6379", cfg.RedisConfig.URL)
	assert.Equal(t, time.Hour, cfg.AuthConfig.SessionDuration)
	assert.Equal(t, 11, cfg.BcryptCost)

	c.StorageType = config.StorageSQLite
	cfg = ConfigFrom(&c, nil)
	require.NotNil(t, cfg.SQLConfig)
	assert.Equal(t, "data/users.db", cfg.SQLConfig.DSN)

	c.StorageType = config.StoragePostgres
	cfg = ConfigFrom(&c, nil)
	require.NotNil(t, cfg.SQLConfig)
	assert.Equal(t, sqlstorage.DialectPostgres, cfg.SQLConfig.Dialect)
	assert.Equal(t, "postgres://u:p@db/clearview", cfg.SQLConfig.DSN)
}
