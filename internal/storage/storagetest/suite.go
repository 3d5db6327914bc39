// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/storage"
)

// StorageSuite exercises a storage.Storage implementation
// NewStorage is called once per test and must return an empty store
type StorageSuite struct {
	suite.Suite
	NewStorage func() storage.Storage

	storage storage.Storage
	ctx     context.Context
}

func (s *StorageSuite) SetupTest() {
	s.storage = s.NewStorage()
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestCreateAndGetUser() {
	user := &model.User{
		Username:     "alice",
		PasswordHash: []byte("hash-1"),
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	got, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal([]byte("hash-1"), got.PasswordHash)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestCreateUserDuplicateKeepsOriginal() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{Username: "alice", PasswordHash: []byte("original")}))

	err := s.storage.CreateUser(s.ctx, &model.User{Username: "alice", PasswordHash: []byte("replacement")})
	s.ErrorIs(err, model.ErrUserExists)

	got, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]byte("original"), got.PasswordHash)
}

func (s *StorageSuite) TestUsernamesAreCaseSensitive() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{Username: "alice", PasswordHash: []byte("a")}))
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{Username: "Alice", PasswordHash: []byte("b")}))

	got, err := s.storage.GetUser(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal([]byte("b"), got.PasswordHash)
}

func (s *StorageSuite) TestConcurrentCreateOnlyOneSucceeds() {
	const attempts = 8

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.storage.CreateUser(s.ctx, &model.User{
				Username:     "racer",
				PasswordHash: []byte{byte(i)},
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrUserExists)
	}
	s.Equal(1, succeeded)
}

// SessionStorageSuite exercises a storage.SessionStorage implementation
type SessionStorageSuite struct {
	suite.Suite
	NewSessionStorage func() storage.SessionStorage

	storage storage.SessionStorage
	ctx     context.Context
	now     time.Time
}

func (s *SessionStorageSuite) SetupTest() {
	s.storage = s.NewSessionStorage()
	s.ctx = context.Background()
	s.now = time.Now().UTC().Truncate(time.Second)
}

func (s *SessionStorageSuite) session(token string, ttl time.Duration) *model.Session {
	return &model.Session{
		Token:     token,
		State:     model.SessionAnonymous,
		CreatedAt: s.now,
		ExpiresAt: s.now.Add(ttl),
	}
}

func (s *SessionStorageSuite) TestSaveAndGetSession() {
	sess := s.session("tok-1", time.Hour)
	sess.State = model.SessionAuthenticated
	sess.Username = "alice"

	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	got, err := s.storage.GetSession(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(model.SessionAuthenticated, got.State)
	s.Equal("alice", got.Username)
	s.True(got.ExpiresAt.Equal(sess.ExpiresAt))
}

func (s *SessionStorageSuite) TestSaveSessionOverwrites() {
	sess := s.session("tok-1", time.Hour)
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	sess.State = model.SessionAuthenticated
	sess.Username = "bob"
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	got, err := s.storage.GetSession(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal("bob", got.Username)
}

func (s *SessionStorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *SessionStorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.session("tok-1", time.Hour)))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "tok-1"))

	_, err := s.storage.GetSession(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *SessionStorageSuite) TestDeleteSessionUnknownIsNoop() {
	s.NoError(s.storage.DeleteSession(s.ctx, "missing"))
}

func (s *SessionStorageSuite) TestDeleteExpiredSessions() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.session("live", time.Hour)))
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.session("stale", time.Minute)))

	removed, err := s.storage.DeleteExpiredSessions(s.ctx, s.now.Add(10*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.storage.GetSession(s.ctx, "stale")
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.storage.GetSession(s.ctx, "live")
	s.NoError(err)
}
