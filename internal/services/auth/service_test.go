package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearview-aqi/dashboard/internal/dependencies/mocks"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/services/credentials"
	"github.com/clearview-aqi/dashboard/internal/storage/memory"
	"github.com/clearview-aqi/dashboard/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	creds := credentials.New(s.storage, credentials.NewBcryptHasher(bcrypt.MinCost), s.clock, testutil.NopLogger())
	s.service = New(creds, s.storage, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) newSession() *model.Session {
	session, err := s.service.NewSession(s.ctx)
	s.Require().NoError(err)
	return session
}

func (s *ServiceSuite) signup(username, password string) {
	s.Require().NoError(s.service.Signup(s.ctx, username, password, password))
}

// NewSession tests

func (s *ServiceSuite) TestNewSessionIsAnonymous() {
	s.random.QueueToken("tok-anon")

	session := s.newSession()

	s.Equal("tok-anon", session.Token)
	s.Equal(model.SessionAnonymous, session.State)
	s.Empty(session.Username)
	s.False(session.IsAuthenticated())
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestNewSessionIsStored() {
	session := s.newSession()

	stored, err := s.storage.GetSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.SessionAnonymous, stored.State)
}

func (s *ServiceSuite) TestCustomSessionDuration() {
	creds := credentials.New(s.storage, credentials.NewBcryptHasher(bcrypt.MinCost), s.clock, testutil.NopLogger())
	svc := New(creds, s.storage, s.clock, s.random, Config{SessionDuration: time.Hour}, testutil.NopLogger())

	session, err := svc.NewSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestAnonymousIsNotStored() {
	session := s.service.Anonymous()

	s.Empty(session.Token)
	s.Equal(model.SessionAnonymous, session.State)

	removed, err := s.storage.DeleteExpiredSessions(s.ctx, s.clock.Now().Add(48*time.Hour))
	s.Require().NoError(err)
	s.Zero(removed)
}

func (s *ServiceSuite) TestLoginFromAnonymousStoresOnlyTheAuthenticatedSession() {
	s.signup("alice", "Secret123")
	s.random.QueueToken("tok-auth")
	session := s.service.Anonymous()

	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))
	s.Equal("tok-auth", session.Token)

	removed, err := s.storage.DeleteExpiredSessions(s.ctx, s.clock.Now().Add(48*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, removed)
}

// Signup tests

func (s *ServiceSuite) TestSignupLeavesSessionAnonymous() {
	session := s.newSession()

	s.signup("alice", "Secret123")

	resumed, err := s.service.Resume(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.SessionAnonymous, resumed.State)
}

func (s *ServiceSuite) TestSignupPasswordMismatchTouchesNothing() {
	err := s.service.Signup(s.ctx, "alice", "Secret123", "Secret124")
	s.ErrorIs(err, ErrPasswordMismatch)

	_, err = s.storage.GetUser(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestSignupMismatchCheckedBeforeDuplicate() {
	s.signup("alice", "Secret123")

	err := s.service.Signup(s.ctx, "alice", "a", "b")
	s.ErrorIs(err, ErrPasswordMismatch)
}

func (s *ServiceSuite) TestSignupDuplicate() {
	s.signup("alice", "Secret123")

	err := s.service.Signup(s.ctx, "alice", "Other456", "Other456")
	s.ErrorIs(err, credentials.ErrDuplicateUser)
}

// Login tests

func (s *ServiceSuite) TestLoginAuthenticates() {
	s.signup("alice", "Secret123")
	session := s.newSession()

	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))

	s.True(session.IsAuthenticated())
	s.Equal("alice", session.Username)
}

func (s *ServiceSuite) TestLoginRotatesToken() {
	s.signup("alice", "Secret123")
	s.random.QueueToken("before", "after")
	session := s.newSession()

	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))

	s.Equal("after", session.Token)
	_, err := s.service.Resume(s.ctx, "before")
	s.ErrorIs(err, ErrInvalidSession)

	resumed, err := s.service.Resume(s.ctx, "after")
	s.Require().NoError(err)
	s.Equal("alice", resumed.Username)
	s.Equal(model.SessionAuthenticated, resumed.State)
}

func (s *ServiceSuite) TestLoginWrongPasswordLeavesSessionUnchanged() {
	s.signup("alice", "Secret123")
	session := s.newSession()
	before := *session

	err := s.service.Login(s.ctx, session, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Equal(before, *session)

	_, err = s.service.Resume(s.ctx, session.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestLoginUnknownUserIsIndistinguishable() {
	s.signup("alice", "Secret123")

	wrongPassword := s.service.Login(s.ctx, s.newSession(), "alice", "wrong")
	unknownUser := s.service.Login(s.ctx, s.newSession(), "nobody", "Secret123")

	s.ErrorIs(wrongPassword, ErrInvalidCredentials)
	s.ErrorIs(unknownUser, ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownUser.Error())
}

func (s *ServiceSuite) TestLoginAlreadyAuthenticated() {
	s.signup("alice", "Secret123")
	s.signup("bob", "Hunter22")
	session := s.newSession()
	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))

	err := s.service.Login(s.ctx, session, "bob", "Hunter22")
	s.ErrorIs(err, ErrAlreadyAuthenticated)
	s.Equal("alice", session.Username)
}

func (s *ServiceSuite) TestLoginNilSession() {
	s.ErrorIs(s.service.Login(s.ctx, nil, "alice", "Secret123"), ErrInvalidSession)
}

func (s *ServiceSuite) TestLoginSurfacesStoreErrors() {
	boom := errors.New("store offline")
	svc := New(failingCredentials{err: boom}, s.storage, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	session := s.newSession()

	err := svc.Login(s.ctx, session, "alice", "Secret123")
	s.ErrorIs(err, boom)
	s.False(session.IsAuthenticated())
}

// Logout tests

func (s *ServiceSuite) TestLogoutReturnsToAnonymous() {
	s.signup("alice", "Secret123")
	session := s.newSession()
	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))

	s.Require().NoError(s.service.Logout(s.ctx, session))

	s.Equal(model.SessionAnonymous, session.State)
	s.Empty(session.Username)

	resumed, err := s.service.Resume(s.ctx, session.Token)
	s.Require().NoError(err)
	s.False(resumed.IsAuthenticated())
	s.Empty(resumed.Username)
}

func (s *ServiceSuite) TestLogoutAnonymousIsNoop() {
	session := s.newSession()
	before := *session

	s.NoError(s.service.Logout(s.ctx, session))
	s.Equal(before, *session)
}

func (s *ServiceSuite) TestLoginAgainAfterLogout() {
	s.signup("alice", "Secret123")
	session := s.newSession()
	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))
	s.Require().NoError(s.service.Logout(s.ctx, session))

	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))
	s.True(session.IsAuthenticated())
}

// Resume / End tests

func (s *ServiceSuite) TestResumeUnknownToken() {
	_, err := s.service.Resume(s.ctx, "missing")
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.Resume(s.ctx, "")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestResumeExpiredRemovesSession() {
	session := s.newSession()

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.Resume(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.storage.GetSession(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestEndDiscardsSession() {
	session := s.newSession()

	s.Require().NoError(s.service.End(s.ctx, session.Token))

	_, err := s.service.Resume(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1 := s.newSession()

	// Advance time so session1 expires
	s.clock.Advance(25 * time.Hour)

	session2 := s.newSession()

	removed, err := s.service.CleanExpiredSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.storage.GetSession(s.ctx, session1.Token)
	s.ErrorIs(err, model.ErrSessionNotFound)

	_, err = s.service.Resume(s.ctx, session2.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestRunCleanupStopsWithContext() {
	session := s.newSession()
	s.clock.Advance(25 * time.Hour)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.service.RunCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	s.Eventually(func() bool {
		_, err := s.storage.GetSession(s.ctx, session.Token)
		return errors.Is(err, model.ErrSessionNotFound)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("RunCleanup did not return after cancel")
	}
}

// Scenario

func (s *ServiceSuite) TestAliceScenario() {
	session := s.newSession()
	s.Equal(model.SessionAnonymous, session.State)

	s.Require().NoError(s.service.Signup(s.ctx, "alice", "Secret123", "Secret123"))
	s.ErrorIs(s.service.Signup(s.ctx, "alice", "Other456", "Other456"), credentials.ErrDuplicateUser)

	s.ErrorIs(s.service.Login(s.ctx, session, "alice", "wrong"), ErrInvalidCredentials)
	s.Equal(model.SessionAnonymous, session.State)

	s.Require().NoError(s.service.Login(s.ctx, session, "alice", "Secret123"))
	s.Equal(model.SessionAuthenticated, session.State)
	s.Equal("alice", session.Username)

	s.Require().NoError(s.service.Logout(s.ctx, session))
	s.Equal(model.SessionAnonymous, session.State)
	s.Empty(session.Username)
}

type failingCredentials struct {
	err error
}

func (f failingCredentials) Register(context.Context, string, string) error {
	return f.err
}

func (f failingCredentials) Verify(context.Context, string, string) (bool, error) {
	return false, f.err
}
