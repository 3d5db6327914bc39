// Package credentials is the durable username to password-hash store.
//
// Passwords are hashed with a per-record salt before they reach storage and
// are only ever checked through the hasher's constant-time comparison.
// Uniqueness of usernames is enforced by the storage backend's atomic
// insert, so two concurrent registrations for one name cannot both succeed.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clearview-aqi/dashboard/internal/dependencies/clock"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/storage"
)

// Errors
var (
	ErrDuplicateUser   = fmt.Errorf("duplicate user: %w", model.ErrUserExists)
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// dummyPassword is hashed once and compared against when the username is
// unknown, so a miss costs the same as a wrong password
const dummyPassword = "clearview-unknown-user"

// Store registers and verifies user credentials
type Store struct {
	storage storage.Storage
	hasher  Hasher
	clock   clock.Clock
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
	dummyErr  error
}

// New creates a Store over the given storage backend
func New(store storage.Storage, hasher Hasher, clk clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		storage: store,
		hasher:  hasher,
		clock:   clk,
		logger:  logger,
	}
}

// Register hashes password and inserts a new credential for username
// Returns ErrDuplicateUser if the username is taken; the stored row is untouched
func (s *Store) Register(ctx context.Context, username, password string) error {
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("store credential: %w", err)
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Verify reports whether password matches the stored hash for username
// An unknown username yields false after an equivalent amount of hashing work
func (s *Store) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := s.storage.GetUser(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		s.burnCompare(password)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load credential: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, []byte(password))
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return ok, nil
}

func (s *Store) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, s.dummyErr = s.hasher.Hash([]byte(dummyPassword))
	})
	if s.dummyErr != nil {
		s.logger.Warn("dummy hash unavailable", slog.String("error", s.dummyErr.Error()))
		return
	}
	_, _ = s.hasher.Compare(s.dummyHash, []byte(password))
}
