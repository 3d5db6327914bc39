package storage

import (
	"context"
	"time"

	"github.com/clearview-aqi/dashboard/internal/model"
)

// Storage defines the interface for credential persistence
type Storage interface {
	// CreateUser inserts a new credential row. It must be an atomic
	// unique insert: when the username is taken it returns
	// model.ErrUserExists and leaves the existing row untouched.
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)

	Close() error
}

// SessionStorage defines the interface for session persistence
type SessionStorage interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	// DeleteExpiredSessions removes sessions that expired before now
	// and returns how many were removed
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
