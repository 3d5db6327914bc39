// Package sql stores credentials in a relational database through GORM.
// SQLite is the default durable backend; PostgreSQL is selected by DSN.
package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/storage"
)

// Dialect names accepted by Config
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Config holds database connection settings
type Config struct {
	// Dialect is "sqlite" or "postgres"
	Dialect string
	// DSN is a file path (or ":memory:") for SQLite, a URL or keyword DSN for PostgreSQL
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a SQLite configuration writing to clearview.db
func DefaultConfig() Config {
	return Config{
		Dialect:         DialectSQLite,
		DSN:             "clearview.db",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// userRecord is the row layout of the users table
type userRecord struct {
	Username  string    `gorm:"column:username;primaryKey"`
	Password  []byte    `gorm:"column:password;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string {
	return "users"
}

// Storage is a GORM-backed implementation of storage.Storage
type Storage struct {
	db *gorm.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens the database and creates the users table if it is missing
func New(cfg Config, log *slog.Logger) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case DialectSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DialectPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// Maps driver unique-violation errors onto gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return NewWithDB(db)
}

// NewWithDB wraps an existing GORM handle and ensures the schema exists
func NewWithDB(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	rec := userRecord{
		Username:  user.Username,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}

	// A plain INSERT; the primary key makes it an atomic unique insert
	err := s.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &model.User{
		Username:     rec.Username,
		PasswordHash: rec.Password,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newGormLogger routes GORM warnings and errors through slog
func newGormLogger(log *slog.Logger) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(slogWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn("gorm", slog.String("message", fmt.Sprintf(format, args...)))
}
