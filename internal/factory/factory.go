package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/clearview-aqi/dashboard/internal/config"
	"github.com/clearview-aqi/dashboard/internal/dependencies/clock"
	"github.com/clearview-aqi/dashboard/internal/dependencies/random"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
	"github.com/clearview-aqi/dashboard/internal/services/credentials"
	"github.com/clearview-aqi/dashboard/internal/storage"
	"github.com/clearview-aqi/dashboard/internal/storage/memory"
	redisstorage "github.com/clearview-aqi/dashboard/internal/storage/redis"
	sqlstorage "github.com/clearview-aqi/dashboard/internal/storage/sql"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypeRedis    = config.StorageRedis
	StorageTypeSQLite   = config.StorageSQLite
	StorageTypePostgres = config.StoragePostgres
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions storage.SessionStorage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Credentials *credentials.Store
	AuthService *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// BcryptCost is the password hashing cost (optional)
	// Out-of-range values fall back to bcrypt.DefaultCost
	BcryptCost int
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the credential backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required if StorageType is "sqlite" or "postgres")
	SQLConfig *sqlstorage.Config
}

// ConfigFrom maps server configuration onto factory configuration
func ConfigFrom(c *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		AuthConfig:  auth.Config{SessionDuration: c.SessionDuration},
		BcryptCost:  c.BcryptCost,
		Logger:      logger,
		StorageType: c.StorageType,
	}

	switch c.StorageType {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	case StorageTypeSQLite:
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.DSN = c.SQLitePath
		cfg.SQLConfig = &sqlCfg
	case StorageTypePostgres:
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.Dialect = sqlstorage.DialectPostgres
		sqlCfg.DSN = c.DatabaseURL
		cfg.SQLConfig = &sqlCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	store, sessions, err := openStorage(cfg, clk, logger)
	if err != nil {
		return nil, err
	}

	hasher := credentials.NewBcryptHasher(cfg.BcryptCost)

	return newWithDependencies(store, sessions, clk, rnd, hasher, cfg.AuthConfig, logger), nil
}

// openStorage builds the credential store and the session store
// Redis holds both; the other durable backends keep sessions in memory
func openStorage(cfg Config, clk clock.Clock, logger *slog.Logger) (storage.Storage, storage.SessionStorage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store := memory.New()
		return store, store, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		store.WithClock(clk)
		return store, store, nil
	case StorageTypeSQLite, StorageTypePostgres:
		if cfg.SQLConfig == nil {
			return nil, nil, fmt.Errorf("SQLConfig required when StorageType is %s", storageType)
		}
		sqlCfg := *cfg.SQLConfig
		sqlCfg.Dialect = storageType
		store, err := sqlstorage.New(sqlCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, memory.New(), nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, sessions storage.SessionStorage, clk clock.Clock, rnd random.Random, hasher credentials.Hasher, authCfg auth.Config, logger *slog.Logger) *App {
	credentialStore := credentials.New(store, hasher, clk, logger)
	authService := auth.New(credentialStore, sessions, clk, rnd, authCfg, logger)

	return &App{
		Storage:     store,
		Sessions:    sessions,
		Clock:       clk,
		Random:      rnd,
		Credentials: credentialStore,
		AuthService: authService,
	}
}

// Close releases the storage backends
func (a *App) Close() error {
	err := a.Storage.Close()
	if closer, ok := a.Sessions.(io.Closer); ok && any(a.Sessions) != any(a.Storage) {
		err = errors.Join(err, closer.Close())
	}
	return err
}
