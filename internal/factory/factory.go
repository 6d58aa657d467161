package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tankbattle/internal/config"
	"github.com/mcoot/tankbattle/internal/dependencies/clock"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/services/admin"
	"github.com/mcoot/tankbattle/internal/services/auth"
	"github.com/mcoot/tankbattle/internal/services/history"
	"github.com/mcoot/tankbattle/internal/session"
	"github.com/mcoot/tankbattle/internal/storage"
	"github.com/mcoot/tankbattle/internal/storage/memory"
	"github.com/mcoot/tankbattle/internal/storage/postgres"
	redisstorage "github.com/mcoot/tankbattle/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypePostgres = config.StoragePostgres
	StorageTypeRedis    = config.StorageRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions session.Store

	// External dependencies
	Clock clock.Clock

	// Services
	AccountService *account.Service
	AuthService    *auth.Service
	HistoryService *history.Service
	AdminService   *admin.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields take their auth.DefaultConfig() values
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "postgres" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// PostgresConfig holds connection settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// RedisConfig holds Redis connection settings (required if StorageType
	// or SessionStore is "redis")
	RedisConfig *redisstorage.Config
	// SessionStore selects where sessions live ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionStore string
	// SessionSweepInterval is how often expired in-memory sessions are
	// dropped. Zero disables the sweeper.
	SessionSweepInterval time.Duration
}

// FromConfig translates loaded settings into a factory Config
func FromConfig(c *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		AuthConfig: auth.Config{
			SessionDuration: c.Session.Duration,
			Secret:          c.Session.Secret,
		},
		Logger:               logger,
		StorageType:          c.Storage.Type,
		SessionStore:         c.Session.Store,
		SessionSweepInterval: c.Session.SweepInterval,
	}
	if c.Storage.DatabaseURL != "" {
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = c.Storage.DatabaseURL
		cfg.PostgresConfig = &pgCfg
	}
	if c.Storage.RedisURL != "" {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.Storage.RedisURL
		cfg.RedisConfig = &redisCfg
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

	store, err := OpenStorage(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()

	sessions, err := openSessions(cfg, clk, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newWithDependencies(store, sessions, clk, cfg.AuthConfig, logger, 0), nil
}

// OpenStorage connects the configured storage backend. Postgres schemas
// are created if missing.
func OpenStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pg, err := postgres.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, false); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		return pg, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'postgres' or 'redis'")
	}
}

func openSessions(cfg Config, clk clock.Clock, logger *slog.Logger) (session.Store, error) {
	switch cfg.SessionStore {
	case "", StorageTypeMemory:
		store := session.NewMemoryStore(clk, logger)
		if cfg.SessionSweepInterval > 0 {
			store.StartSweeper(cfg.SessionSweepInterval)
		}
		return store, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when SessionStore is redis")
		}
		opts, err := redis.ParseURL(cfg.RedisConfig.URL)
		if err != nil {
			return nil, err
		}
		opts.PoolSize = cfg.RedisConfig.PoolSize
		opts.MinIdleConns = cfg.RedisConfig.MinIdleConns
		return session.NewRedisStore(redis.NewClient(opts), clk), nil
	default:
		return nil, errors.New("invalid SessionStore: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	sessions session.Store,
	clk clock.Clock,
	authCfg auth.Config,
	logger *slog.Logger,
	hashCost int,
) *App {
	// Create services
	accountService := account.New(store, clk, logger)
	if hashCost > 0 {
		accountService = accountService.WithHashCost(hashCost)
	}
	authService := auth.New(accountService, sessions, clk, authCfg, logger)
	historyService := history.New(store, clk, logger)
	adminService := admin.New(accountService, historyService, logger)

	return &App{
		Storage:        store,
		Sessions:       sessions,
		Clock:          clk,
		AccountService: accountService,
		AuthService:    authService,
		HistoryService: historyService,
		AdminService:   adminService,
	}
}

// Close releases the session store and the storage backend
func (a *App) Close() error {
	return errors.Join(a.Sessions.Close(), a.Storage.Close())
}
