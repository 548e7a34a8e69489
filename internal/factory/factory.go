package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/encounterlog/internal/dependencies/clock"
	"github.com/mcoot/encounterlog/internal/services/encounter"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/storage"
	"github.com/mcoot/encounterlog/internal/storage/memory"
	redisstorage "github.com/mcoot/encounterlog/internal/storage/redis"
	"github.com/mcoot/encounterlog/internal/storage/sqlite"
	"github.com/mcoot/encounterlog/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	EncounterService *encounter.Service
	RosterService    *roster.Service
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// Roster holds the display defaults
	// If NameLength is zero, roster.DefaultConfig() values are used
	Roster roster.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	rosterCfg := cfg.Roster
	if rosterCfg.NameLength == 0 {
		rosterCfg.NameLength = roster.DefaultConfig().NameLength
	}

	return newWithDependencies(store, clock.New(), rosterCfg, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rosterCfg roster.Config, logger *slog.Logger) *App {
	encounterService := encounter.New(store, clk, logger)
	rosterService := roster.New(store, rosterCfg, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, store, rosterService, logger)
	encounterService.SetNotifier(broadcaster)

	return &App{
		Storage:          store,
		Clock:            clk,
		EncounterService: encounterService,
		RosterService:    rosterService,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
	}
}

// Close stops SSE hubs and releases the storage backend
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
