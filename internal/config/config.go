// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/encounterlog/internal/api"
	"github.com/mcoot/encounterlog/internal/factory"
	"github.com/mcoot/encounterlog/internal/services/roster"
	redisstorage "github.com/mcoot/encounterlog/internal/storage/redis"
)

// Prefix is prepended to every environment variable name
const Prefix = "ENCOUNTERLOG_"

// Config holds the server settings
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8080"`

	StorageType string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL"`
	RedisTTL    time.Duration `env:"REDIS_TTL"`
	SQLitePath  string        `env:"SQLITE_PATH" envDefault:"encounters.db"`

	HideNames  bool `env:"HIDE_NAMES"`
	NameLength int  `env:"NAME_LENGTH" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir string `env:"STATIC_DIR"`
}

// Load reads the configuration from ENCOUNTERLOG_* environment variables
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom reads the configuration from the given variables instead of the process environment
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings are consistent
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}

	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New(Prefix+"REDIS_URL is required when storage type is redis"))
		}
		if c.RedisTTL < 0 {
			errs = append(errs, errors.New("redis ttl must not be negative"))
		}
	case factory.StorageTypeSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New(Prefix+"SQLITE_PATH is required when storage type is sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage type %q", c.StorageType))
	}

	if c.NameLength <= 0 {
		errs = append(errs, fmt.Errorf("name length must be positive, got %d", c.NameLength))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// Factory returns the application factory config
func (c Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: c.StorageType,
		Roster: roster.Config{
			HideNames:  c.HideNames,
			NameLength: c.NameLength,
		},
	}

	switch c.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.EncounterTTL = c.RedisTTL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		cfg.SQLitePath = c.SQLitePath
	}

	return cfg
}

// Server returns the HTTP server config
func (c Config) Server() api.ServerConfig {
	sc := api.DefaultServerConfig()
	sc.Host = c.Host
	sc.Port = c.Port
	return sc
}
