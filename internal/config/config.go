// Package config loads thinkforge settings from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/abhisek/thinkforge/internal/cache"
	"github.com/abhisek/thinkforge/internal/engine"
	"github.com/abhisek/thinkforge/internal/logging"
	"github.com/abhisek/thinkforge/internal/scheduler"
	"github.com/abhisek/thinkforge/internal/store"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "pgx".
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite or a connection URL for pgx. An empty
	// DSN with sqlite means the per-user data directory.
	DSN string `yaml:"dsn"`
}

// Config is the complete application configuration.
type Config struct {
	Database  DatabaseConfig   `yaml:"database"`
	Cache     cache.Config     `yaml:"cache"`
	Log       logging.Config   `yaml:"log"`
	Scheduler scheduler.Config `yaml:"scheduler"`
	Engine    engine.Config    `yaml:"engine"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Database:  DatabaseConfig{Driver: store.DriverSQLite},
		Cache:     cache.DefaultConfig(),
		Log:       logging.DefaultConfig(),
		Scheduler: scheduler.DefaultConfig(),
		Engine:    engine.DefaultConfig(),
	}
}

// Load reads path over the defaults, then applies THINKFORGE_* environment
// overrides. A missing path is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("THINKFORGE_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("THINKFORGE_DB"); v != "" {
		cfg.Database.DSN = v
	}

	if v := os.Getenv("THINKFORGE_CACHE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("THINKFORGE_CACHE_ENABLED: %w", err)
		}
		cfg.Cache.Enabled = b
	}
	if v := os.Getenv("THINKFORGE_REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("THINKFORGE_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("THINKFORGE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("THINKFORGE_CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = d
	}

	if v := os.Getenv("THINKFORGE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("THINKFORGE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("THINKFORGE_SCHEDULE_AT"); v != "" {
		cfg.Scheduler.At = v
	}

	if v := os.Getenv("THINKFORGE_MASTERY_RETENTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("THINKFORGE_MASTERY_RETENTION: %w", err)
		}
		cfg.Engine.Mastery.Retention = f
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case store.DriverSQLite:
	case store.DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the pgx driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Scheduler.ActiveWithin <= 0 {
		return errors.New("scheduler.active_within must be positive")
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}
