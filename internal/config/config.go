// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can be overridden by its environment variable.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers accepted in storage.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file and can be overridden by the
// corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start when the value is
// missing.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/storage.db"`

	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
}

// Storage selects and tunes the persistence backend.
type Storage struct {
	// Driver is one of "sqlite", "postgres" or "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`

	// DatabaseURL is the PostgreSQL connection string. Required when
	// Driver is "postgres".
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	// MaxConns caps the PostgreSQL pool.
	MaxConns int32 `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"10"`
}

// HTTPServer holds settings for the HTTP server, nested under
// http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads the config file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// A clear message beats a cryptic "open: no such file" later.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config and
// loads it. Functions prefixed with "Must" may exit on failure; if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Validate checks the combinations cleanenv's tags can't express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.StoragePath == "" {
			return errors.New("config: storage_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("config: storage.database_url is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}
