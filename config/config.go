// Package config loads the budget configuration: a TOML file, then a .env file, then BUDGET_*
// environment variables, each overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// User is the signed in user. Empty means offline only.
	User     string       `toml:"user"`
	Currency string       `toml:"currency"`
	Cache    CacheConfig  `toml:"cache"`
	Remote   RemoteConfig `toml:"remote"`
	Server   ServerConfig `toml:"server"`
	Assist   AssistConfig `toml:"assist"`
}

// CacheConfig selects the local cache backend.
type CacheConfig struct {
	Driver string `toml:"driver"` // file, sqlite or memory
	Path   string `toml:"path"`
}

// RemoteConfig selects the remote store: a document server URL or a Postgres DSN.
type RemoteConfig struct {
	URL     string        `toml:"url"`
	DSN     string        `toml:"dsn"`
	Timeout time.Duration `toml:"timeout"`
}

// ServerConfig configures `bgt serve`.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// AssistConfig configures the assistant.
type AssistConfig struct {
	Model string `toml:"model"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return &Config{
		Currency: "INR",
		Cache: CacheConfig{
			Driver: "file",
			Path:   filepath.Join(dir, "budget"),
		},
		Remote: RemoteConfig{Timeout: 15 * time.Second},
		Server: ServerConfig{Addr: ":8080"},
		Assist: AssistConfig{Model: "gemini-2.5-flash"},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "budget.toml"
	}
	return filepath.Join(dir, "budget", "config.toml")
}

// Load reads the configuration file at path, a missing file is not an error. Then it loads
// envFile, if it exists, into the environment and applies the BUDGET_* variables.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
			}
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("env file %s: %w", envFile, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.User = getEnv("BUDGET_USER", c.User)
	c.Currency = getEnv("BUDGET_CURRENCY", c.Currency)
	c.Cache.Driver = getEnv("BUDGET_CACHE_DRIVER", c.Cache.Driver)
	c.Cache.Path = getEnv("BUDGET_CACHE_PATH", c.Cache.Path)
	c.Remote.URL = getEnv("BUDGET_REMOTE_URL", c.Remote.URL)
	c.Remote.DSN = getEnv("BUDGET_REMOTE_DSN", c.Remote.DSN)
	c.Remote.Timeout = getEnvAsDuration("BUDGET_REMOTE_TIMEOUT", c.Remote.Timeout)
	c.Server.Addr = getEnv("BUDGET_SERVER_ADDR", c.Server.Addr)
	c.Server.Metrics = getEnvAsBool("BUDGET_SERVER_METRICS", c.Server.Metrics)
	c.Assist.Model = getEnv("BUDGET_ASSIST_MODEL", c.Assist.Model)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Cache.Driver != "memory" && c.Cache.Path == "" {
		return errors.New("cache path is empty")
	}
	if c.Remote.URL != "" && c.Remote.DSN != "" {
		return errors.New("remote url and dsn are exclusive")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote timeout %v is not positive", c.Remote.Timeout)
	}
	if strings.TrimSpace(c.Currency) == "" {
		return errors.New("currency is empty")
	}
	return nil
}

// CachePath returns the path handed to the cache backend: the directory for the file driver,
// the database file for the sqlite driver.
func (c *Config) CachePath() string {
	if c.Cache.Driver == "sqlite" && filepath.Ext(c.Cache.Path) == "" {
		return filepath.Join(c.Cache.Path, "budget.db")
	}
	return c.Cache.Path
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
