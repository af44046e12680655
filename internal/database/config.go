package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// InMemoryPath selects a private in-memory SQLite database
const InMemoryPath = ":memory:"

// Config holds the launcher's SQLite settings
type Config struct {
	// Connection
	Path                  string        `json:"path" yaml:"path"`
	MaxConnections        int           `json:"maxConnections" yaml:"max_connections"`
	MaxIdleConns          int           `json:"maxIdleConns" yaml:"max_idle_conns"`
	ConnMaxLifetime       time.Duration `json:"connMaxLifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime       time.Duration `json:"connMaxIdleTime" yaml:"conn_max_idle_time"`
	ForceSingleConnection bool          `json:"forceSingleConnection" yaml:"force_single_connection"`

	// Schema
	AutoMigrate bool `json:"autoMigrate" yaml:"auto_migrate"`

	// Pragmas
	JournalMode     string `json:"journalMode" yaml:"journal_mode"`
	SynchronousMode string `json:"synchronousMode" yaml:"synchronous_mode"`
	CacheSize       int    `json:"cacheSize" yaml:"cache_size"`     // KB
	BusyTimeout     int    `json:"busyTimeout" yaml:"busy_timeout"` // ms
	ForeignKeys     bool   `json:"foreignKeys" yaml:"foreign_keys"`

	// Launch history older than this many days is pruned at startup (0 keeps everything)
	RetentionDays int `json:"retentionDays" yaml:"retention_days"`

	Environment string `json:"environment" yaml:"environment"`
}

// DefaultConfig returns production defaults with the database stored next
// to the working directory
func DefaultConfig() *Config {
	return &Config{
		Path:            "qlaunch.db",
		MaxConnections:  4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 24 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,

		AutoMigrate: true,

		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       2000,
		BusyTimeout:     5000,
		ForeignKeys:     true,

		RetentionDays: 180,
		Environment:   "production",
	}
}

// DevelopmentConfig keeps a separate database and never prunes history
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Path = "qlaunch_dev.db"
	config.Environment = "development"
	config.RetentionDays = 0
	return config
}

// TestConfig returns an in-memory configuration
func TestConfig() *Config {
	config := DefaultConfig()
	config.Path = InMemoryPath
	config.Environment = "test"
	config.RetentionDays = 0
	config.JournalMode = "MEMORY"
	config.SynchronousMode = "OFF"
	config.CacheSize = 500
	config.BusyTimeout = 1000
	// every connection to :memory: opens its own database
	config.ForceSingleConnection = true
	return config
}

// ConfigForEnvironment picks the preset for env. Production places the
// database under the user's config directory when one is available.
func ConfigForEnvironment(env string) *Config {
	switch env {
	case "development":
		return DevelopmentConfig()
	case "test":
		return TestConfig()
	default:
		config := DefaultConfig()
		if dir, err := os.UserConfigDir(); err == nil {
			config.Path = filepath.Join(dir, "qlaunch", "qlaunch.db")
		}
		return config
	}
}

// LoadFromEnvironment applies QLAUNCH_DB_* overrides. Malformed values are
// ignored so a typo never prevents startup.
func (c *Config) LoadFromEnvironment() error {
	envString("QLAUNCH_DB_PATH", &c.Path)
	envInt("QLAUNCH_DB_MAX_CONNECTIONS", &c.MaxConnections, 1)
	envInt("QLAUNCH_DB_MAX_IDLE_CONNECTIONS", &c.MaxIdleConns, 0)
	envDuration("QLAUNCH_DB_CONN_MAX_LIFETIME", &c.ConnMaxLifetime)
	envDuration("QLAUNCH_DB_CONN_MAX_IDLE_TIME", &c.ConnMaxIdleTime)
	envBool("QLAUNCH_DB_FORCE_SINGLE_CONNECTION", &c.ForceSingleConnection)
	envBool("QLAUNCH_DB_AUTO_MIGRATE", &c.AutoMigrate)
	envString("QLAUNCH_DB_JOURNAL_MODE", &c.JournalMode)
	envString("QLAUNCH_DB_SYNCHRONOUS_MODE", &c.SynchronousMode)
	envInt("QLAUNCH_DB_CACHE_SIZE", &c.CacheSize, 1)
	envInt("QLAUNCH_DB_BUSY_TIMEOUT", &c.BusyTimeout, 0)
	envBool("QLAUNCH_DB_FOREIGN_KEYS", &c.ForeignKeys)
	envInt("QLAUNCH_DB_RETENTION_DAYS", &c.RetentionDays, 0)
	envString("QLAUNCH_ENVIRONMENT", &c.Environment)
	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int, minimum int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= minimum {
			*dst = n
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envBool(key string, dst *bool) {
	if b, ok := parseBoolEnv(key); ok {
		*dst = b
	}
}

// parseBoolEnv accepts strconv.ParseBool forms plus yes/no, y/n and on/off.
// The second result reports whether the variable held a recognised value.
func parseBoolEnv(key string) (bool, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false, false
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}
	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	}
	return false, false
}

var (
	validJournalModes = []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}
	validSyncModes    = []string{"OFF", "NORMAL", "FULL", "EXTRA"}
	validEnvironments = []string{"development", "test", "production"}
)

// Validate checks the settings and creates the database directory if needed
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if !c.IsInMemory() {
		if dir := filepath.Dir(c.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	if c.MaxConnections <= 0 {
		return fmt.Errorf("maxConnections must be positive, got %d", c.MaxConnections)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("maxIdleConns cannot be negative, got %d", c.MaxIdleConns)
	}
	if c.MaxIdleConns > c.MaxConnections {
		return fmt.Errorf("maxIdleConns (%d) cannot be greater than maxConnections (%d)", c.MaxIdleConns, c.MaxConnections)
	}
	if c.ConnMaxLifetime < 0 {
		return fmt.Errorf("connMaxLifetime cannot be negative, got %v", c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime < 0 {
		return fmt.Errorf("connMaxIdleTime cannot be negative, got %v", c.ConnMaxIdleTime)
	}

	if !containsFold(validJournalModes, c.JournalMode) {
		return fmt.Errorf("invalid journalMode: %s", c.JournalMode)
	}
	if c.IsInMemory() && strings.EqualFold(c.JournalMode, "WAL") {
		return fmt.Errorf("journalMode cannot be WAL when using in-memory database")
	}
	if !containsFold(validSyncModes, c.SynchronousMode) {
		return fmt.Errorf("invalid synchronousMode: %s", c.SynchronousMode)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cacheSize must be positive, got %d", c.CacheSize)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busyTimeout cannot be negative, got %d", c.BusyTimeout)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retentionDays cannot be negative, got %d", c.RetentionDays)
	}
	if !containsFold(validEnvironments, c.Environment) {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
	return nil
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// GetConnectionString renders the go-sqlite3 DSN with pragmas as query
// parameters. Only '?' and '&' in the path are escaped.
func (c *Config) GetConnectionString() string {
	values := url.Values{}
	if c.ForeignKeys {
		values.Set("_foreign_keys", "on")
	} else {
		values.Set("_foreign_keys", "off")
	}
	values.Set("_journal_mode", strings.ToUpper(c.JournalMode))
	values.Set("_synchronous", strings.ToUpper(c.SynchronousMode))
	// negative means KB to SQLite
	values.Set("_cache_size", strconv.Itoa(-c.CacheSize))
	values.Set("_busy_timeout", strconv.Itoa(c.BusyTimeout))

	path := strings.NewReplacer("?", "%3F", "&", "%26").Replace(c.Path)
	return path + "?" + values.Encode()
}

// Clone returns a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Retention returns the launch-history retention window, or 0 when pruning is off
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// IsInMemory reports whether the database lives only in memory
func (c *Config) IsInMemory() bool {
	return c.Path == InMemoryPath
}

// IsDevelopment reports whether the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest reports whether the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// IsProduction reports whether the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
