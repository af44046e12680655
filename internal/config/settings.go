// Package config loads launcher settings from an optional YAML file and
// QLAUNCH_* environment variables.
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

	"gopkg.in/yaml.v3"

	"qlaunch/internal/clipboard"
	"qlaunch/internal/database"
	"qlaunch/internal/infrastructure/logging"
	"qlaunch/internal/translate"
)

const (
	appDirName = "qlaunch"

	// EnvConfigPath overrides the settings file location
	EnvConfigPath = "QLAUNCH_CONFIG"
)

// Settings is the launcher configuration
type Settings struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	SnippetsDir string `yaml:"snippets_dir"`
	// SearchRoots overrides the platform's file search roots when set
	SearchRoots []string          `yaml:"search_roots"`
	Clipboard   ClipboardSettings `yaml:"clipboard"`
	Translate   translate.Config  `yaml:"translate"`
	Database    *database.Config  `yaml:"database"`
}

// ClipboardSettings controls the clipboard history
type ClipboardSettings struct {
	Capacity     int           `yaml:"capacity"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns the settings for env with no file or overrides applied
func Default(env string) *Settings {
	if env == "" {
		env = "production"
	}
	level := "info"
	if env == "development" {
		level = "debug"
	}
	return &Settings{
		Environment: env,
		LogLevel:    level,
		SnippetsDir: userPath("snippets"),
		Clipboard: ClipboardSettings{
			Capacity:     clipboard.DefaultCapacity,
			PollInterval: clipboard.DefaultPollInterval,
		},
		Translate: translate.DefaultConfig(),
		Database:  database.ConfigForEnvironment(env),
	}
}

// DefaultPath is where Load looks when QLAUNCH_CONFIG is unset
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return userPath("config.yaml")
}

func userPath(name string) string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName, name)
	}
	return name
}

// Load builds Settings from defaults, the YAML file at path (skipped when
// path is empty or missing) and QLAUNCH_* variables, then validates them.
// ${VAR} references in the file are expanded from the environment.
func Load(path string) (*Settings, error) {
	s := Default(os.Getenv("QLAUNCH_ENVIRONMENT"))

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), s); err != nil {
				return nil, fmt.Errorf("failed to parse yaml: %w", err)
			}
		}
	}

	if err := s.applyEnvironment(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return s, nil
}

func (s *Settings) applyEnvironment() error {
	if v := os.Getenv("QLAUNCH_ENVIRONMENT"); v != "" {
		s.Environment = v
	}
	if v := os.Getenv("QLAUNCH_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("QLAUNCH_SNIPPETS_DIR"); v != "" {
		s.SnippetsDir = v
	}
	if v := os.Getenv("QLAUNCH_SEARCH_ROOTS"); v != "" {
		s.SearchRoots = filepath.SplitList(v)
	}
	if v := os.Getenv("QLAUNCH_CLIPBOARD_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QLAUNCH_CLIPBOARD_CAPACITY: %w", err)
		}
		s.Clipboard.Capacity = n
	}
	if v := os.Getenv("QLAUNCH_CLIPBOARD_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QLAUNCH_CLIPBOARD_POLL_INTERVAL: %w", err)
		}
		s.Clipboard.PollInterval = d
	}
	if v := os.Getenv("QLAUNCH_TRANSLATE_ENDPOINT"); v != "" {
		s.Translate.Endpoint = v
	}

	if s.Database == nil {
		s.Database = database.ConfigForEnvironment(s.Environment)
	}
	if err := s.Database.LoadFromEnvironment(); err != nil {
		return err
	}
	s.Database.Environment = s.Environment
	return nil
}

// Validate checks every section
func (s *Settings) Validate() error {
	switch s.Environment {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid environment: %s", s.Environment)
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(s.SnippetsDir) == "" {
		return fmt.Errorf("snippets_dir cannot be empty")
	}
	for i, root := range s.SearchRoots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("search_roots[%d] cannot be empty", i)
		}
	}
	if s.Clipboard.Capacity < 1 {
		return fmt.Errorf("clipboard.capacity must be at least 1, got %d", s.Clipboard.Capacity)
	}
	if s.Clipboard.PollInterval <= 0 {
		return fmt.Errorf("clipboard.poll_interval must be positive, got %v", s.Clipboard.PollInterval)
	}
	if err := s.Translate.Validate(); err != nil {
		return err
	}
	if s.Database == nil {
		return fmt.Errorf("database section is required")
	}
	return s.Database.Validate()
}

// Level returns the parsed log level; Validate guarantees it parses
func (s *Settings) Level() logging.Level {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}
