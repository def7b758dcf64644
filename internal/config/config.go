package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/appclient/internal/types"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultBaseURL is where the reference server listens
	DefaultBaseURL = "http://localhost:35000"
)

var (
	// ConfigDir is the global configuration directory (~/.appclient)
	ConfigDir string

	// ConfigFile is the YAML configuration file
	ConfigFile string

	// DatabasePath is the SQLite database file for request history
	DatabasePath string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string
)

// Config holds the user-editable settings
type Config struct {
	BaseURL        string           `yaml:"baseUrl"`
	Timeout        time.Duration    `yaml:"timeout,omitempty"` // zero means no timeout
	LogLevel       string           `yaml:"logLevel,omitempty"`
	LogFile        string           `yaml:"logFile,omitempty"`
	HistoryEnabled *bool            `yaml:"historyEnabled,omitempty"`
	SurfaceErrors  bool             `yaml:"surfaceErrors,omitempty"`
	TLS            *types.TLSConfig `yaml:"tls,omitempty"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	enabled := true
	return &Config{
		BaseURL:        DefaultBaseURL,
		LogLevel:       "info",
		LogFile:        LogFile,
		HistoryEnabled: &enabled,
	}
}

// History reports whether outcomes should be recorded
func (c *Config) History() bool {
	return c.HistoryEnabled == nil || *c.HistoryEnabled
}

// Initialize sets up the configuration directory and files.
// It creates ~/.appclient/ if it doesn't exist.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".appclient"))
}

// InitializeAt sets the global paths under dir and creates a default
// configuration file when none exists.
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "appclient.db")
	LogFile = filepath.Join(ConfigDir, "appclient.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := Save(ConfigFile, Default()); err != nil {
			return err
		}
	}

	return nil
}

// Load reads a YAML configuration file. A missing file yields defaults;
// empty fields in the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LogFile == "" {
		cfg.LogFile = LogFile
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout %s", cfg.Timeout)
	}

	return cfg, nil
}

// Save writes the configuration as YAML
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
