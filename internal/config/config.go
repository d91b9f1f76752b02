// Package config loads and persists tunewatch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Nomadcxx/tunewatch/internal/paths"
)

type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Options OptionsConfig `mapstructure:"options"`
	Watch   WatchConfig   `mapstructure:"watch"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LibraryConfig points at the organized music library.
type LibraryConfig struct {
	// Root is the destination base folder files are organized under.
	Root string `mapstructure:"root"`
}

// OptionsConfig contains general pipeline options.
type OptionsConfig struct {
	DryRun      bool `mapstructure:"dry_run"`
	DeleteEmpty bool `mapstructure:"delete_empty"`
	BatchSize   int  `mapstructure:"batch_size"`
}

// WatchConfig contains directories to watch for incoming music.
type WatchConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// HistoryConfig controls the move-history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // empty = ~/.config/tunewatch/history.db
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			Root: "",
		},
		Options: OptionsConfig{
			DryRun:      false,
			DeleteEmpty: false,
			BatchSize:   100,
		},
		Watch: WatchConfig{
			Dirs: []string{},
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Options.BatchSize < 1 {
		return fmt.Errorf("options.batch_size must be >= 1, got %d", c.Options.BatchSize)
	}
	return nil
}

// Load loads configuration from the default file or returns defaults.
func Load() (*Config, error) {
	configPath, err := paths.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	return LoadPath(configPath)
}

// LoadPath loads configuration from a specific file, falling back to
// defaults for anything unset or when the file does not exist.
func LoadPath(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to the default file.
func (c *Config) Save() error {
	configFile, err := paths.ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

// ConfigExists reports whether a config file is present at the default path.
func ConfigExists() bool {
	path, err := paths.ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ToTOML renders the configuration as a commented TOML document.
func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# tunewatch configuration
# Generated by: tunewatch config init

# ============================================================================
# MUSIC LIBRARY
# Destination base folder. Files are organized as:
#   <root>/<Letter>/<Album Artist>/<Album>/<original filename>
# ============================================================================
[library]
root = "%s"

# ============================================================================
# GENERAL OPTIONS
# ============================================================================
[options]
# Preview mode - don't actually move files
dry_run = %v

# Delete directories left empty under the source after organizing
delete_empty = %v

# Number of files per batch; the manifest is flushed at batch boundaries
batch_size = %d

# ============================================================================
# WATCH DIRECTORIES
# Directories monitored by 'tunewatch watch' for incoming music
# ============================================================================
[watch]
dirs = %s

# ============================================================================
# MOVE HISTORY
# Every completed move is recorded in a local database
# ============================================================================
[history]
enabled = %v
# Empty means ~/.config/tunewatch/history.db
path = "%s"

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = "%s"
# Empty means ~/.config/tunewatch/logs/tunewatch.log
file = "%s"
max_size_mb = %d
max_backups = %d
`,
		c.Library.Root,
		c.Options.DryRun,
		c.Options.DeleteEmpty,
		c.Options.BatchSize,
		tomlStringList(c.Watch.Dirs),
		c.History.Enabled,
		c.History.Path,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func tomlStringList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
