package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/lifeplan/internal/constants"
)

// EnvPrefix is prepended to every variable name read by Load.
const EnvPrefix = "LIFEPLAN_"

// Config holds runtime settings. Values are layered defaults, then environment, then flags.
type Config struct {
	// DBPath is the SQLite file location. "~" is expanded to the home directory.
	DBPath string `env:"DB"`
	// DBConnection is a PostgreSQL URL. When set it takes precedence over DBPath.
	DBConnection string `env:"DB_CONNECTION"`

	Debug         bool          `env:"DEBUG"`
	AutosaveDelay time.Duration `env:"AUTOSAVE_DELAY"`
	NoBackup      bool          `env:"NO_BACKUP"`
	MaxBackups    int           `env:"MAX_BACKUPS"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DBPath:        constants.DefaultConfigPath,
		AutosaveDelay: constants.DefaultAutosaveDelay,
		MaxBackups:    constants.MaxBackups,
	}
}

// Load merges the built-in defaults, LIFEPLAN_* environment variables and the given flag
// values, in increasing precedence. A nil flags value means no flags were set.
func Load(flags *Config) (*Config, error) {
	b := newConfigBuilder().withDefaults().withEnv()
	if flags != nil {
		b = b.withFlags(flags)
	}
	return b.build()
}

// Location returns the store location: the PostgreSQL URL when configured, otherwise the
// expanded SQLite path.
func (c *Config) Location() (string, error) {
	if c.DBConnection != "" {
		return c.DBConnection, nil
	}
	return ExpandPath(c.DBPath)
}

// ConfigDir is the directory holding logs, backups and the lockfile.
func (c *Config) ConfigDir() (string, error) {
	if c.DBConnection != "" || IsPostgresURL(c.DBPath) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".config", constants.AppName), nil
	}
	path, err := ExpandPath(c.DBPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// IsPostgresURL reports whether location names a PostgreSQL server.
func IsPostgresURL(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
