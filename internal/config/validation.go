package config

import "errors"

var (
	ErrInvalidAutosaveDelay = errors.New("autosave delay must be positive")
	ErrInvalidMaxBackups    = errors.New("max backups must be at least 1")
	ErrInvalidDBConnection  = errors.New("database connection must be a postgres:// or postgresql:// URL")
)

func (c *Config) validate() error {
	if c.AutosaveDelay <= 0 {
		return ErrInvalidAutosaveDelay
	}
	if c.MaxBackups < 1 {
		return ErrInvalidMaxBackups
	}
	if c.DBConnection != "" && !IsPostgresURL(c.DBConnection) {
		return ErrInvalidDBConnection
	}
	return nil
}
