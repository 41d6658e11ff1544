package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/lifeplan/internal/backup"
	"github.com/julianstephens/lifeplan/internal/config"
	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/instance"
	"github.com/julianstephens/lifeplan/internal/keyring"
	"github.com/julianstephens/lifeplan/internal/logger"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/planner"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/storage/postgres"
	"github.com/julianstephens/lifeplan/internal/storage/sqlite"
)

// Context is passed to every command's Run method
type Context struct {
	Config  *config.Config
	Store   storage.Provider
	Planner *planner.Service

	lock *instance.Lock
}

func NewContext(cfg *config.Config, store storage.Provider) *Context {
	return &Context{
		Config:  cfg,
		Store:   store,
		Planner: planner.New(store),
	}
}

// OpenStore picks the backend. An explicit PostgreSQL URL wins, then a connection string
// stored in the OS keyring, then the SQLite file.
func OpenStore(cfg *config.Config) (storage.Provider, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if config.IsPostgresURL(location) {
		if valid, err := postgres.ValidateConnString(location); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed; store it with '%s keyring set' instead", constants.AppName)
			}
			return nil, err
		}
		return postgres.New(location), nil
	}

	if cfg.DBConnection == "" && cfg.DBPath == constants.DefaultConfigPath {
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using connection string from OS keyring")
			return postgres.New(connStr), nil
		case !errors.Is(err, keyring.ErrNotFound):
			logger.Debug("OS keyring unavailable", "error", err)
		}
	}

	return sqlite.NewStore(location), nil
}

// IsSQLite reports whether the store is a local file that can be backed up
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// BackupManager returns the manager for the SQLite store
func (c *Context) BackupManager() (*backup.Manager, error) {
	if !c.IsSQLite() {
		return nil, errors.New("backups are only supported for SQLite storage")
	}
	return backup.NewManager(c.Store.GetConfigPath(), backup.WithMaxBackups(c.Config.MaxBackups)), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Config.NoBackup || !c.IsSQLite() {
		return
	}
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// AcquireLock takes the single-writer lock in the config directory
func (c *Context) AcquireLock() error {
	if c.lock != nil {
		return nil
	}
	dir, err := c.Config.ConfigDir()
	if err != nil {
		return err
	}
	lock := instance.New(dir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	c.lock = lock
	return nil
}

// Close releases the lock and closes the store
func (c *Context) Close() error {
	var errs []error
	if c.lock != nil {
		errs = append(errs, c.lock.Release())
		c.lock = nil
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

// Confirm asks a yes/no question on stdin; anything but y/yes is no
func Confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ShortID is the task id prefix shown in listings
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatTask renders one task line for listings
func FormatTask(t models.Task) string {
	return fmt.Sprintf("%s  %s %s", ShortID(t.ID), t.Mark(), t.Description)
}
