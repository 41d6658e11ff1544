package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/lifeplan/internal/logger"
	"github.com/julianstephens/lifeplan/internal/migration"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/storage/sqlstore"
)

// busyTimeoutMS is how long a statement waits on a lock held by another connection
const busyTimeoutMS = 5000

type Store struct {
	sqlstore.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{
		Store: sqlstore.New(migration.DialectSQLite),
		path:  path,
	}
}

func (s *Store) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.GetDB() == nil {
		db, err := Open(s.path)
		if err != nil {
			return err
		}
		s.Bind(db)
	}

	legacy, err := s.isLegacy()
	if err != nil {
		return err
	}
	if legacy {
		_ = s.CloseDB()
		return storage.ErrLegacyDatabase
	}

	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.GetDB() != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	db, err := Open(s.path)
	if err != nil {
		return err
	}
	s.Bind(db)

	legacy, err := s.isLegacy()
	if err == nil && legacy {
		err = storage.ErrLegacyDatabase
	}
	if err == nil {
		err = s.ValidateSchema()
	}
	if err != nil {
		_ = s.CloseDB()
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return s.CloseDB()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// Open opens a SQLite file with the settings every lifeplan connection uses.
// All access goes through a single connection.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	return db, nil
}

// isLegacy reports whether the file holds tables written by the legacy desktop planner, which
// never recorded a schema version.
func (s *Store) isLegacy() (bool, error) {
	hasData, err := TableExists(s.GetDB(), "priorities")
	if err != nil {
		return false, fmt.Errorf("failed to inspect database: %w", err)
	}
	if !hasData {
		return false, nil
	}
	hasVersion, err := TableExists(s.GetDB(), "schema_version")
	if err != nil {
		return false, fmt.Errorf("failed to inspect database: %w", err)
	}
	return !hasVersion, nil
}

// TableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func TableExists(db *sql.DB, tableName string) (bool, error) {
	var count int
	row := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
