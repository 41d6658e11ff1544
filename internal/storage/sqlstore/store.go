// Package sqlstore implements the storage operations shared by the SQLite and PostgreSQL
// backends. Statements are built with squirrel so one code path serves both placeholder styles.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/migration"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/migrations"
)

type Store struct {
	db      *sql.DB
	sb      sq.StatementBuilderType
	dialect migration.Dialect
}

func New(dialect migration.Dialect) Store {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == migration.DialectPostgres {
		placeholder = sq.Dollar
	}
	return Store{
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder),
		dialect: dialect,
	}
}

// Bind attaches an open connection. The backend owns opening and closing it.
func (s *Store) Bind(db *sql.DB) {
	s.db = db
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() migration.Dialect {
	return s.dialect
}

// CloseDB closes and detaches the connection.
func (s *Store) CloseDB() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) runner() (*migration.Runner, error) {
	if s.db == nil {
		return nil, storage.ErrNotOpen
	}
	subFS, err := fs.Sub(migrations.FS, string(s.dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect, err)
	}
	return migration.NewRunner(s.db, subFS, s.dialect), nil
}

// Migrate applies every pending embedded migration.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

func (s *Store) SchemaStatus() (migration.Status, error) {
	runner, err := s.runner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status()
}

// ValidateSchema rejects databases that were never initialized or that a newer build migrated.
func (s *Store) ValidateSchema() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return storage.ErrNotInitialized
	}
	return nil
}

// notFound maps sql.ErrNoRows onto storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// requireAffected reports storage.ErrNotFound when a keyed write touched nothing.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}
