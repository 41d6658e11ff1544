package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound wraps sql.ErrNoRows so callers can match either.
var ErrNotFound = fmt.Errorf("not found: %w", sql.ErrNoRows)

var (
	ErrNotInitialized = errors.New("storage not initialized, run 'lifeplan init' first")
	ErrNotOpen        = errors.New("storage is not open")
	ErrLegacyDatabase = errors.New("database was created by an older version of the program, run 'lifeplan init --source <file>' to import it into a new store")
)
