package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"skinsight/internal/config"
	"skinsight/internal/diagnosis"
)

// Adapter is the persistence surface the session manager depends on.
type Adapter interface {
	SaveState(ctx context.Context, settings diagnosis.Settings, analysis *diagnosis.Analysis) error
	LoadState(ctx context.Context) (diagnosis.Settings, *diagnosis.Analysis, error)
	AppendProgress(ctx context.Context, entry diagnosis.DailyProgress) error
	ProgressHistory(ctx context.Context, limit int) ([]diagnosis.DailyProgress, error)
	Export(ctx context.Context) ([]byte, string, error)
	Import(ctx context.Context, data []byte) error
	Reset(ctx context.Context) error
}

// Store persists snapshots and progress history in SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the state database. A file lock on the
// data directory enforces single-instance access.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "skinsight.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire data lock: %w", err)
	}
	if !locked {
		return nil, errors.New("data directory is locked by another skinsight instance")
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the instance lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && dbErr == nil {
			dbErr = err
		}
	}
	return dbErr
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }
