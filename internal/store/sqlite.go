package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/squareone-research/cafeferry/internal/config"

	_ "modernc.org/sqlite" // sqlite driver
)

// SQLite implements the Store interface backed by a SQLite file.
type SQLite struct {
	BaseStore
}

// NewSQLite creates a new SQLite store instance.
// If logger is nil, a discard logger is used.
func NewSQLite(logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLite{
		BaseStore: BaseStore{Logger: logger},
	}
}

func init() {
	Register("sqlite", func(logger *slog.Logger) Store { return NewSQLite(logger) })
}

// Kind returns the adapter name for this store.
func (s *SQLite) Kind() string {
	return "sqlite"
}

// Placeholder returns the SQL parameter placeholder for position i.
func (s *SQLite) Placeholder(_ int) string {
	return "?"
}

// Connect establishes a connection to the SQLite database.
// Use ":memory:" as the path for an in-memory database.
func (s *SQLite) Connect(ctx context.Context, cfg config.StoreConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	s.Logger.Debug("connecting to sqlite", slog.String("path", path))

	if err := ensureParentDir(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	if path == ":memory:" {
		// In-memory sqlite databases are per-connection; cap the pool at one
		// so every statement sees the same database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	return nil
}

// Rebuild replaces the database file with one built by the callback.
func (s *SQLite) Rebuild(ctx context.Context, build func(ex Execer) error) error {
	if s.Cfg.Path == "" || s.Cfg.Path == ":memory:" {
		if s.DB == nil {
			return fmt.Errorf("database connection not established")
		}
		return build(s.DB)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close store before rebuild: %w", err)
	}
	if err := rebuildFile(ctx, "sqlite", s.Cfg.Path, build); err != nil {
		return err
	}
	s.Logger.Debug("store rebuilt", slog.String("path", s.Cfg.Path))
	return s.Connect(ctx, s.Cfg)
}

// ensureParentDir creates the directory that will hold a database file.
func ensureParentDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// rebuildFile builds a fresh database at a temporary sibling path and
// renames it over the target once the build succeeds. The target file
// is left untouched if any step fails.
func rebuildFile(ctx context.Context, driver, path string, build func(ex Execer) error) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	tmp := path + ".rebuild"
	_ = os.Remove(tmp)

	db, err := sql.Open(driver, tmp)
	if err != nil {
		return fmt.Errorf("failed to open %s rebuild file: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to ping %s rebuild file: %w", driver, err)
	}

	if err := build(db); err != nil {
		_ = db.Close()
		_ = os.Remove(tmp)
		return err
	}

	if err := db.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close rebuilt database: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move rebuilt database into place: %w", err)
	}
	return nil
}

// Ensure SQLite implements the Store interface
var _ Store = (*SQLite)(nil)
