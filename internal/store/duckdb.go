package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/squareone-research/cafeferry/internal/config"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DuckDB implements the Store interface backed by a DuckDB file.
type DuckDB struct {
	BaseStore
}

// NewDuckDB creates a new DuckDB store instance.
// If logger is nil, a discard logger is used.
func NewDuckDB(logger *slog.Logger) *DuckDB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDB{
		BaseStore: BaseStore{Logger: logger},
	}
}

func init() {
	Register("duckdb", func(logger *slog.Logger) Store { return NewDuckDB(logger) })
}

// Kind returns the adapter name for this store.
func (d *DuckDB) Kind() string {
	return "duckdb"
}

// Placeholder returns the SQL parameter placeholder for position i.
func (d *DuckDB) Placeholder(_ int) string {
	return "?"
}

// Connect establishes a connection to the DuckDB database.
// Use ":memory:" as the path for an in-memory database.
func (d *DuckDB) Connect(ctx context.Context, cfg config.StoreConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d.Logger.Debug("connecting to duckdb", slog.String("path", path))

	if err := ensureParentDir(path); err != nil {
		return err
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// Rebuild replaces the database file with one built by the callback.
func (d *DuckDB) Rebuild(ctx context.Context, build func(ex Execer) error) error {
	if d.Cfg.Path == "" || d.Cfg.Path == ":memory:" {
		if d.DB == nil {
			return fmt.Errorf("database connection not established")
		}
		return build(d.DB)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("failed to close store before rebuild: %w", err)
	}
	if err := rebuildFile(ctx, "duckdb", d.Cfg.Path, build); err != nil {
		return err
	}
	d.Logger.Debug("store rebuilt", slog.String("path", d.Cfg.Path))
	return d.Connect(ctx, d.Cfg)
}

// Ensure DuckDB implements the Store interface
var _ Store = (*DuckDB)(nil)
