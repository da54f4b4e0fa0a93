// Package store provides database store interfaces and implementations
// for cafeferry's raw and derived databases.
//
// A Store wraps a database/sql connection for one configured database.
// Concrete stores register themselves with the registry in their init()
// functions, keyed by the adapter name used in cafeferry.yaml.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/squareone-research/cafeferry/internal/config"
)

// Execer is the statement-execution surface handed to Rebuild callbacks.
// Both *sql.DB and *sql.Tx satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store defines the interface that all database stores implement.
type Store interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg config.StoreConfig) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, query string, args ...any) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Rebuild replaces the store's contents with whatever the build
	// callback creates. The previous contents survive any failure:
	// file-backed stores build into a temporary sibling file and rename
	// it over the target on success, server-backed stores run the
	// callback inside a single transaction.
	Rebuild(ctx context.Context, build func(ex Execer) error) error

	// Kind returns the adapter name this store registered under.
	Kind() string

	// Placeholder returns the SQL parameter placeholder for position i (1-based).
	Placeholder(i int) string
}

// BaseStore provides common database/sql functionality for stores.
// Embed this struct in concrete store implementations to get standard
// Close, Exec, and Query implementations.
type BaseStore struct {
	DB     *sql.DB
	Cfg    config.StoreConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseStore) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseStore) Exec(ctx context.Context, query string, args ...any) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseStore) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseStore) IsConnected() bool {
	return b.DB != nil
}
