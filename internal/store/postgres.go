package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/squareone-research/cafeferry/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// Postgres implements the Store interface backed by a PostgreSQL database.
type Postgres struct {
	BaseStore
}

// NewPostgres creates a new PostgreSQL store instance.
// If logger is nil, a discard logger is used.
func NewPostgres(logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Postgres{
		BaseStore: BaseStore{Logger: logger},
	}
}

func init() {
	Register("postgres", func(logger *slog.Logger) Store { return NewPostgres(logger) })
}

// Kind returns the adapter name for this store.
func (p *Postgres) Kind() string {
	return "postgres"
}

// Placeholder returns the SQL parameter placeholder for position i.
func (p *Postgres) Placeholder(i int) string {
	return fmt.Sprintf("$%d", i)
}

// Connect establishes a connection to PostgreSQL.
func (p *Postgres) Connect(ctx context.Context, cfg config.StoreConfig) error {
	dsn := buildPostgresDSN(cfg)

	p.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	p.DB = db
	p.Cfg = cfg
	return nil
}

// Rebuild runs the build callback inside a single transaction.
// PostgreSQL DDL is transactional, so the dropped and recreated tables
// only become visible together on commit.
func (p *Postgres) Rebuild(ctx context.Context, build func(ex Execer) error) error {
	if p.DB == nil {
		return fmt.Errorf("database connection not established")
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}

	if err := build(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild transaction: %w", err)
	}
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg config.StoreConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// Ensure Postgres implements the Store interface
var _ Store = (*Postgres)(nil)
