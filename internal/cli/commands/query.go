package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/store"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
	Target string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the raw or derived store",
		Long: `Run read-only SQL against a cafeferry store.

Queries run against the derived store unless --store raw is given. Only
statements that cannot modify data are accepted; a run rebuilds the
derived store from scratch, so there is nothing to edit in place.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  cafeferry query "SELECT neighborhood, COUNT(*) AS n FROM cafes_complete GROUP BY neighborhood"

  # List tables in the derived store
  cafeferry query tables

  # Show schema for a table
  cafeferry query schema cafes_complete

  # Query the raw store instead
  cafeferry query --store raw "SELECT COUNT(*) FROM cafes"

  # Output as JSON
  cafeferry query "SELECT * FROM soc_locations" --format json

  # Interactive mode
  cafeferry query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.PersistentFlags().StringVar(&opts.Target, "store", "derived", "Store to query: derived, raw")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("store", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"derived", "raw"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cc := newCommandContext(cmd)

	storeCfg, err := resolveStoreConfig(cc.cfg, opts.Target)
	if err != nil {
		return err
	}

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cc, storeCfg, opts)
	}

	st, err := openQueryStore(cmd.Context(), storeCfg, cc)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), st, sqlQuery, opts.Format)
}

// resolveStoreConfig maps the --store flag to a configured store section.
func resolveStoreConfig(cfg *config.Config, target string) (config.StoreConfig, error) {
	switch target {
	case "", "derived":
		return cfg.Derived, nil
	case "raw":
		return cfg.Raw.StoreConfig, nil
	default:
		return config.StoreConfig{}, fmt.Errorf("unknown store %q (expected derived or raw)", target)
	}
}

// openQueryStore connects to a store, failing early with a hint when a
// file-backed store has not been created yet.
func openQueryStore(ctx context.Context, cfg config.StoreConfig, cc *commandContext) (store.Store, error) {
	if cfg.Path != "" {
		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
			return nil, fmt.Errorf("store not found at %s (run 'cafeferry seed' or 'cafeferry run' first)", cfg.Path)
		}
	}
	return store.Open(ctx, cfg, cc.logger)
}

func executeAndRender(ctx context.Context, w io.Writer, st store.Store, sqlQuery, format string) error {
	if err := readOnlySQL(sqlQuery); err != nil {
		return err
	}

	rows, err := st.Query(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

// readOnlySQL rejects statements whose leading keyword could modify the
// store. It is an allowlist on the first keyword, not a parser.
func readOnlySQL(query string) error {
	q := strings.TrimSpace(query)
	for strings.HasPrefix(q, "--") {
		idx := strings.IndexByte(q, '\n')
		if idx < 0 {
			q = ""
			break
		}
		q = strings.TrimSpace(q[idx+1:])
	}
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return fmt.Errorf("empty query")
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "EXPLAIN", "PRAGMA", "SHOW", "DESCRIBE", "VALUES":
		return nil
	default:
		return fmt.Errorf("only read-only statements are allowed, got %s", strings.ToUpper(fields[0]))
	}
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := newCommandContext(cmd)
			storeCfg, err := resolveStoreConfig(cc.cfg, opts.Target)
			if err != nil {
				return err
			}
			st, err := openQueryStore(cmd.Context(), storeCfg, cc)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			return listTables(cmd.Context(), cmd.OutOrStdout(), st, opts.Format)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := newCommandContext(cmd)
			storeCfg, err := resolveStoreConfig(cc.cfg, opts.Target)
			if err != nil {
				return err
			}
			st, err := openQueryStore(cmd.Context(), storeCfg, cc)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			return showSchema(cmd.Context(), cmd.OutOrStdout(), st, args[0], opts.Format)
		},
	}
}
