package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/store"
)

func runQueryREPL(cmd *cobra.Command, cc *commandContext, storeCfg config.StoreConfig, opts *QueryOptions) error {
	ctx := cmd.Context()

	st, err := openQueryStore(ctx, storeCfg, cc)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	completer := newQueryCompleter(ctx, st)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cafeferry> ",
		HistoryFile:     historyPath(storeCfg),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cafeferry query REPL (%s store: %s)\n", opts.Target, storeLocation(storeCfg))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("cafeferry> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") {
			if handled := handleDotCommand(ctx, cmd, st, line, opts); handled {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("      ...> ")
			continue
		}
		rl.SetPrompt("cafeferry> ")

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRender(ctx, cmd.OutOrStdout(), st, query, opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// historyPath puts the history next to file-backed stores so each project
// keeps its own. Server stores get a shared file under the temp dir.
func historyPath(cfg config.StoreConfig) string {
	if cfg.Path != "" {
		return filepath.Join(filepath.Dir(cfg.Path), ".cafeferry_history")
	}
	return filepath.Join(os.TempDir(), "cafeferry_history")
}

func handleDotCommand(ctx context.Context, cmd *cobra.Command, st store.Store, line string, opts *QueryOptions) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".tables":
		if err := listTables(ctx, cmd.OutOrStdout(), st, opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .schema <table>")
			return true
		}
		if err := showSchema(ctx, cmd.OutOrStdout(), st, parts[1], opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Current format: %s\n", opts.Format)
			return true
		}
		switch parts[1] {
		case "table", "json", "csv", "md", "markdown":
			opts.Format = parts[1]
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Format set to %s\n", opts.Format)
		default:
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown format: %s (expected table, json, csv, or md)\n", parts[1])
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .tables          List tables in the store
  .schema <name>   Show schema for a table
  .format [name]   Show or set the output format
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newQueryCompleter creates a readline completer for table names.
func newQueryCompleter(ctx context.Context, st store.Store) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	rows, err := st.Query(ctx, tablesSQL(st.Kind()))
	if err == nil {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var name, typ string
			if err := rows.Scan(&name, &typ); err == nil {
				items = append(items, readline.PcItem(name))
			}
		}
		// Ignore rows.Err() as this is for autocomplete, not critical
		_ = rows.Err()
	}

	for _, kw := range []string{"SELECT", "FROM", "WHERE", "JOIN", "LIMIT"} {
		items = append(items, readline.PcItem(kw))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".format",
			readline.PcItem("table"),
			readline.PcItem("json"),
			readline.PcItem("csv"),
			readline.PcItem("md"),
		),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
