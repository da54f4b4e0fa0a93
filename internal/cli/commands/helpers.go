// Package commands implements the cafeferry subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/config"
)

// commandContext bundles the dependencies every command resolves the same
// way: the loaded config, the context logger, and the shared renderer.
type commandContext struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer *output.Renderer
}

// newCommandContext resolves the command's dependencies. Falls back to
// defaults when the root command's setup did not run, as in tests that
// invoke a subcommand directly.
func newCommandContext(cmd *cobra.Command) *commandContext {
	cfg := config.Current()
	if cfg == nil {
		cfg = config.Default()
	}
	r := output.FromContext(cmd.Context())
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
	}
	return &commandContext{
		cfg:      cfg,
		logger:   config.GetLogger(cmd.Context()),
		renderer: r,
	}
}

// storeLocation names where a store lives for display: the file path for
// file-backed stores, the database name for server-backed ones.
func storeLocation(cfg config.StoreConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return cfg.Database
}
