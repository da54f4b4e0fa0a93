package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/cli/output"
)

// VersionInfo carries the build identifiers stamped in at link time.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display cafeferry version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info.GoVersion = runtime.Version()

			cc := newCommandContext(cmd)
			if cc.renderer.EffectiveMode() == output.ModeJSON {
				return cc.renderer.JSON(info)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "cafeferry v%s\n", info.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", info.GitCommit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", info.BuildDate)
			_, _ = fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
			return nil
		},
	}
}
