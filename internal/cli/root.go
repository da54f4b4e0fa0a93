// Package cli provides the command-line interface for cafeferry.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/cli/commands"
	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/config"
)

var (
	cfgFile    string
	outputFlag string
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cafeferry",
		Short: "Cafeferry - Cafe Market Intelligence Pipeline",
		Long: `Cafeferry carries raw cafe survey records across to analysis-ready tables.

It validates a raw store, standardizes and enriches each cafe with derived
metrics, partitions the market into Square One Coffee locations and
competitors, and renders chart reports from the result.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Logs go to stderr so command output stays pipeable.
			logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(outputFlag))

			ctx := config.WithLogger(cmd.Context(), logger)
			ctx = output.NewContext(ctx, renderer)
			cmd.SetContext(ctx)

			if configFile := config.ConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Cafe market intelligence pipeline
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./cafeferry.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().String("raw-adapter", "", "Raw store adapter (sqlite|duckdb|postgres)")
	rootCmd.PersistentFlags().String("raw-path", "", "Raw store path for file adapters")
	rootCmd.PersistentFlags().String("raw-table", "", "Raw table the ferry reads from")
	rootCmd.PersistentFlags().String("derived-adapter", "", "Derived store adapter (sqlite|duckdb|postgres)")
	rootCmd.PersistentFlags().String("derived-path", "", "Derived store path for file adapters")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "auto", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for logging flags
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for adapter flags
	adapterCompletion := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "duckdb", "postgres"}, cobra.ShellCompDirectiveNoFileComp
	}
	_ = rootCmd.RegisterFlagCompletionFunc("raw-adapter", adapterCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("derived-adapter", adapterCompletion)

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(commands.VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewRunCommand(Version))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cafeferry.

To load completions:

Bash:
  $ source <(cafeferry completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cafeferry completion bash > /etc/bash_completion.d/cafeferry
  # macOS:
  $ cafeferry completion bash > $(brew --prefix)/etc/bash_completion.d/cafeferry

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cafeferry completion zsh > "${fpath[1]}/_cafeferry"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ cafeferry completion fish | source

  # To load completions for each session, execute once:
  $ cafeferry completion fish > ~/.config/fish/completions/cafeferry.fish

PowerShell:
  PS> cafeferry completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cafeferry completion powershell > cafeferry.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
