package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// starterConfig is the cafeferry.yaml init writes: every key the loader
// honors, at its default value.
const starterConfig = `# cafeferry configuration
env: dev

logging:
  level: info      # debug, info, warn, error
  format: text     # text, json

raw:
  adapter: sqlite  # sqlite, duckdb, postgres
  path: data/raw/edmonton_cafes.db
  table: cafes

derived:
  adapter: sqlite
  path: data/derived/competition_intel.db

ferry:
  bounds: {lat_min: 53.40, lat_max: 53.70, lng_min: -113.70, lng_max: -113.30}
  downtown: {lat: 53.5444, lng: -113.4909}
  price_range: {min: 2.00, max: 10.00}
  price_bins: [3.50, 5.00, 6.50]
  zone_bins: [2, 5, 10]
  tier_bins: [0, 1, 2]

seed:
  competitors: 24
  seed: 42
  messy: false

report:
  out_dir: reports
  dpi: 300
`

// dataDirs are created alongside the config so the default store paths
// resolve without further setup.
var dataDirs = []string{"data/raw", "data/derived", "reports"}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a cafeferry project",
		Long: `Initialize a cafeferry project with a starter configuration.

This creates:
  - cafeferry.yaml with every configuration key at its default
  - data/raw/ and data/derived/ for the store files
  - reports/ for rendered chart artifacts`,
		Example: `  # Initialize in the current directory
  cafeferry init

  # Initialize in a new directory
  cafeferry init edmonton-intel

  # Overwrite an existing configuration
  cafeferry init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	r := newCommandContext(cmd).renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cfgPath := filepath.Join(dir, "cafeferry.yaml")
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("cafeferry.yaml already exists, use --force to overwrite")
	}
	if err := os.WriteFile(cfgPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfgPath, err)
	}
	r.StatusLine("cafeferry.yaml", "success", "")

	for _, sub := range dataDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", sub, err)
		}
		r.StatusLine(sub+"/", "success", "")
	}

	r.Println("")
	r.Success("cafeferry project initialized")
	r.Println("")
	r.Println("Next steps:")
	r.Muted("  1. cafeferry seed          Generate the synthetic raw store")
	r.Muted("  2. cafeferry run           Ferry raw data into the derived store")
	r.Muted("  3. cafeferry report all    Render the analysis charts")
	return nil
}
