package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/seed"
	"github.com/squareone-research/cafeferry/internal/store"
)

// SeedOptions holds flag overrides for the seed command.
type SeedOptions struct {
	Competitors int
	Seed        int64
	Messy       bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate the synthetic raw cafe store",
		Long: `Generate the deterministic synthetic Edmonton cafe dataset and write it
to the raw store, replacing any previous contents.

The dataset always contains the six Square One Coffee locations plus the
configured number of competitors, and the same seed always produces the
same records. --messy additionally injects the data-quality defects the
ferry corrects and flags, leaving the SOC rows clean.`,
		Example: `  # Default dataset (6 SOC + 24 competitors, seed 42)
  cafeferry seed

  # A larger market from a different draw
  cafeferry seed --competitors 80 --seed 7

  # Exercise the warning machinery end to end
  cafeferry seed --messy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Competitors, "competitors", 0, "Number of competitor cafes (default from config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (default from config)")
	cmd.Flags().BoolVar(&opts.Messy, "messy", false, "Inject data-quality defects")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	cc := newCommandContext(cmd)
	cfg := cc.cfg
	r := cc.renderer

	seedCfg := cfg.Seed
	if cmd.Flags().Changed("competitors") {
		seedCfg.Competitors = opts.Competitors
	}
	if cmd.Flags().Changed("seed") {
		seedCfg.Seed = opts.Seed
	}
	if cmd.Flags().Changed("messy") {
		seedCfg.Messy = opts.Messy
	}

	rows := seed.New(seedCfg, cc.logger).Generate()

	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Raw.StoreConfig, cc.logger)
	if err != nil {
		return fmt.Errorf("failed to open raw store: %w", err)
	}
	defer func() { _ = st.Close() }()

	if err := seed.WriteRaw(ctx, st, cfg.Raw.Table, rows); err != nil {
		return err
	}

	soc := 0
	for _, row := range rows {
		if row.Name != nil && cafe.Classify(*row.Name) == cafe.BusinessSOC {
			soc++
		}
	}
	location := storeLocation(cfg.Raw.StoreConfig)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(seedOutput{
			Records:     len(rows),
			SOC:         soc,
			Competitors: len(rows) - soc,
			Seed:        seedCfg.Seed,
			Messy:       seedCfg.Messy,
			Store:       location,
			Table:       cfg.Raw.Table,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Seed"))
		r.Println("")
		r.Println(output.FormatKeyValue("Records", len(rows)))
		r.Println(output.FormatKeyValue("SOC locations", soc))
		r.Println(output.FormatKeyValue("Competitors", len(rows)-soc))
		r.Println(output.FormatKeyValue("Seed", seedCfg.Seed))
		r.Println(output.FormatKeyValue("Messy", seedCfg.Messy))
		r.Println(output.FormatKeyValue("Store", location))
		r.Println(output.FormatKeyValue("Table", cfg.Raw.Table))
	default:
		r.Header(1, "Seed")
		r.StatusLine(cfg.Raw.Table, "success",
			fmt.Sprintf("%d records (%d SOC, %d competitors), seed %d", len(rows), soc, len(rows)-soc, seedCfg.Seed))
		if seedCfg.Messy {
			r.StatusLine("messy mode", "warning", "data-quality defects injected")
		}
		r.Println("")
		r.Success("Raw store written to " + location)
	}
	return nil
}

type seedOutput struct {
	Records     int    `json:"records"`
	SOC         int    `json:"soc"`
	Competitors int    `json:"competitors"`
	Seed        int64  `json:"seed"`
	Messy       bool   `json:"messy"`
	Store       string `json:"store"`
	Table       string `json:"table"`
}
