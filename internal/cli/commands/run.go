package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/ferry"
)

// NewRunCommand creates the run command.
func NewRunCommand(appVersion string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the ferry from the raw store to the derived store",
		Long: `Execute the full pipeline: read the raw cafe table, validate it,
standardize and enrich every record, and atomically rebuild the six
derived tables.

Fatal validation problems (missing required fields, duplicate cafe ids)
abort the run before anything is written and exit with status 2. Quality
warnings never abort; each one drives a correction or a flag and is
counted in the summary.`,
		Example: `  # Run with the configured stores
  cafeferry run

  # Run against explicit store files
  cafeferry run --raw-path data/raw/cafes.db --derived-path /tmp/intel.db

  # Machine-readable summary
  cafeferry run -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFerry(cmd, appVersion)
		},
	}
}

func runFerry(cmd *cobra.Command, appVersion string) error {
	cc := newCommandContext(cmd)
	cfg := cc.cfg
	r := cc.renderer

	f := ferry.New(ferry.Config{
		Raw:        cfg.Raw,
		Derived:    cfg.Derived,
		Ferry:      cfg.Ferry,
		AppVersion: appVersion,
		Logger:     cc.logger,
	})

	result, err := f.Run(cmd.Context())
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(newRunOutput(cc, result))
	case output.ModeMarkdown:
		renderRunMarkdown(r, cc, result)
	default:
		renderRunText(r, result)
	}
	return nil
}

// warningBreakdown pairs each warning category with its count, in the
// order the summary lists them.
func warningBreakdown(w ferry.WarningCounts) []struct {
	Name  string
	Count int
} {
	return []struct {
		Name  string
		Count int
	}{
		{"location_out_of_bounds", w.LocationOutOfBounds},
		{"suspicious_price", w.SuspiciousPrice},
		{"invalid_rating", w.InvalidRating},
		{"negative_reviews", w.NegativeReviews},
	}
}

func renderRunText(r *output.Renderer, result *ferry.Result) {
	r.Header(1, "Ferry Run")
	r.Println("")
	r.StatusLine("records", "success", fmt.Sprintf("%d in, %d out", result.InputRecords, result.OutputRecords))
	r.StatusLine("partition", "success", fmt.Sprintf("%d SOC, %d competitors", result.SOCCount, result.CompetitorCount))
	r.StatusLine("completeness", "success", fmt.Sprintf("%.1f%% average", result.AvgCompleteness))

	if total := result.Warnings.Total(); total > 0 {
		r.Println("")
		r.Header(2, fmt.Sprintf("Warnings (%d)", total))
		for _, w := range warningBreakdown(result.Warnings) {
			if w.Count > 0 {
				r.StatusLine(w.Name, "warning", fmt.Sprintf("%d record(s)", w.Count))
			}
		}
	}

	r.Println("")
	r.Header(2, "Quality Distribution")
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tier", "Count", "Share"})
	for _, d := range result.Distribution {
		t.AppendRow(table.Row{string(d.Tier), d.Count, fmt.Sprintf("%.1f%%", d.Percentage)})
	}
	t.Render()

	r.Println("")
	r.Success(fmt.Sprintf("Run %s completed in %s", result.RunID, result.Elapsed.Round(time.Millisecond)))
}

func renderRunMarkdown(r *output.Renderer, cc *commandContext, result *ferry.Result) {
	r.Println(output.FormatHeader(1, "Ferry Run"))
	r.Println("")
	r.Println(output.FormatKeyValue("Run ID", result.RunID))
	r.Println(output.FormatKeyValue("Input", storeLocation(cc.cfg.Raw.StoreConfig)))
	r.Println(output.FormatKeyValue("Output", storeLocation(cc.cfg.Derived)))
	r.Println(output.FormatKeyValue("Records", fmt.Sprintf("%d in, %d out", result.InputRecords, result.OutputRecords)))
	r.Println(output.FormatKeyValue("SOC locations", result.SOCCount))
	r.Println(output.FormatKeyValue("Competitors", result.CompetitorCount))
	r.Println(output.FormatKeyValue("Avg completeness", fmt.Sprintf("%.1f%%", result.AvgCompleteness)))
	r.Println(output.FormatKeyValue("Warnings", result.Warnings.Total()))
	r.Println("")
	r.Println(output.FormatHeader(2, "Quality Distribution"))
	r.Println("")
	r.Println("| Tier | Count | Share |")
	r.Println("| --- | --- | --- |")
	for _, d := range result.Distribution {
		r.Printf("| %s | %d | %.1f%% |\n", d.Tier, d.Count, d.Percentage)
	}
	r.Println("")
	r.Println(output.FormatKeyValue("Elapsed", result.Elapsed.Round(time.Millisecond)))
}

type runOutput struct {
	RunID           string              `json:"run_id"`
	Input           string              `json:"input"`
	Output          string              `json:"output"`
	InputRecords    int                 `json:"input_records"`
	OutputRecords   int                 `json:"output_records"`
	SOC             int                 `json:"soc"`
	Competitors     int                 `json:"competitors"`
	Warnings        ferry.WarningCounts `json:"warnings"`
	AvgCompleteness float64             `json:"avg_completeness"`
	Distribution    []tierOutput        `json:"quality_distribution"`
	ElapsedMS       int64               `json:"elapsed_ms"`
}

type tierOutput struct {
	Tier       string  `json:"tier"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

func newRunOutput(cc *commandContext, result *ferry.Result) runOutput {
	dist := make([]tierOutput, 0, len(result.Distribution))
	for _, d := range result.Distribution {
		dist = append(dist, tierOutput{Tier: string(d.Tier), Count: d.Count, Percentage: d.Percentage})
	}
	return runOutput{
		RunID:           result.RunID,
		Input:           storeLocation(cc.cfg.Raw.StoreConfig),
		Output:          storeLocation(cc.cfg.Derived),
		InputRecords:    result.InputRecords,
		OutputRecords:   result.OutputRecords,
		SOC:             result.SOCCount,
		Competitors:     result.CompetitorCount,
		Warnings:        result.Warnings,
		AvgCompleteness: result.AvgCompleteness,
		Distribution:    dist,
		ElapsedMS:       result.Elapsed.Milliseconds(),
	}
}
