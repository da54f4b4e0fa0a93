package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/report"
)

// ReportOptions holds options for the report command.
type ReportOptions struct {
	OutDir string
	DPI    int
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:       "report [market|position|all]",
		Short:     "Render analysis charts from the derived store",
		ValidArgs: []string{report.FamilyMarket, report.FamilyPosition, "all"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `Render chart families as PNG files from the cafes_complete table.

The market family covers landscape, pricing, and offering charts. The
position family compares Square One Coffee against the competitive
field. With no argument both families are rendered.`,
		Example: `  # Render everything into ./reports
  cafeferry report

  # Only the positioning charts, at screen resolution
  cafeferry report position --dpi 96

  # Render into a different directory
  cafeferry report market --out /tmp/charts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			family := "all"
			if len(args) > 0 {
				family = args[0]
			}
			return runReport(cmd, opts, family)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", "", "Directory for rendered charts")
	cmd.Flags().IntVar(&opts.DPI, "dpi", 0, "Render resolution in dots per inch")
	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions, family string) error {
	cc := newCommandContext(cmd)
	r := cc.renderer

	reportCfg := cc.cfg.Report
	if cmd.Flags().Changed("out") {
		reportCfg.OutDir = opts.OutDir
	}
	if cmd.Flags().Changed("dpi") {
		reportCfg.DPI = opts.DPI
	}

	runner := report.New(report.Config{
		Derived: cc.cfg.Derived,
		Report:  reportCfg,
		Ferry:   cc.cfg.Ferry,
		Logger:  cc.logger,
	})

	ctx := cmd.Context()
	var results []*report.FamilyResult
	switch family {
	case report.FamilyMarket:
		res, err := runner.Market(ctx)
		if err != nil {
			return err
		}
		results = append(results, res)
	case report.FamilyPosition:
		res, err := runner.Position(ctx)
		if err != nil {
			return err
		}
		results = append(results, res)
	case "all":
		var err error
		results, err = runner.All(ctx)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown report family %q (expected market, position, or all)", family)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(newReportOutput(results, reportCfg.OutDir))
	case output.ModeMarkdown:
		renderReportMarkdown(r, results, reportCfg.OutDir)
	default:
		renderReportText(r, results, reportCfg.OutDir)
	}
	return nil
}

func renderReportText(r *output.Renderer, results []*report.FamilyResult, outDir string) {
	total := 0
	for _, res := range results {
		r.Header(1, familyTitle(res.Family))
		r.Println("")
		for _, a := range res.Artifacts {
			r.StatusLine(a.Name, "success", a.Path)
		}
		if len(res.Insights) > 0 {
			r.Println("")
			for _, line := range res.Insights {
				r.StatusLine(line, "info", "")
			}
		}
		r.Println("")
		total += len(res.Artifacts)
	}
	r.Success(fmt.Sprintf("%d chart(s) written to %s", total, outDir))
}

func renderReportMarkdown(r *output.Renderer, results []*report.FamilyResult, outDir string) {
	total := 0
	for _, res := range results {
		r.Header(2, familyTitle(res.Family))
		r.Println("")
		for _, a := range res.Artifacts {
			r.Println(output.FormatKeyValue(a.Name, a.Path))
		}
		if len(res.Insights) > 0 {
			r.Println("")
			for _, line := range res.Insights {
				r.Println("- " + line)
			}
		}
		r.Println("")
		total += len(res.Artifacts)
	}
	r.Println(fmt.Sprintf("**%d chart(s) written to %s**", total, outDir))
}

func familyTitle(family string) string {
	switch family {
	case report.FamilyMarket:
		return "Market Analysis"
	case report.FamilyPosition:
		return "Competitive Position"
	default:
		return family
	}
}

type reportOutput struct {
	OutDir   string         `json:"out_dir"`
	Families []familyOutput `json:"families"`
}

type familyOutput struct {
	Family    string           `json:"family"`
	Artifacts []artifactOutput `json:"artifacts"`
	Insights  []string         `json:"insights"`
	ElapsedMS int64            `json:"elapsed_ms"`
}

type artifactOutput struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func newReportOutput(results []*report.FamilyResult, outDir string) reportOutput {
	out := reportOutput{OutDir: outDir, Families: make([]familyOutput, 0, len(results))}
	for _, res := range results {
		fo := familyOutput{
			Family:    res.Family,
			Insights:  res.Insights,
			ElapsedMS: res.Elapsed.Milliseconds(),
			Artifacts: make([]artifactOutput, 0, len(res.Artifacts)),
		}
		for _, a := range res.Artifacts {
			fo.Artifacts = append(fo.Artifacts, artifactOutput{Name: a.Name, Path: a.Path})
		}
		out.Families = append(out.Families, fo)
	}
	return out
}
