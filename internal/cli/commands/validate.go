package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/ferry"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Format string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the raw store without writing anything",
		Long: `Run the load and validation stages only and print the structured report.

Nothing is written. The exit status matches a real run: 2 when fatal
problems exist, 0 otherwise, so scripts can gate a run on a clean
validation.`,
		Example: `  # Human-readable report
  cafeferry validate

  # Structured output for tooling
  cafeferry validate --format json
  cafeferry validate --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cc := newCommandContext(cmd)
	r := cc.renderer

	f := ferry.New(ferry.Config{
		Raw:    cc.cfg.Raw,
		Ferry:  cc.cfg.Ferry,
		Logger: cc.logger,
	})

	report, err := f.Validate(cmd.Context())
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" && r.EffectiveMode() == output.ModeJSON {
		format = "json"
	}

	switch format {
	case "json":
		if err := r.JSON(report); err != nil {
			return err
		}
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode validation report: %w", err)
		}
		r.Printf("%s", data)
	case "", "text":
		renderValidationText(r, report)
	default:
		return fmt.Errorf("unknown format %q (expected text, json, or yaml)", format)
	}

	if verr := report.Fatal(); verr != nil {
		return verr
	}
	return nil
}

func renderValidationText(r *output.Renderer, report *ferry.ValidationReport) {
	r.Header(1, "Validation")
	r.Println("")
	r.StatusLine("records", "success", fmt.Sprintf("%d", report.Records))

	for _, p := range report.Problems {
		name := p.Check
		if p.Field != "" {
			name += " " + p.Field
		}
		detail := fmt.Sprintf("%d record(s)", p.Count)
		if len(p.CafeIDs) > 0 {
			detail += fmt.Sprintf(", cafe_ids %v", p.CafeIDs)
		}
		r.StatusLine(name, "error", detail)
	}

	for _, w := range warningBreakdown(report.Warnings) {
		if w.Count > 0 {
			r.StatusLine(w.Name, "warning", fmt.Sprintf("%d record(s)", w.Count))
		}
	}

	r.Println("")
	if len(report.Problems) > 0 {
		r.StatusLine("validation", "error", fmt.Sprintf("%d fatal problem(s), nothing will be written", len(report.Problems)))
	} else {
		r.Success(fmt.Sprintf("Validation passed with %d warning(s)", report.Warnings.Total()))
	}
}
