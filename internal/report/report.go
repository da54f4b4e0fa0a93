package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"

	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/store"
)

// Family names accepted by the report command.
const (
	FamilyMarket   = "market"
	FamilyPosition = "position"
)

// Config holds report configuration.
type Config struct {
	// Derived is the store the charts read from.
	Derived config.StoreConfig
	// Report carries the output directory and render DPI.
	Report config.ReportConfig
	// Ferry supplies the downtown reference point for the map chart.
	Ferry config.FerryConfig
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Runner renders chart families from the derived store.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a report runner. The store is opened per render call.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Artifact is one rendered chart file.
type Artifact struct {
	Name string
	Path string
}

// FamilyResult summarizes one family's render for the CLI.
type FamilyResult struct {
	Family    string
	Artifacts []Artifact
	Insights  []string
	Elapsed   time.Duration
}

// chart pairs an artifact name with its builder.
type chart struct {
	name  string
	build func() (*plot.Plot, error)
}

// Market renders the market overview family.
func (r *Runner) Market(ctx context.Context) (*FamilyResult, error) {
	return r.render(ctx, FamilyMarket)
}

// Position renders the competitive position family.
func (r *Runner) Position(ctx context.Context) (*FamilyResult, error) {
	return r.render(ctx, FamilyPosition)
}

// All renders both families, market first.
func (r *Runner) All(ctx context.Context) ([]*FamilyResult, error) {
	market, err := r.Market(ctx)
	if err != nil {
		return nil, err
	}
	position, err := r.Position(ctx)
	if err != nil {
		return nil, err
	}
	return []*FamilyResult{market, position}, nil
}

func (r *Runner) render(ctx context.Context, family string) (*FamilyResult, error) {
	start := time.Now()

	st, err := store.Open(ctx, r.cfg.Derived, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open derived store: %w", err)
	}
	defer st.Close()

	d, err := Load(ctx, st)
	if err != nil {
		return nil, err
	}
	r.logger.Info("loaded derived dataset",
		"family", family, "cafes", len(d.Cafes), "soc", len(d.SOC), "competitors", len(d.Competitors))

	var charts []chart
	var insights []string
	switch family {
	case FamilyMarket:
		charts = marketCharts(d, r.cfg.Ferry.Downtown)
		insights = marketInsights(d)
	case FamilyPosition:
		charts = positionCharts(d)
		insights = positionInsights(d)
	default:
		return nil, fmt.Errorf("unknown report family %q", family)
	}

	if err := os.MkdirAll(r.cfg.Report.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Charts within a family share only the immutable dataset, so they
	// render in parallel; each goroutine writes a distinct slot and file.
	artifacts := make([]Artifact, len(charts))
	var g errgroup.Group
	for i, c := range charts {
		g.Go(func() error {
			p, err := c.build()
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			path := filepath.Join(r.cfg.Report.OutDir, c.name)
			if err := savePNG(p, path, r.cfg.Report.DPI); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			artifacts[i] = Artifact{Name: c.name, Path: path}
			r.logger.Debug("rendered chart", "family", family, "artifact", c.name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", family, err)
	}

	elapsed := time.Since(start)
	r.logger.Info("rendered report family",
		"family", family, "charts", len(artifacts), "out_dir", r.cfg.Report.OutDir, "elapsed", elapsed)

	return &FamilyResult{
		Family:    family,
		Artifacts: artifacts,
		Insights:  insights,
		Elapsed:   elapsed,
	}, nil
}
