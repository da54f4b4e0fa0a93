package ferry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/store"
)

// Config holds ferry configuration.
type Config struct {
	// Raw is the source store plus the table to read.
	Raw config.RawConfig
	// Derived is the destination store, fully rebuilt on success.
	Derived config.StoreConfig
	// Ferry carries the geographic and binning parameters.
	Ferry config.FerryConfig
	// AppVersion is recorded in the metadata table.
	AppVersion string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Ferry drives one raw-to-derived transform run.
type Ferry struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a ferry. Stores are opened lazily inside Run.
func New(cfg Config) *Ferry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ferry{cfg: cfg, logger: logger}
}

// Result summarizes a completed run for the CLI.
type Result struct {
	RunID           string
	InputRecords    int
	OutputRecords   int
	SOCCount        int
	CompetitorCount int
	Warnings        WarningCounts
	Completeness    []CompletenessRow
	AvgCompleteness float64
	Distribution    []TierCount

	// Mean quality score per group; nil when a group has no scored rows.
	SOCQualityMean        *float64
	CompetitorQualityMean *float64

	Elapsed time.Duration
}

// Run executes the full pipeline: read, validate, standardize, enrich,
// partition, aggregate, write. Fatal validation problems surface as a
// *ValidationError and nothing is written.
func (f *Ferry) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := f.logger.With("run_id", runID)

	logger.Info("starting ferry run",
		"raw", locationOf(f.cfg.Raw.StoreConfig), "table", f.cfg.Raw.Table,
		"derived", locationOf(f.cfg.Derived))

	rows, err := f.readRaw(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded raw records", "count", len(rows))

	report := Validate(rows, f.cfg.Ferry)
	if verr := report.Fatal(); verr != nil {
		logger.Error("validation failed", "problems", len(verr.Problems))
		return nil, verr
	}
	logger.Info("validation passed", "warnings", report.Warnings.Total())

	standardized := Standardize(rows, report.Masks)
	enriched := Enrich(standardized, report.Masks, f.cfg.Ferry)
	soc, competitors := Partition(enriched)
	logger.Info("enriched records", "soc", len(soc), "competitors", len(competitors))

	completeness := Completeness(rows)
	distribution := QualityDistribution(enriched)
	avgCompleteness := AvgCompleteness(completeness)

	tables := &Tables{
		Complete:     enriched,
		SOC:          soc,
		Competitors:  competitors,
		Completeness: completeness,
		Distribution: distribution,
		Metadata: Metadata{
			FerryDate:          time.Now().UTC().Format(time.RFC3339),
			RunID:              runID,
			GoVersion:          runtime.Version(),
			AppVersion:         f.cfg.AppVersion,
			InputPath:          locationOf(f.cfg.Raw.StoreConfig),
			InputTable:         f.cfg.Raw.Table,
			InputRecords:       len(rows),
			OutputPath:         locationOf(f.cfg.Derived),
			OutputRecords:      len(enriched),
			ValidationErrors:   len(report.Problems),
			ValidationWarnings: report.Warnings.Total(),
			AvgCompleteness:    avgCompleteness,
		},
	}

	if err := f.writeDerived(ctx, tables); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:                 runID,
		InputRecords:          len(rows),
		OutputRecords:         len(enriched),
		SOCCount:              len(soc),
		CompetitorCount:       len(competitors),
		Warnings:              report.Warnings,
		Completeness:          completeness,
		AvgCompleteness:       avgCompleteness,
		Distribution:          distribution,
		SOCQualityMean:        qualityMean(soc),
		CompetitorQualityMean: qualityMean(competitors),
		Elapsed:               time.Since(start),
	}

	logger.Info("ferry run completed",
		"records", result.OutputRecords, "elapsed_ms", result.Elapsed.Milliseconds())
	return result, nil
}

// Validate runs only the load and validation stages. Nothing is written;
// callers inspect the report's Fatal() to decide the outcome.
func (f *Ferry) Validate(ctx context.Context) (*ValidationReport, error) {
	rows, err := f.readRaw(ctx)
	if err != nil {
		return nil, err
	}
	return Validate(rows, f.cfg.Ferry), nil
}

func (f *Ferry) readRaw(ctx context.Context) ([]cafe.Raw, error) {
	st, err := store.Open(ctx, f.cfg.Raw.StoreConfig, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw store: %w", err)
	}

	rows, err := ReadRaw(ctx, st, f.cfg.Raw.Table)
	if err != nil {
		return nil, errors.Join(err, st.Close())
	}
	if err := st.Close(); err != nil {
		return nil, fmt.Errorf("failed to close raw store: %w", err)
	}
	return rows, nil
}

func (f *Ferry) writeDerived(ctx context.Context, tables *Tables) error {
	st, err := store.Open(ctx, f.cfg.Derived, f.logger)
	if err != nil {
		return fmt.Errorf("failed to open derived store: %w", err)
	}

	if err := WriteDerived(ctx, st, tables); err != nil {
		return errors.Join(fmt.Errorf("failed to write derived store: %w", err), st.Close())
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("failed to close derived store: %w", err)
	}
	return nil
}

// qualityMean is the mean quality score over rows that have one.
func qualityMean(rows []cafe.Enriched) *float64 {
	scores := make(stats.Float64Data, 0, len(rows))
	for _, r := range rows {
		if r.QualityScore != nil {
			scores = append(scores, *r.QualityScore)
		}
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		return nil
	}
	return &mean
}

// locationOf names where a store lives: the file path for file-backed
// stores, the database name for server-backed ones.
func locationOf(cfg config.StoreConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return cfg.Database
}
