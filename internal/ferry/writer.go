package ferry

import (
	"context"
	"fmt"
	"strings"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/store"
)

// Metadata is the single-row audit record written alongside the derived
// tables.
type Metadata struct {
	FerryDate          string
	RunID              string
	GoVersion          string
	AppVersion         string
	InputPath          string
	InputTable         string
	InputRecords       int
	OutputPath         string
	OutputRecords      int
	ValidationErrors   int
	ValidationWarnings int
	AvgCompleteness    float64
}

// Tables is the complete content of the derived store for one run.
type Tables struct {
	Complete     []cafe.Enriched
	SOC          []cafe.Enriched
	Competitors  []cafe.Enriched
	Completeness []CompletenessRow
	Distribution []TierCount
	Metadata     Metadata
}

// WriteDerived atomically replaces the derived store with the six tables.
// Either all tables land or the previous store contents survive.
func WriteDerived(ctx context.Context, st store.Store, t *Tables) error {
	return st.Rebuild(ctx, func(ex store.Execer) error {
		if err := writeEnriched(ctx, ex, st, cafe.TableCafesComplete, t.Complete, true); err != nil {
			return err
		}
		if err := writeEnriched(ctx, ex, st, cafe.TableSOCLocations, t.SOC, false); err != nil {
			return err
		}
		if err := writeEnriched(ctx, ex, st, cafe.TableCompetitors, t.Competitors, false); err != nil {
			return err
		}
		if err := writeCompleteness(ctx, ex, st, t.Completeness); err != nil {
			return err
		}
		if err := writeDistribution(ctx, ex, st, t.Distribution); err != nil {
			return err
		}
		return writeMetadata(ctx, ex, st, t.Metadata)
	})
}

// derivedColumn binds one output column to its SQL type and the value it
// takes from an enriched record. Pointer values pass through so nil
// becomes SQL NULL.
type derivedColumn struct {
	name  string
	typ   string
	value func(e cafe.Enriched) any
}

// enrichedColumns lists the columns of the three enriched tables: the raw
// columns in collection order, then business_type (cafes_complete only),
// then the derived columns. The subset tables drop business_type because
// membership is implicit in the table itself.
func enrichedColumns(withBusinessType bool) []derivedColumn {
	cols := []derivedColumn{
		{"cafe_id", "BIGINT", func(e cafe.Enriched) any { return e.CafeID }},
		{"name", "TEXT", func(e cafe.Enriched) any { return e.Name }},
		{"address", "TEXT", func(e cafe.Enriched) any { return e.Address }},
		{"neighborhood", "TEXT", func(e cafe.Enriched) any { return e.Neighborhood }},
		{"latitude", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.Latitude }},
		{"longitude", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.Longitude }},
		{"phone", "TEXT", func(e cafe.Enriched) any { return e.Phone }},
		{"website", "TEXT", func(e cafe.Enriched) any { return e.Website }},
		{"cafe_type", "TEXT", func(e cafe.Enriched) any { return e.CafeType }},
		{"ownership", "TEXT", func(e cafe.Enriched) any { return e.Ownership }},
		{"avg_beverage_price", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.AvgBeveragePrice }},
		{"has_food", "TEXT", func(e cafe.Enriched) any { return e.HasFood }},
		{"has_wifi", "TEXT", func(e cafe.Enriched) any { return e.HasWifi }},
		{"seating_capacity", "BIGINT", func(e cafe.Enriched) any { return e.SeatingCapacity }},
		{"ambiance", "TEXT", func(e cafe.Enriched) any { return e.Ambiance }},
		{"parking_availability", "TEXT", func(e cafe.Enriched) any { return e.ParkingAvailability }},
		{"hours_weekday", "TEXT", func(e cafe.Enriched) any { return e.HoursWeekday }},
		{"hours_weekend", "TEXT", func(e cafe.Enriched) any { return e.HoursWeekend }},
		{"date_opened", "TEXT", func(e cafe.Enriched) any { return e.DateOpened }},
		{"instagram_handle", "TEXT", func(e cafe.Enriched) any { return e.InstagramHandle }},
		{"google_rating", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.GoogleRating }},
		{"review_count", "BIGINT", func(e cafe.Enriched) any { return e.ReviewCount }},
		{"created_at", "TEXT", func(e cafe.Enriched) any { return e.CreatedAt }},
		{"updated_at", "TEXT", func(e cafe.Enriched) any { return e.UpdatedAt }},
	}

	if withBusinessType {
		cols = append(cols, derivedColumn{"business_type", "TEXT", func(e cafe.Enriched) any { return string(e.BusinessType) }})
	}

	return append(cols,
		derivedColumn{"price_category", "TEXT", func(e cafe.Enriched) any { return nullLabel(string(e.PriceCategory)) }},
		derivedColumn{"popularity_percentile", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.PopularityPercentile }},
		derivedColumn{"quality_score", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.QualityScore }},
		derivedColumn{"distance_from_downtown", "DOUBLE PRECISION", func(e cafe.Enriched) any { return e.DistanceFromDowntown }},
		derivedColumn{"location_zone", "TEXT", func(e cafe.Enriched) any { return nullLabel(string(e.LocationZone)) }},
		derivedColumn{"flag_missing_location", "BOOLEAN", func(e cafe.Enriched) any { return e.FlagMissingLocation }},
		derivedColumn{"flag_no_rating", "BOOLEAN", func(e cafe.Enriched) any { return e.FlagNoRating }},
		derivedColumn{"flag_no_price", "BOOLEAN", func(e cafe.Enriched) any { return e.FlagNoPrice }},
		derivedColumn{"flag_location_out_of_bounds", "BOOLEAN", func(e cafe.Enriched) any { return e.FlagLocationOutOfBounds }},
		derivedColumn{"flag_suspicious_price", "BOOLEAN", func(e cafe.Enriched) any { return e.FlagSuspiciousPrice }},
		derivedColumn{"quality_flag_count", "BIGINT", func(e cafe.Enriched) any { return e.QualityFlagCount }},
		derivedColumn{"quality_tier", "TEXT", func(e cafe.Enriched) any { return nullLabel(string(e.QualityTier)) }},
	)
}

func writeEnriched(ctx context.Context, ex store.Execer, st store.Store, table string, rows []cafe.Enriched, withBusinessType bool) error {
	cols := enrichedColumns(withBusinessType)

	names := make([]string, len(cols))
	defs := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		defs[i] = c.name + " " + c.typ
	}

	if err := recreateTable(ctx, ex, table, defs); err != nil {
		return err
	}

	insert := insertSQL(st, table, names)
	args := make([]any, len(cols))
	for _, e := range rows {
		for i, c := range cols {
			args[i] = c.value(e)
		}
		if _, err := ex.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func writeCompleteness(ctx context.Context, ex store.Execer, st store.Store, rows []CompletenessRow) error {
	defs := []string{
		"field TEXT",
		"total_records BIGINT",
		"complete_count BIGINT",
		"missing_count BIGINT",
		"complete_rate DOUBLE PRECISION",
	}
	if err := recreateTable(ctx, ex, cafe.TableCompletenessMetrics, defs); err != nil {
		return err
	}

	insert := insertSQL(st, cafe.TableCompletenessMetrics,
		[]string{"field", "total_records", "complete_count", "missing_count", "complete_rate"})
	for _, r := range rows {
		if _, err := ex.ExecContext(ctx, insert, r.Field, r.TotalRecords, r.CompleteCount, r.MissingCount, r.CompleteRate); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", cafe.TableCompletenessMetrics, err)
		}
	}
	return nil
}

func writeDistribution(ctx context.Context, ex store.Execer, st store.Store, rows []TierCount) error {
	defs := []string{
		"quality_tier TEXT",
		"count BIGINT",
		"percentage DOUBLE PRECISION",
	}
	if err := recreateTable(ctx, ex, cafe.TableQualityDistribution, defs); err != nil {
		return err
	}

	insert := insertSQL(st, cafe.TableQualityDistribution, []string{"quality_tier", "count", "percentage"})
	for _, r := range rows {
		if _, err := ex.ExecContext(ctx, insert, string(r.Tier), r.Count, r.Percentage); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", cafe.TableQualityDistribution, err)
		}
	}
	return nil
}

func writeMetadata(ctx context.Context, ex store.Execer, st store.Store, m Metadata) error {
	defs := []string{
		"ferry_date TEXT",
		"run_id TEXT",
		"go_version TEXT",
		"app_version TEXT",
		"input_path TEXT",
		"input_table TEXT",
		"input_records BIGINT",
		"output_path TEXT",
		"output_records BIGINT",
		"validation_errors BIGINT",
		"validation_warnings BIGINT",
		"avg_completeness DOUBLE PRECISION",
	}
	if err := recreateTable(ctx, ex, cafe.TableMetadata, defs); err != nil {
		return err
	}

	insert := insertSQL(st, cafe.TableMetadata, []string{
		"ferry_date", "run_id", "go_version", "app_version",
		"input_path", "input_table", "input_records",
		"output_path", "output_records",
		"validation_errors", "validation_warnings", "avg_completeness",
	})
	if _, err := ex.ExecContext(ctx, insert,
		m.FerryDate, m.RunID, m.GoVersion, m.AppVersion,
		m.InputPath, m.InputTable, m.InputRecords,
		m.OutputPath, m.OutputRecords,
		m.ValidationErrors, m.ValidationWarnings, m.AvgCompleteness,
	); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", cafe.TableMetadata, err)
	}
	return nil
}

// recreateTable drops and recreates a table. On file stores the rebuild
// runs against a fresh file so the drop is a no-op; on server stores it
// clears the previous run inside the rebuild transaction.
func recreateTable(ctx context.Context, ex store.Execer, table string, defs []string) error {
	if _, err := ex.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := ex.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}
	return nil
}

// insertSQL builds a parameterized insert for the store's placeholder style.
func insertSQL(st store.Store, table string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = st.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(ph, ", "))
}

// nullLabel converts an empty enum label to SQL NULL.
func nullLabel(s string) any {
	if s == "" {
		return nil
	}
	return s
}
