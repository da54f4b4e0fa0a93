package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/store"
)

// rawColumn pairs a raw table column with its SQL type and the value it
// takes from a record. The table carries no constraints; raw data makes no
// guarantees and the ferry's validator is where guarantees are checked.
type rawColumn struct {
	name  string
	typ   string
	value func(r cafe.Raw) any
}

func rawColumns() []rawColumn {
	return []rawColumn{
		{"cafe_id", "BIGINT", func(r cafe.Raw) any { return r.CafeID }},
		{"name", "TEXT", func(r cafe.Raw) any { return r.Name }},
		{"address", "TEXT", func(r cafe.Raw) any { return r.Address }},
		{"neighborhood", "TEXT", func(r cafe.Raw) any { return r.Neighborhood }},
		{"latitude", "DOUBLE PRECISION", func(r cafe.Raw) any { return r.Latitude }},
		{"longitude", "DOUBLE PRECISION", func(r cafe.Raw) any { return r.Longitude }},
		{"phone", "TEXT", func(r cafe.Raw) any { return r.Phone }},
		{"website", "TEXT", func(r cafe.Raw) any { return r.Website }},
		{"cafe_type", "TEXT", func(r cafe.Raw) any { return r.CafeType }},
		{"ownership", "TEXT", func(r cafe.Raw) any { return r.Ownership }},
		{"avg_beverage_price", "DOUBLE PRECISION", func(r cafe.Raw) any { return r.AvgBeveragePrice }},
		{"has_food", "TEXT", func(r cafe.Raw) any { return r.HasFood }},
		{"has_wifi", "TEXT", func(r cafe.Raw) any { return r.HasWifi }},
		{"seating_capacity", "BIGINT", func(r cafe.Raw) any { return r.SeatingCapacity }},
		{"ambiance", "TEXT", func(r cafe.Raw) any { return r.Ambiance }},
		{"parking_availability", "TEXT", func(r cafe.Raw) any { return r.ParkingAvailability }},
		{"hours_weekday", "TEXT", func(r cafe.Raw) any { return r.HoursWeekday }},
		{"hours_weekend", "TEXT", func(r cafe.Raw) any { return r.HoursWeekend }},
		{"date_opened", "TEXT", func(r cafe.Raw) any { return r.DateOpened }},
		{"instagram_handle", "TEXT", func(r cafe.Raw) any { return r.InstagramHandle }},
		{"google_rating", "DOUBLE PRECISION", func(r cafe.Raw) any { return r.GoogleRating }},
		{"review_count", "BIGINT", func(r cafe.Raw) any { return r.ReviewCount }},
		{"created_at", "TEXT", func(r cafe.Raw) any { return r.CreatedAt }},
		{"updated_at", "TEXT", func(r cafe.Raw) any { return r.UpdatedAt }},
	}
}

// WriteRaw atomically replaces the raw table with the dataset. Either the
// whole table lands or the previous store contents survive.
func WriteRaw(ctx context.Context, st store.Store, table string, rows []cafe.Raw) error {
	cols := rawColumns()

	names := make([]string, len(cols))
	defs := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		defs[i] = c.name + " " + c.typ
		ph[i] = st.Placeholder(i + 1)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(ph, ", "))

	return st.Rebuild(ctx, func(ex store.Execer) error {
		if _, err := ex.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
		create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
		if _, err := ex.ExecContext(ctx, create); err != nil {
			return fmt.Errorf("failed to create %s: %w", table, err)
		}

		args := make([]any, len(cols))
		for _, r := range rows {
			for i, c := range cols {
				args[i] = c.value(r)
			}
			if _, err := ex.ExecContext(ctx, insert, args...); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", table, err)
			}
		}
		return nil
	})
}
