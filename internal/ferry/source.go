package ferry

import (
	"context"
	"fmt"
	"strings"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/store"
)

// ReadRaw loads the entire raw table, ordered by cafe_id for a
// deterministic processing order. Null columns scan to nil pointers.
func ReadRaw(ctx context.Context, st store.Store, table string) ([]cafe.Raw, error) {
	cols := cafe.RawColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY cafe_id", strings.Join(names, ", "), table)
	rows, err := st.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []cafe.Raw
	for rows.Next() {
		var r cafe.Raw
		if err := rows.Scan(
			&r.CafeID, &r.Name, &r.Address, &r.Neighborhood,
			&r.Latitude, &r.Longitude, &r.Phone, &r.Website,
			&r.CafeType, &r.Ownership, &r.AvgBeveragePrice,
			&r.HasFood, &r.HasWifi, &r.SeatingCapacity,
			&r.Ambiance, &r.ParkingAvailability,
			&r.HoursWeekday, &r.HoursWeekend, &r.DateOpened,
			&r.InstagramHandle, &r.GoogleRating, &r.ReviewCount,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan raw row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw rows: %w", err)
	}
	return out, nil
}
