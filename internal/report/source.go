// Package report renders the analysis artifacts from the derived store:
// the market overview and competitive position chart families, plus the
// key-insight summaries that accompany them. It is strictly a reader; the
// ferry owns every derived value, including the SOC/competitor split.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/store"
)

// Dataset is the snapshot of cafes_complete the charts render from.
type Dataset struct {
	Cafes       []cafe.Enriched
	SOC         []cafe.Enriched
	Competitors []cafe.Enriched
}

const selectCafes = `SELECT
	neighborhood, latitude, longitude, cafe_type, ownership,
	avg_beverage_price, has_food, seating_capacity, google_rating, review_count,
	business_type, price_category, location_zone, quality_score
FROM cafes_complete ORDER BY cafe_id`

// Load reads the derived store into a Dataset. The stored business_type
// column is authoritative for the SOC/competitor split.
func Load(ctx context.Context, st store.Store) (*Dataset, error) {
	rows, err := st.Query(ctx, selectCafes)
	if err != nil {
		return nil, fmt.Errorf("failed to read cafes_complete: %w", err)
	}
	defer rows.Close()

	d := &Dataset{}
	for rows.Next() {
		var (
			e             cafe.Enriched
			businessType  string
			priceCategory *string
			locationZone  *string
		)
		if err := rows.Scan(
			&e.Neighborhood, &e.Latitude, &e.Longitude, &e.CafeType, &e.Ownership,
			&e.AvgBeveragePrice, &e.HasFood, &e.SeatingCapacity, &e.GoogleRating,
			&e.ReviewCount, &businessType, &priceCategory, &locationZone, &e.QualityScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cafes_complete row: %w", err)
		}

		bt, ok := cafe.ParseBusinessType(businessType)
		if !ok {
			return nil, fmt.Errorf("unknown business_type %q in cafes_complete", businessType)
		}
		e.BusinessType = bt
		if priceCategory != nil {
			e.PriceCategory = cafe.PriceCategory(*priceCategory)
		}
		if locationZone != nil {
			e.LocationZone = cafe.LocationZone(*locationZone)
		}

		d.Cafes = append(d.Cafes, e)
		if bt == cafe.BusinessSOC {
			d.SOC = append(d.SOC, e)
		} else {
			d.Competitors = append(d.Competitors, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cafes_complete: %w", err)
	}

	if len(d.Cafes) == 0 {
		return nil, errors.New("cafes_complete is empty; run the ferry before reporting")
	}
	return d, nil
}
