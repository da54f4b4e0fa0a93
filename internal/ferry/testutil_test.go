package ferry

import (
	"fmt"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
)

func ptr[T any](v T) *T { return &v }

// testFerryConfig returns the default geographic and binning parameters.
func testFerryConfig() config.FerryConfig {
	return config.Default().Ferry
}

// sampleRow returns a fully populated, in-bounds competitor record.
// Tests override individual fields as needed.
func sampleRow(id int64) cafe.Raw {
	return cafe.Raw{
		CafeID:              ptr(id),
		Name:                ptr(fmt.Sprintf("Brew House %d", id)),
		Address:             ptr(fmt.Sprintf("%d Jasper Ave", 10000+id)),
		Neighborhood:        ptr("Downtown"),
		Latitude:            ptr(53.54),
		Longitude:           ptr(-113.50),
		Phone:               ptr("780-555-0100"),
		Website:             ptr("https://example.com"),
		CafeType:            ptr("coffee_shop"),
		Ownership:           ptr("independent"),
		AvgBeveragePrice:    ptr(4.25),
		HasFood:             ptr("pastries_only"),
		HasWifi:             ptr("yes"),
		SeatingCapacity:     ptr(int64(25)),
		Ambiance:            ptr("cozy_traditional"),
		ParkingAvailability: ptr("street_only"),
		HoursWeekday:        ptr("7:00-18:00"),
		HoursWeekend:        ptr("8:00-17:00"),
		DateOpened:          ptr("2019-05-01"),
		InstagramHandle:     ptr("@brewhouse"),
		GoogleRating:        ptr(4.2),
		ReviewCount:         ptr(int64(120)),
		CreatedAt:           ptr("2024-01-01 00:00:00"),
		UpdatedAt:           ptr("2024-06-01 00:00:00"),
	}
}

// emptyMasks returns all-false masks for n rows.
func emptyMasks(n int) WarningMasks {
	return WarningMasks{
		LocationOutOfBounds: make([]bool, n),
		SuspiciousPrice:     make([]bool, n),
		InvalidRating:       make([]bool, n),
		NegativeReviews:     make([]bool, n),
	}
}
