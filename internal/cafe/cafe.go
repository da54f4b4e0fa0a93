// Package cafe holds the domain types shared by the ferry, the seed
// generator, and the reporting stage: raw records as collected, enriched
// records as derived, and the table names of the derived store.
package cafe

// Derived store table names. These are part of the wire contract between the
// ferry and the reporting stage.
const (
	TableCafesComplete       = "cafes_complete"
	TableSOCLocations        = "soc_locations"
	TableCompetitors         = "competitors"
	TableCompletenessMetrics = "completeness_metrics"
	TableQualityDistribution = "quality_distribution"
	TableMetadata            = "metadata"
)

// SOCMarker is the substring that identifies a Square One Coffee location in
// a cafe name. Matching is case-insensitive.
const SOCMarker = "square one"

// RequiredFields are the raw columns that must be present in every row.
// A null in any of them is a fatal validation error.
var RequiredFields = []string{"cafe_id", "name", "neighborhood", "cafe_type"}

// Raw is one cafe record as collected, before any validation or cleanup.
// Every field is a pointer because raw data makes no guarantees; the
// validator decides which absences are fatal and which are merely flagged.
type Raw struct {
	CafeID              *int64
	Name                *string
	Address             *string
	Neighborhood        *string
	Latitude            *float64
	Longitude           *float64
	Phone               *string
	Website             *string
	CafeType            *string
	Ownership           *string
	AvgBeveragePrice    *float64
	HasFood             *string
	HasWifi             *string
	SeatingCapacity     *int64
	Ambiance            *string
	ParkingAvailability *string
	HoursWeekday        *string
	HoursWeekend        *string
	DateOpened          *string
	InstagramHandle     *string
	GoogleRating        *float64
	ReviewCount         *int64
	CreatedAt           *string
	UpdatedAt           *string
}

// Clone returns a deep copy of the record. The standardizer works on clones
// so the validator's input is never mutated.
func (r Raw) Clone() Raw {
	c := r
	c.CafeID = cloneInt(r.CafeID)
	c.Name = cloneStr(r.Name)
	c.Address = cloneStr(r.Address)
	c.Neighborhood = cloneStr(r.Neighborhood)
	c.Latitude = cloneFloat(r.Latitude)
	c.Longitude = cloneFloat(r.Longitude)
	c.Phone = cloneStr(r.Phone)
	c.Website = cloneStr(r.Website)
	c.CafeType = cloneStr(r.CafeType)
	c.Ownership = cloneStr(r.Ownership)
	c.AvgBeveragePrice = cloneFloat(r.AvgBeveragePrice)
	c.HasFood = cloneStr(r.HasFood)
	c.HasWifi = cloneStr(r.HasWifi)
	c.SeatingCapacity = cloneInt(r.SeatingCapacity)
	c.Ambiance = cloneStr(r.Ambiance)
	c.ParkingAvailability = cloneStr(r.ParkingAvailability)
	c.HoursWeekday = cloneStr(r.HoursWeekday)
	c.HoursWeekend = cloneStr(r.HoursWeekend)
	c.DateOpened = cloneStr(r.DateOpened)
	c.InstagramHandle = cloneStr(r.InstagramHandle)
	c.GoogleRating = cloneFloat(r.GoogleRating)
	c.ReviewCount = cloneInt(r.ReviewCount)
	c.CreatedAt = cloneStr(r.CreatedAt)
	c.UpdatedAt = cloneStr(r.UpdatedAt)
	return c
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Enriched is a standardized raw record plus every derived field the ferry
// computes. Categorical fields use the empty value for null; numeric derived
// fields stay pointers so null survives the round trip to the store.
type Enriched struct {
	Raw

	BusinessType         BusinessType
	PriceCategory        PriceCategory
	PopularityPercentile *float64
	QualityScore         *float64
	DistanceFromDowntown *float64
	LocationZone         LocationZone

	FlagMissingLocation     bool
	FlagNoRating            bool
	FlagNoPrice             bool
	FlagLocationOutOfBounds bool
	FlagSuspiciousPrice     bool
	QualityFlagCount        int

	QualityTier QualityTier
}

// Flags returns the five quality flags in their canonical column order.
func (e Enriched) Flags() [5]bool {
	return [5]bool{
		e.FlagMissingLocation,
		e.FlagNoRating,
		e.FlagNoPrice,
		e.FlagLocationOutOfBounds,
		e.FlagSuspiciousPrice,
	}
}

// RawColumn describes one column of the raw table for completeness
// accounting: its wire name and whether a given record has a value in it.
type RawColumn struct {
	Name     string
	Complete func(r Raw) bool
}

// RawColumns lists every raw table column in collection order. Completeness
// metrics iterate this list, and its order breaks ties when rows sort equal.
func RawColumns() []RawColumn {
	return []RawColumn{
		{"cafe_id", func(r Raw) bool { return r.CafeID != nil }},
		{"name", func(r Raw) bool { return r.Name != nil }},
		{"address", func(r Raw) bool { return r.Address != nil }},
		{"neighborhood", func(r Raw) bool { return r.Neighborhood != nil }},
		{"latitude", func(r Raw) bool { return r.Latitude != nil }},
		{"longitude", func(r Raw) bool { return r.Longitude != nil }},
		{"phone", func(r Raw) bool { return r.Phone != nil }},
		{"website", func(r Raw) bool { return r.Website != nil }},
		{"cafe_type", func(r Raw) bool { return r.CafeType != nil }},
		{"ownership", func(r Raw) bool { return r.Ownership != nil }},
		{"avg_beverage_price", func(r Raw) bool { return r.AvgBeveragePrice != nil }},
		{"has_food", func(r Raw) bool { return r.HasFood != nil }},
		{"has_wifi", func(r Raw) bool { return r.HasWifi != nil }},
		{"seating_capacity", func(r Raw) bool { return r.SeatingCapacity != nil }},
		{"ambiance", func(r Raw) bool { return r.Ambiance != nil }},
		{"parking_availability", func(r Raw) bool { return r.ParkingAvailability != nil }},
		{"hours_weekday", func(r Raw) bool { return r.HoursWeekday != nil }},
		{"hours_weekend", func(r Raw) bool { return r.HoursWeekend != nil }},
		{"date_opened", func(r Raw) bool { return r.DateOpened != nil }},
		{"instagram_handle", func(r Raw) bool { return r.InstagramHandle != nil }},
		{"google_rating", func(r Raw) bool { return r.GoogleRating != nil }},
		{"review_count", func(r Raw) bool { return r.ReviewCount != nil }},
		{"created_at", func(r Raw) bool { return r.CreatedAt != nil }},
		{"updated_at", func(r Raw) bool { return r.UpdatedAt != nil }},
	}
}
