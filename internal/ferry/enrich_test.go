package ferry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

func TestPriceCategory(t *testing.T) {
	bins := testFerryConfig().PriceBins

	tests := []struct {
		name  string
		price *float64
		want  cafe.PriceCategory
	}{
		{"null price", nil, ""},
		{"zero sits on the open lower edge", ptr(0.0), ""},
		{"negative price", ptr(-1.0), ""},
		{"low budget", ptr(0.01), cafe.PriceBudget},
		{"budget upper boundary", ptr(3.50), cafe.PriceBudget},
		{"just above budget", ptr(3.51), cafe.PriceModerate},
		{"moderate upper boundary", ptr(5.00), cafe.PriceModerate},
		{"premium", ptr(5.25), cafe.PricePremium},
		{"premium upper boundary", ptr(6.50), cafe.PricePremium},
		{"just above premium", ptr(6.51), cafe.PriceLuxury},
		{"far out luxury", ptr(42.0), cafe.PriceLuxury},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priceCategory(tt.price, bins))
		})
	}
}

func TestLocationZone(t *testing.T) {
	bins := testFerryConfig().ZoneBins

	tests := []struct {
		name     string
		distance *float64
		want     cafe.LocationZone
	}{
		{"null distance", nil, ""},
		{"zero sits on the open lower edge", ptr(0.0), ""},
		{"core", ptr(0.5), cafe.ZoneCore},
		{"core upper boundary", ptr(2.0), cafe.ZoneCore},
		{"just above core", ptr(2.001), cafe.ZoneInner},
		{"inner upper boundary", ptr(5.0), cafe.ZoneInner},
		{"outer", ptr(7.3), cafe.ZoneOuter},
		{"outer upper boundary", ptr(10.0), cafe.ZoneOuter},
		{"peripheral", ptr(10.001), cafe.ZonePeripheral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locationZone(tt.distance, bins))
		})
	}
}

func TestQualityTier(t *testing.T) {
	bins := testFerryConfig().TierBins

	tests := []struct {
		count int
		want  cafe.QualityTier
	}{
		{0, cafe.TierExcellent},
		{1, cafe.TierGood},
		{2, cafe.TierAcceptable},
		{3, cafe.TierPoor},
		{5, cafe.TierPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qualityTier(tt.count, bins), "count %d", tt.count)
	}
}

func TestEnrich_CleanRecord(t *testing.T) {
	cfg := testFerryConfig()

	row := sampleRow(1)
	row.AvgBeveragePrice = ptr(5.25)
	row.GoogleRating = ptr(4.6)
	row.ReviewCount = ptr(int64(300))

	out := Enrich([]cafe.Raw{row}, emptyMasks(1), cfg)
	require.Len(t, out, 1)
	e := out[0]

	assert.Equal(t, cafe.BusinessCompetitor, e.BusinessType)
	assert.Equal(t, cafe.PricePremium, e.PriceCategory)

	require.NotNil(t, e.QualityScore)
	assert.InDelta(t, 4.6*math.Log(301), *e.QualityScore, 1e-9)

	require.NotNil(t, e.DistanceFromDowntown)
	dLat := 53.54 - cfg.Downtown.Lat
	dLng := -113.50 - cfg.Downtown.Lng
	assert.InDelta(t, math.Sqrt(dLat*dLat+dLng*dLng)*111, *e.DistanceFromDowntown, 1e-9)
	assert.Equal(t, cafe.ZoneCore, e.LocationZone)

	require.NotNil(t, e.PopularityPercentile)
	assert.InDelta(t, 1.0, *e.PopularityPercentile, 1e-9)

	assert.Equal(t, 0, e.QualityFlagCount)
	assert.Equal(t, cafe.TierExcellent, e.QualityTier)
}

func TestEnrich_BusinessType(t *testing.T) {
	tests := []struct {
		name *string
		want cafe.BusinessType
	}{
		{ptr("Square One Coffee - Oliver"), cafe.BusinessSOC},
		{ptr("SQUARE ONE COFFEE - WHYTE AVENUE"), cafe.BusinessSOC},
		{ptr("Brew House"), cafe.BusinessCompetitor},
		{nil, cafe.BusinessCompetitor},
	}
	for _, tt := range tests {
		row := sampleRow(1)
		row.Name = tt.name
		out := Enrich([]cafe.Raw{row}, emptyMasks(1), testFerryConfig())
		assert.Equal(t, tt.want, out[0].BusinessType)
	}
}

func TestEnrich_Flags(t *testing.T) {
	cfg := testFerryConfig()

	rows := []cafe.Raw{sampleRow(1), sampleRow(2), sampleRow(3), sampleRow(4), sampleRow(5)}
	rows[0].Latitude = nil
	rows[1].GoogleRating = nil
	rows[2].AvgBeveragePrice = nil

	masks := emptyMasks(5)
	masks.LocationOutOfBounds[3] = true
	masks.SuspiciousPrice[3] = true

	out := Enrich(rows, masks, cfg)

	assert.True(t, out[0].FlagMissingLocation)
	assert.Nil(t, out[0].DistanceFromDowntown)
	assert.Equal(t, cafe.LocationZone(""), out[0].LocationZone)
	assert.Equal(t, 1, out[0].QualityFlagCount)
	assert.Equal(t, cafe.TierGood, out[0].QualityTier)

	assert.True(t, out[1].FlagNoRating)
	assert.Nil(t, out[1].QualityScore)

	assert.True(t, out[2].FlagNoPrice)
	assert.Equal(t, cafe.PriceCategory(""), out[2].PriceCategory)

	assert.True(t, out[3].FlagLocationOutOfBounds)
	assert.True(t, out[3].FlagSuspiciousPrice)
	assert.Equal(t, 2, out[3].QualityFlagCount)
	assert.Equal(t, cafe.TierAcceptable, out[3].QualityTier)

	assert.Equal(t, 0, out[4].QualityFlagCount)
	assert.Equal(t, cafe.TierExcellent, out[4].QualityTier)
}

func TestEnrich_ZeroDistanceGetsNoZone(t *testing.T) {
	cfg := testFerryConfig()

	row := sampleRow(1)
	row.Latitude = ptr(cfg.Downtown.Lat)
	row.Longitude = ptr(cfg.Downtown.Lng)

	out := Enrich([]cafe.Raw{row}, emptyMasks(1), cfg)

	require.NotNil(t, out[0].DistanceFromDowntown)
	assert.Zero(t, *out[0].DistanceFromDowntown)
	assert.Equal(t, cafe.LocationZone(""), out[0].LocationZone)
	assert.False(t, out[0].FlagMissingLocation)
}

func TestEnrich_QualityScoreAtZeroReviews(t *testing.T) {
	row := sampleRow(1)
	row.ReviewCount = ptr(int64(0))

	out := Enrich([]cafe.Raw{row}, emptyMasks(1), testFerryConfig())

	// ln(0+1) is zero, so the score is zero but present.
	require.NotNil(t, out[0].QualityScore)
	assert.Zero(t, *out[0].QualityScore)
}

func TestPopularityPercentiles(t *testing.T) {
	counts := []*int64{
		ptr(int64(100)),
		ptr(int64(200)),
		ptr(int64(200)),
		ptr(int64(300)),
		nil,
	}
	rows := make([]cafe.Raw, len(counts))
	for i, c := range counts {
		rows[i] = sampleRow(int64(i + 1))
		rows[i].ReviewCount = c
	}

	got := popularityPercentiles(rows)
	require.Len(t, got, 5)

	// Tied rows share the average of their ranks; the null row stays null
	// and does not count toward the denominator.
	require.NotNil(t, got[0])
	assert.InDelta(t, 0.25, *got[0], 1e-9)
	require.NotNil(t, got[1])
	assert.InDelta(t, 0.625, *got[1], 1e-9)
	require.NotNil(t, got[2])
	assert.InDelta(t, 0.625, *got[2], 1e-9)
	require.NotNil(t, got[3])
	assert.InDelta(t, 1.0, *got[3], 1e-9)
	assert.Nil(t, got[4])
}

func TestPopularityPercentiles_AllTied(t *testing.T) {
	rows := []cafe.Raw{sampleRow(1), sampleRow(2)}
	rows[0].ReviewCount = ptr(int64(50))
	rows[1].ReviewCount = ptr(int64(50))

	got := popularityPercentiles(rows)
	require.NotNil(t, got[0])
	require.NotNil(t, got[1])
	assert.InDelta(t, 0.75, *got[0], 1e-9)
	assert.InDelta(t, 0.75, *got[1], 1e-9)
}

func TestPopularityPercentiles_AllNull(t *testing.T) {
	rows := []cafe.Raw{sampleRow(1), sampleRow(2)}
	rows[0].ReviewCount = nil
	rows[1].ReviewCount = nil

	got := popularityPercentiles(rows)
	assert.Nil(t, got[0])
	assert.Nil(t, got[1])
}
