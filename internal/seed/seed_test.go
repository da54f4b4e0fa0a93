package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/ferry"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func generate(t *testing.T, cfg config.SeedConfig) []cafe.Raw {
	t.Helper()
	return New(cfg, nil, WithNow(testNow)).Generate()
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := config.SeedConfig{Competitors: 24, Seed: 42}

	first := generate(t, cfg)
	second := generate(t, cfg)
	require.Equal(t, first, second)

	different := generate(t, config.SeedConfig{Competitors: 24, Seed: 7})
	assert.NotEqual(t, first, different)
}

func TestGenerate_Composition(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 24, Seed: 42})
	require.Len(t, rows, 30)

	// The six SOC locations come first, in their fixed order, then the
	// generated competitors. Ids are sequential from 1.
	for i, r := range rows {
		require.NotNil(t, r.CafeID)
		assert.Equal(t, int64(i+1), *r.CafeID)
		require.NotNil(t, r.Name)
		if i < len(socNames) {
			assert.Equal(t, socNames[i], *r.Name)
		} else {
			assert.NotContains(t, strings.ToLower(*r.Name), cafe.SOCMarker)
		}
	}
}

func TestGenerate_ZeroCompetitors(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 0, Seed: 1})
	assert.Len(t, rows, 6)
}

func TestGenerate_SOCCharacteristics(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 24, Seed: 42})

	for _, r := range rows[:6] {
		assert.Equal(t, "specialty_coffee", *r.CafeType)
		assert.Equal(t, "independent", *r.Ownership)
		assert.Equal(t, "sandwiches_pastries", *r.HasFood)
		assert.Equal(t, "yes", *r.HasWifi)
		assert.Equal(t, "modern_minimalist", *r.Ambiance)
		assert.GreaterOrEqual(t, *r.AvgBeveragePrice, 4.50)
		assert.LessOrEqual(t, *r.AvgBeveragePrice, 6.00)
		assert.GreaterOrEqual(t, *r.GoogleRating, 4.3)
		assert.LessOrEqual(t, *r.GoogleRating, 4.8)
		assert.GreaterOrEqual(t, *r.ReviewCount, int64(150))
		assert.LessOrEqual(t, *r.ReviewCount, int64(500))
		assert.GreaterOrEqual(t, *r.SeatingCapacity, int64(20))
		assert.LessOrEqual(t, *r.SeatingCapacity, int64(45))
	}
}

func TestGenerate_CompetitorRanges(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 50, Seed: 42})

	for _, r := range rows[6:] {
		assert.Contains(t, cafeTypes, *r.CafeType)
		assert.Contains(t, ownerships, *r.Ownership)
		assert.Contains(t, foodOptions, *r.HasFood)
		assert.Contains(t, wifiOptions, *r.HasWifi)
		assert.Contains(t, ambiances, *r.Ambiance)
		assert.Contains(t, parkingOptions, *r.ParkingAvailability)
		assert.GreaterOrEqual(t, *r.AvgBeveragePrice, 3.00)
		assert.LessOrEqual(t, *r.AvgBeveragePrice, 7.50)
		assert.GreaterOrEqual(t, *r.GoogleRating, 3.5)
		assert.LessOrEqual(t, *r.GoogleRating, 4.9)
		assert.GreaterOrEqual(t, *r.ReviewCount, int64(20))
		assert.LessOrEqual(t, *r.ReviewCount, int64(400))
		assert.GreaterOrEqual(t, *r.SeatingCapacity, int64(10))
		assert.LessOrEqual(t, *r.SeatingCapacity, int64(60))
	}
}

func TestGenerate_NeighborhoodRoundRobin(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 24, Seed: 42})

	for i, r := range rows {
		require.NotNil(t, r.Neighborhood)
		assert.Equal(t, neighborhoods[i%len(neighborhoods)], *r.Neighborhood)
	}
}

func TestGenerate_CoordinatesInsideBox(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 100, Seed: 42})

	for _, r := range rows {
		require.NotNil(t, r.Latitude)
		require.NotNil(t, r.Longitude)
		assert.GreaterOrEqual(t, *r.Latitude, latMin)
		assert.LessOrEqual(t, *r.Latitude, latMax)
		assert.GreaterOrEqual(t, *r.Longitude, lngMin)
		assert.LessOrEqual(t, *r.Longitude, lngMax)
	}
}

func TestGenerate_ContactFields(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 100, Seed: 42})

	websites, handles := 0, 0
	for _, r := range rows {
		require.NotNil(t, r.Phone)
		assert.Regexp(t, `^780-\d{3}-\d{4}$`, *r.Phone)
		require.NotNil(t, r.Address)
		assert.Contains(t, *r.Address, "Edmonton, AB")

		if r.Website != nil {
			websites++
			assert.True(t, strings.HasPrefix(*r.Website, "https://"))
			assert.True(t, strings.HasSuffix(*r.Website, ".com"))
			assert.NotContains(t, *r.Website, " ")
		}
		if r.InstagramHandle != nil {
			handles++
			assert.True(t, strings.HasPrefix(*r.InstagramHandle, "@"))
			assert.NotContains(t, *r.InstagramHandle, " ")
		}

		require.NotNil(t, r.DateOpened)
		opened, err := time.Parse("2006-01-02", *r.DateOpened)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, opened.Year(), 2010)
		assert.LessOrEqual(t, opened.Year(), 2024)

		require.NotNil(t, r.CreatedAt)
		assert.Equal(t, testNow.Format("2006-01-02T15:04:05"), *r.CreatedAt)
		assert.Equal(t, *r.CreatedAt, *r.UpdatedAt)
	}

	// Some but not all rows carry a website and an Instagram handle.
	assert.Greater(t, websites, 0)
	assert.Less(t, websites, len(rows))
	assert.Greater(t, handles, 0)
	assert.Less(t, handles, len(rows))
}

func TestGenerate_CleanPassesValidation(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 100, Seed: 42})

	report := ferry.Validate(rows, config.Default().Ferry)
	assert.Empty(t, report.Problems)
	assert.Zero(t, report.Warnings.Total())
}

func TestGenerate_MessyInjectsEveryWarningClass(t *testing.T) {
	rows := generate(t, config.SeedConfig{Competitors: 400, Seed: 42, Messy: true})

	missingLocation, missingPrice := 0, 0
	for _, r := range rows {
		if r.Latitude == nil || r.Longitude == nil {
			missingLocation++
		}
		if r.AvgBeveragePrice == nil {
			missingPrice++
		}
	}
	assert.Greater(t, missingLocation, 0)
	assert.Greater(t, missingPrice, 0)

	// Defects degrade quality but never abort the ferry.
	report := ferry.Validate(rows, config.Default().Ferry)
	assert.Empty(t, report.Problems)
	assert.Greater(t, report.Warnings.LocationOutOfBounds, 0)
	assert.Greater(t, report.Warnings.SuspiciousPrice, 0)
	assert.Greater(t, report.Warnings.InvalidRating, 0)
	assert.Greater(t, report.Warnings.NegativeReviews, 0)
}

func TestGenerate_MessyKeepsSOCClean(t *testing.T) {
	clean := generate(t, config.SeedConfig{Competitors: 24, Seed: 42})
	messy := generate(t, config.SeedConfig{Competitors: 24, Seed: 42, Messy: true})

	require.Equal(t, clean[:6], messy[:6])
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Brew House", "brewhouse"},
		{"The Bean Collective", "thebeancollective"},
		{"Square One Coffee - Oliver", "squareonecoffeeolive"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slug(tt.name))
	}
}
