package report

import (
	"github.com/montanaflynn/stats"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

// Metrics holds the per-group means the comparisons are built from. Nulls
// are skipped per metric, so every mean is over the rows that have a value.
type Metrics struct {
	Count   int
	Price   float64
	Rating  float64
	Reviews float64
	Quality float64
	Seating float64
}

func metricsFor(rows []cafe.Enriched) Metrics {
	return Metrics{
		Count:   len(rows),
		Price:   meanOf(prices(rows)),
		Rating:  meanOf(ratings(rows)),
		Reviews: meanOf(reviewCounts(rows)),
		Quality: meanOf(qualityScores(rows)),
		Seating: meanOf(seatings(rows)),
	}
}

// meanOf is the mean of the values, zero when there are none.
func meanOf(values []float64) float64 {
	m, err := stats.Mean(stats.Float64Data(values))
	if err != nil {
		return 0
	}
	return m
}

// minMax returns the smallest and largest value, zeros when there are none.
func minMax(values []float64) (float64, float64) {
	lo, err := stats.Min(stats.Float64Data(values))
	if err != nil {
		return 0, 0
	}
	hi, err := stats.Max(stats.Float64Data(values))
	if err != nil {
		return 0, 0
	}
	return lo, hi
}

// normalize maps v onto a 0-100 scale over [lo, hi]. A degenerate interval
// maps to the midpoint so comparisons stay renderable.
func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 50
	}
	return (v - lo) / (hi - lo) * 100
}

func prices(rows []cafe.Enriched) []float64 {
	return collect(rows, func(e cafe.Enriched) *float64 { return e.AvgBeveragePrice })
}

func ratings(rows []cafe.Enriched) []float64 {
	return collect(rows, func(e cafe.Enriched) *float64 { return e.GoogleRating })
}

func qualityScores(rows []cafe.Enriched) []float64 {
	return collect(rows, func(e cafe.Enriched) *float64 { return e.QualityScore })
}

func reviewCounts(rows []cafe.Enriched) []float64 {
	out := make([]float64, 0, len(rows))
	for _, e := range rows {
		if e.ReviewCount != nil {
			out = append(out, float64(*e.ReviewCount))
		}
	}
	return out
}

func seatings(rows []cafe.Enriched) []float64 {
	out := make([]float64, 0, len(rows))
	for _, e := range rows {
		if e.SeatingCapacity != nil {
			out = append(out, float64(*e.SeatingCapacity))
		}
	}
	return out
}

func collect(rows []cafe.Enriched, value func(cafe.Enriched) *float64) []float64 {
	out := make([]float64, 0, len(rows))
	for _, e := range rows {
		if v := value(e); v != nil {
			out = append(out, *v)
		}
	}
	return out
}
