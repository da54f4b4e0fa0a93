package seed

import (
	"math/rand"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

// Per-row injection rates for messy mode. Each class draws independently,
// so one row can carry several defects.
const (
	rateMissingLocation = 0.08
	rateOutOfBounds     = 0.05
	rateMissingPrice    = 0.08
	rateSuspiciousPrice = 0.05
	rateInvalidRating   = 0.05
	rateNegativeReviews = 0.05
)

// injectDefects degrades competitor rows in place with every defect class
// the ferry warns about or flags: missing coordinates and prices,
// out-of-bounds coordinates, implausible prices, out-of-range ratings, and
// negative review counts. SOC rows stay clean and required fields are never
// touched, so a messy dataset still passes fatal validation.
func injectDefects(rng *rand.Rand, rows []cafe.Raw) {
	for i := range rows {
		r := &rows[i]
		if r.Name != nil && cafe.Classify(*r.Name) == cafe.BusinessSOC {
			continue
		}

		switch {
		case rng.Float64() < rateMissingLocation:
			r.Latitude = nil
			r.Longitude = nil
		case rng.Float64() < rateOutOfBounds:
			r.Latitude = ptr(round6(uniform(rng, 54.00, 54.30)))
			r.Longitude = ptr(round6(uniform(rng, -114.50, -114.10)))
		}

		switch {
		case rng.Float64() < rateMissingPrice:
			r.AvgBeveragePrice = nil
		case rng.Float64() < rateSuspiciousPrice:
			r.AvgBeveragePrice = ptr(round2(uniform(rng, 12.50, 19.99)))
		}

		if rng.Float64() < rateInvalidRating {
			r.GoogleRating = ptr(round1(uniform(rng, 5.5, 9.5)))
		}
		if rng.Float64() < rateNegativeReviews {
			r.ReviewCount = ptr(int64(-intBetween(rng, 1, 50)))
		}
	}
}
