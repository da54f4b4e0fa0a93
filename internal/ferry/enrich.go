package ferry

import (
	"math"
	"sort"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
)

// kmPerDegree converts planar degree distance to kilometers. The distance
// column has always been this flat approximation at Edmonton's latitude,
// and downstream zone boundaries were calibrated against it.
const kmPerDegree = 111

// Enrich computes every derived field from the standardized rows and the
// validator's masks. Binning is right-inclusive with an open lower edge,
// so a value exactly on an upper boundary falls into that bin and a value
// at or below zero falls out of the scale entirely (null).
func Enrich(rows []cafe.Raw, masks WarningMasks, cfg config.FerryConfig) []cafe.Enriched {
	percentiles := popularityPercentiles(rows)

	out := make([]cafe.Enriched, len(rows))
	for i, r := range rows {
		e := cafe.Enriched{Raw: r}

		name := ""
		if r.Name != nil {
			name = *r.Name
		}
		e.BusinessType = cafe.Classify(name)

		e.PriceCategory = priceCategory(r.AvgBeveragePrice, cfg.PriceBins)
		e.PopularityPercentile = percentiles[i]

		if r.GoogleRating != nil && r.ReviewCount != nil {
			q := *r.GoogleRating * math.Log(float64(*r.ReviewCount)+1)
			e.QualityScore = &q
		}

		if r.Latitude != nil && r.Longitude != nil {
			d := distanceKM(*r.Latitude, *r.Longitude, cfg.Downtown)
			e.DistanceFromDowntown = &d
		}
		e.LocationZone = locationZone(e.DistanceFromDowntown, cfg.ZoneBins)

		e.FlagMissingLocation = r.Latitude == nil || r.Longitude == nil
		e.FlagNoRating = r.GoogleRating == nil
		e.FlagNoPrice = r.AvgBeveragePrice == nil
		e.FlagLocationOutOfBounds = masks.LocationOutOfBounds[i]
		e.FlagSuspiciousPrice = masks.SuspiciousPrice[i]

		count := 0
		for _, f := range e.Flags() {
			if f {
				count++
			}
		}
		e.QualityFlagCount = count
		e.QualityTier = qualityTier(count, cfg.TierBins)

		out[i] = e
	}
	return out
}

// distanceKM is the planar distance from the downtown reference point.
func distanceKM(lat, lng float64, downtown config.Point) float64 {
	dLat := lat - downtown.Lat
	dLng := lng - downtown.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * kmPerDegree
}

// priceCategory bins a price at (0, b0], (b0, b1], (b1, b2], (b2, inf).
func priceCategory(price *float64, bins []float64) cafe.PriceCategory {
	if price == nil {
		return ""
	}
	p := *price
	switch {
	case p <= 0:
		return ""
	case p <= bins[0]:
		return cafe.PriceBudget
	case p <= bins[1]:
		return cafe.PriceModerate
	case p <= bins[2]:
		return cafe.PricePremium
	default:
		return cafe.PriceLuxury
	}
}

// locationZone bins a distance at (0, b0], (b0, b1], (b1, b2], (b2, inf).
// A distance of exactly zero sits on the open lower edge and gets no zone.
func locationZone(distance *float64, bins []float64) cafe.LocationZone {
	if distance == nil {
		return ""
	}
	d := *distance
	switch {
	case d <= 0:
		return ""
	case d <= bins[0]:
		return cafe.ZoneCore
	case d <= bins[1]:
		return cafe.ZoneInner
	case d <= bins[2]:
		return cafe.ZoneOuter
	default:
		return cafe.ZonePeripheral
	}
}

// qualityTier bins a flag count at (-1, b0], (b0, b1], (b1, b2], (b2, inf),
// so zero flags lands in the first tier.
func qualityTier(count int, bins []int) cafe.QualityTier {
	switch {
	case count <= bins[0]:
		return cafe.TierExcellent
	case count <= bins[1]:
		return cafe.TierGood
	case count <= bins[2]:
		return cafe.TierAcceptable
	default:
		return cafe.TierPoor
	}
}

// popularityPercentiles ranks review counts with average-tie ranking and
// scales by the number of rows that have a review count. Rows without one
// get nil.
func popularityPercentiles(rows []cafe.Raw) []*float64 {
	type obs struct {
		row   int
		value int64
	}
	observed := make([]obs, 0, len(rows))
	for i, r := range rows {
		if r.ReviewCount != nil {
			observed = append(observed, obs{row: i, value: *r.ReviewCount})
		}
	}

	out := make([]*float64, len(rows))
	if len(observed) == 0 {
		return out
	}

	sort.SliceStable(observed, func(i, j int) bool { return observed[i].value < observed[j].value })

	n := float64(len(observed))
	for start := 0; start < len(observed); {
		end := start
		for end < len(observed) && observed[end].value == observed[start].value {
			end++
		}
		// 1-based positions start+1..end share the average rank of the tie group.
		pct := (float64(start+1) + float64(end)) / 2 / n
		for k := start; k < end; k++ {
			v := pct
			out[observed[k].row] = &v
		}
		start = end
	}
	return out
}
