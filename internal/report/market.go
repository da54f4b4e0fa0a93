package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
)

// Axis labels for the four location zones, closest first.
var zoneLabels = []string{"Core (<2 km)", "Inner (2-5 km)", "Outer (5-10 km)", "Peripheral (>10 km)"}

// marketCharts lists the market overview artifacts in render order.
func marketCharts(d *Dataset, downtown config.Point) []chart {
	return []chart{
		{"g21_cafe_concentration.png", func() (*plot.Plot, error) { return buildCafeConcentration(d) }},
		{"g22_geographic_map.png", func() (*plot.Plot, error) { return buildGeographicMap(d, downtown) }},
		{"g23_location_zones.png", func() (*plot.Plot, error) { return buildLocationZones(d) }},
		{"g31_price_distribution.png", func() (*plot.Plot, error) { return buildPriceDistribution(d) }},
		{"g32_price_categories.png", func() (*plot.Plot, error) { return buildPriceCategories(d) }},
		{"g33_price_quality_map.png", func() (*plot.Plot, error) { return buildPriceQualityMap(d) }},
		{"g41_cafe_type_distribution.png", func() (*plot.Plot, error) { return buildCafeTypeDistribution(d) }},
		{"g42_ownership_structure.png", func() (*plot.Plot, error) { return buildOwnershipStructure(d) }},
		{"g43_food_offerings.png", func() (*plot.Plot, error) { return buildFoodOfferings(d) }},
	}
}

func marketInsights(d *Dataset) []string {
	soc := metricsFor(d.SOC)
	comp := metricsFor(d.Competitors)
	return []string{
		fmt.Sprintf("%d total cafes analyzed", len(d.Cafes)),
		fmt.Sprintf("%d Square One Coffee locations", soc.Count),
		fmt.Sprintf("%d competitor cafes", comp.Count),
		fmt.Sprintf("SOC avg price $%.2f vs competitors $%.2f", soc.Price, comp.Price),
		fmt.Sprintf("SOC avg rating %.2f vs competitors %.2f", soc.Rating, comp.Rating),
	}
}

// buildCafeConcentration draws cafes per neighborhood as horizontal bars,
// least crowded first, colored by whether SOC operates there.
func buildCafeConcentration(d *Dataset) (*plot.Plot, error) {
	counts := countBy(d.Cafes, func(e cafe.Enriched) *string { return e.Neighborhood })
	socPresence := make(map[string]bool)
	for _, e := range d.SOC {
		if e.Neighborhood != nil {
			socPresence[*e.Neighborhood] = true
		}
	}

	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool { return counts[names[i]] < counts[names[j]] })

	// One bar series per color class; each position is nonzero in exactly
	// one of them.
	with := make(plotter.Values, len(names))
	without := make(plotter.Values, len(names))
	for i, n := range names {
		if socPresence[n] {
			with[i] = float64(counts[n])
		} else {
			without[i] = float64(counts[n])
		}
	}

	p := newPlot("Cafe Concentration Across Edmonton Neighborhoods", "Number of Cafes", "Neighborhood")
	withBars, err := bars(with, vg.Points(12), colorPresence)
	if err != nil {
		return nil, err
	}
	withoutBars, err := bars(without, vg.Points(12), colorAbsence)
	if err != nil {
		return nil, err
	}
	withBars.Horizontal = true
	withoutBars.Horizontal = true

	p.Add(withBars, withoutBars)
	p.Legend.Add("Has SOC location", withBars)
	p.Legend.Add("No SOC presence", withoutBars)
	p.NominalY(names...)
	return p, nil
}

// buildGeographicMap draws the lat/lng scatter with the downtown reference
// marker.
func buildGeographicMap(d *Dataset, downtown config.Point) (*plot.Plot, error) {
	p := newPlot("Edmonton Cafe Geographic Distribution", "Longitude", "Latitude")

	comp, err := scatter(coordXYs(d.Competitors), colorCompetitor, draw.CircleGlyph{}, vg.Points(3))
	if err != nil {
		return nil, err
	}
	soc, err := scatter(coordXYs(d.SOC), colorSOC, draw.PyramidGlyph{}, vg.Points(5))
	if err != nil {
		return nil, err
	}
	core, err := scatter(plotter.XYs{{X: downtown.Lng, Y: downtown.Lat}}, colorGold, draw.PlusGlyph{}, vg.Points(8))
	if err != nil {
		return nil, err
	}

	p.Add(comp, soc, core)
	p.Legend.Add("Competitors", comp)
	p.Legend.Add("Square One Coffee", soc)
	p.Legend.Add("Downtown Core", core)
	p.Legend.Top = true
	return p, nil
}

// buildLocationZones draws stacked bars per zone. All four zones appear
// even when empty; rows without a zone are not drawn.
func buildLocationZones(d *Dataset) (*plot.Plot, error) {
	comp := make(plotter.Values, len(cafe.LocationZones()))
	soc := make(plotter.Values, len(cafe.LocationZones()))
	for i, zone := range cafe.LocationZones() {
		for _, e := range d.Competitors {
			if e.LocationZone == zone {
				comp[i]++
			}
		}
		for _, e := range d.SOC {
			if e.LocationZone == zone {
				soc[i]++
			}
		}
	}

	p := newPlot("Cafe Distribution by Distance from Downtown", "Location Zone", "Number of Cafes")
	compBars, err := bars(comp, vg.Points(25), colorCompetitor)
	if err != nil {
		return nil, err
	}
	socBars, err := bars(soc, vg.Points(25), colorSOC)
	if err != nil {
		return nil, err
	}
	socBars.StackOn(compBars)

	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.NominalX(zoneLabels...)
	return p, nil
}

// buildPriceDistribution overlays the two groups' price histograms with
// dashed group-mean lines.
func buildPriceDistribution(d *Dataset) (*plot.Plot, error) {
	compPrices := prices(d.Competitors)
	socPrices := prices(d.SOC)

	p := newPlot("Edmonton Coffee Market Price Distribution", "Average Beverage Price (CAD)", "Number of Cafes")

	var yMax float64
	if len(compPrices) > 0 {
		h, err := plotter.NewHist(plotter.Values(compPrices), 15)
		if err != nil {
			return nil, fmt.Errorf("failed to build price histogram: %w", err)
		}
		h.FillColor = withAlpha(colorCompetitor, 0x99)
		yMax = maxBinWeight(h, yMax)
		p.Add(h)
	}
	if len(socPrices) > 0 {
		h, err := plotter.NewHist(plotter.Values(socPrices), 10)
		if err != nil {
			return nil, fmt.Errorf("failed to build price histogram: %w", err)
		}
		h.FillColor = withAlpha(colorSOC, 0xCC)
		yMax = maxBinWeight(h, yMax)
		p.Add(h)
	}

	if len(compPrices) > 0 {
		mean := meanOf(compPrices)
		line, err := vline(mean, 0, yMax*1.05, colorCompDark)
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Competitor Mean: $%.2f", mean), line)
	}
	if len(socPrices) > 0 {
		mean := meanOf(socPrices)
		line, err := vline(mean, 0, yMax*1.05, colorSOCDark)
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("SOC Mean: $%.2f", mean), line)
	}
	p.Legend.Top = true
	return p, nil
}

// buildPriceCategories draws grouped bars per price category. All four
// categories appear even when empty.
func buildPriceCategories(d *Dataset) (*plot.Plot, error) {
	labels := []string{"Budget (<$3.50)", "Moderate ($3.50-$5.00)", "Premium ($5.00-$6.50)", "Luxury (>$6.50)"}

	comp := make(plotter.Values, len(cafe.PriceCategories()))
	soc := make(plotter.Values, len(cafe.PriceCategories()))
	for i, cat := range cafe.PriceCategories() {
		for _, e := range d.Competitors {
			if e.PriceCategory == cat {
				comp[i]++
			}
		}
		for _, e := range d.SOC {
			if e.PriceCategory == cat {
				soc[i]++
			}
		}
	}

	p := newPlot("Market Segmentation by Price Point", "Price Category", "Number of Cafes")
	compBars, socBars, err := groupedBars(comp, soc, vg.Points(18))
	if err != nil {
		return nil, err
	}
	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.NominalX(labels...)
	return p, nil
}

// buildPriceQualityMap draws the price vs rating scatter.
func buildPriceQualityMap(d *Dataset) (*plot.Plot, error) {
	p := newPlot("Price-Quality Positioning Map", "Average Beverage Price (CAD)", "Google Rating (1-5)")

	comp, err := scatter(priceRatingXYs(d.Competitors), colorCompetitor, draw.CircleGlyph{}, vg.Points(3.5))
	if err != nil {
		return nil, err
	}
	soc, err := scatter(priceRatingXYs(d.SOC), colorSOC, draw.PyramidGlyph{}, vg.Points(5.5))
	if err != nil {
		return nil, err
	}

	p.Add(comp, soc)
	p.Legend.Add("Competitors", comp)
	p.Legend.Add("Square One Coffee", soc)
	p.Y.Min, p.Y.Max = 3.3, 5.1
	return p, nil
}

// buildCafeTypeDistribution draws stacked horizontal bars per cafe type.
// Only types present in the data appear, alphabetically.
func buildCafeTypeDistribution(d *Dataset) (*plot.Plot, error) {
	compCounts := countBy(d.Competitors, func(e cafe.Enriched) *string { return e.CafeType })
	socCounts := countBy(d.SOC, func(e cafe.Enriched) *string { return e.CafeType })

	types := make([]string, 0, len(compCounts)+len(socCounts))
	seen := make(map[string]bool)
	for t := range compCounts {
		seen[t] = true
	}
	for t := range socCounts {
		seen[t] = true
	}
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)

	comp := make(plotter.Values, len(types))
	soc := make(plotter.Values, len(types))
	for i, t := range types {
		comp[i] = float64(compCounts[t])
		soc[i] = float64(socCounts[t])
	}

	p := newPlot("Edmonton Market Segmentation by Cafe Type", "Number of Cafes", "Cafe Type")
	compBars, err := bars(comp, vg.Points(18), colorCompetitor)
	if err != nil {
		return nil, err
	}
	socBars, err := bars(soc, vg.Points(18), colorSOC)
	if err != nil {
		return nil, err
	}
	compBars.Horizontal = true
	socBars.Horizontal = true
	socBars.StackOn(compBars)

	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.NominalY(types...)
	return p, nil
}

// buildOwnershipStructure draws market share per ownership model, largest
// first.
func buildOwnershipStructure(d *Dataset) (*plot.Plot, error) {
	counts := countBy(d.Cafes, func(e cafe.Enriched) *string { return e.Ownership })

	names := make([]string, 0, len(counts))
	total := 0
	for n, c := range counts {
		names = append(names, n)
		total += c
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool { return counts[names[i]] > counts[names[j]] })

	shares := make(plotter.Values, len(names))
	for i, n := range names {
		if total > 0 {
			shares[i] = float64(counts[n]) / float64(total) * 100
		}
	}

	p := newPlot("Edmonton Coffee Market Ownership Structure", "Ownership Model", "Share of Market (%)")
	b, err := bars(shares, vg.Points(30), colorTeal)
	if err != nil {
		return nil, err
	}
	p.Add(b)
	p.NominalX(names...)
	p.Y.Min, p.Y.Max = 0, 100
	return p, nil
}

// buildFoodOfferings draws grouped bars per food offering in menu-depth
// order.
func buildFoodOfferings(d *Dataset) (*plot.Plot, error) {
	order := []string{"none", "pastries_only", "sandwiches_pastries", "full_menu"}
	labels := []string{"None", "Pastries Only", "Sandwiches & Pastries", "Full Menu"}

	compCounts := countBy(d.Competitors, func(e cafe.Enriched) *string { return e.HasFood })
	socCounts := countBy(d.SOC, func(e cafe.Enriched) *string { return e.HasFood })

	comp := make(plotter.Values, len(order))
	soc := make(plotter.Values, len(order))
	for i, o := range order {
		comp[i] = float64(compCounts[o])
		soc[i] = float64(socCounts[o])
	}

	p := newPlot("Food Service Offerings Across Market", "Food Offerings", "Number of Cafes")
	compBars, socBars, err := groupedBars(comp, soc, vg.Points(18))
	if err != nil {
		return nil, err
	}
	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.NominalX(labels...)
	return p, nil
}

// countBy tallies rows per key, skipping rows without one.
func countBy(rows []cafe.Enriched, key func(cafe.Enriched) *string) map[string]int {
	out := make(map[string]int)
	for _, e := range rows {
		if k := key(e); k != nil {
			out[*k]++
		}
	}
	return out
}

// coordXYs collects the coordinate pairs, longitude as x.
func coordXYs(rows []cafe.Enriched) plotter.XYs {
	out := make(plotter.XYs, 0, len(rows))
	for _, e := range rows {
		if e.Latitude != nil && e.Longitude != nil {
			out = append(out, plotter.XY{X: *e.Longitude, Y: *e.Latitude})
		}
	}
	return out
}

// priceRatingXYs collects price/rating pairs where both are present.
func priceRatingXYs(rows []cafe.Enriched) plotter.XYs {
	out := make(plotter.XYs, 0, len(rows))
	for _, e := range rows {
		if e.AvgBeveragePrice != nil && e.GoogleRating != nil {
			out = append(out, plotter.XY{X: *e.AvgBeveragePrice, Y: *e.GoogleRating})
		}
	}
	return out
}

// maxBinWeight returns the larger of cur and the histogram's tallest bin.
func maxBinWeight(h *plotter.Histogram, cur float64) float64 {
	for _, bin := range h.Bins {
		if bin.Weight > cur {
			cur = bin.Weight
		}
	}
	return cur
}
