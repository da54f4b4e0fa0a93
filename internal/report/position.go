package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

// positionCharts lists the competitive position artifacts in render order.
func positionCharts(d *Dataset) []chart {
	return []chart{
		{"g51_metrics_comparison.png", func() (*plot.Plot, error) { return buildMetricsComparison(d) }},
		{"g52_positioning_matrix.png", func() (*plot.Plot, error) { return buildPositioningMatrix(d) }},
		{"g53_market_share_zones.png", func() (*plot.Plot, error) { return buildMarketShareZones(d) }},
		{"g61_rating_distribution.png", func() (*plot.Plot, error) { return buildRatingDistribution(d) }},
		{"g62_quality_score.png", func() (*plot.Plot, error) { return buildQualityScore(d) }},
		{"g63_reputation_strength.png", func() (*plot.Plot, error) { return buildReputationStrength(d) }},
	}
}

func positionInsights(d *Dataset) []string {
	soc := metricsFor(d.SOC)
	comp := metricsFor(d.Competitors)
	return []string{
		fmt.Sprintf("SOC: %d locations, avg price $%.2f, avg rating %.2f, quality score %.2f",
			soc.Count, soc.Price, soc.Rating, soc.Quality),
		fmt.Sprintf("Competitors: %d cafes, avg price $%.2f, avg rating %.2f, quality score %.2f",
			comp.Count, comp.Price, comp.Rating, comp.Quality),
		fmt.Sprintf("Rating advantage: %+.2f", soc.Rating-comp.Rating),
		fmt.Sprintf("Quality score advantage: %+.2f", soc.Quality-comp.Quality),
		fmt.Sprintf("Price premium: %+.2f", soc.Price-comp.Price),
	}
}

// buildMetricsComparison draws both groups' means for the four headline
// metrics, min-max normalized per metric so they share one axis.
func buildMetricsComparison(d *Dataset) (*plot.Plot, error) {
	soc := metricsFor(d.SOC)
	comp := metricsFor(d.Competitors)

	rows := []struct {
		label      string
		compV, soc float64
	}{
		{"Avg Price ($)", comp.Price, soc.Price},
		{"Avg Rating", comp.Rating, soc.Rating},
		{"Quality Score", comp.Quality, soc.Quality},
		{"Seating Capacity", comp.Seating, soc.Seating},
	}

	labels := make([]string, len(rows))
	compVals := make(plotter.Values, len(rows))
	socVals := make(plotter.Values, len(rows))
	for i, row := range rows {
		labels[i] = row.label
		lo := math.Min(row.compV, row.soc)
		hi := math.Max(row.compV, row.soc)
		compVals[i] = normalize(row.compV, lo, hi)
		socVals[i] = normalize(row.soc, lo, hi)
	}

	p := newPlot("SOC vs Market: Key Performance Metrics", "", "Normalized Score (0-100)")
	compBars, socBars, err := groupedBars(compVals, socVals, vg.Points(18))
	if err != nil {
		return nil, err
	}
	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.Y.Min, p.Y.Max = 0, 115
	return p, nil
}

// buildPositioningMatrix draws the price vs rating scatter split into
// quadrants by the market-wide means.
func buildPositioningMatrix(d *Dataset) (*plot.Plot, error) {
	p := newPlot("Competitive Positioning: Price vs Quality", "Average Beverage Price (CAD)", "Google Rating (1-5)")

	comp, err := scatter(priceRatingXYs(d.Competitors), colorCompetitor, draw.CircleGlyph{}, vg.Points(3.5))
	if err != nil {
		return nil, err
	}
	soc, err := scatter(priceRatingXYs(d.SOC), colorSOC, draw.PyramidGlyph{}, vg.Points(5.5))
	if err != nil {
		return nil, err
	}

	priceLo, priceHi := minMax(prices(d.Cafes))
	xMin, xMax := priceLo-0.5, priceHi+0.5
	yMin, yMax := 3.3, 5.1

	meanPrice := meanOf(prices(d.Cafes))
	meanRating := meanOf(ratings(d.Cafes))
	v, err := vline(meanPrice, yMin, yMax, colorQuadrant)
	if err != nil {
		return nil, err
	}
	h, err := hline(meanRating, xMin, xMax, colorQuadrant)
	if err != nil {
		return nil, err
	}

	p.Add(v, h, comp, soc)
	p.Legend.Add("Competitors", comp)
	p.Legend.Add("Square One Coffee", soc)
	p.Legend.Add(fmt.Sprintf("Market mean ($%.2f, %.2f)", meanPrice, meanRating), v)
	p.X.Min, p.X.Max = xMin, xMax
	p.Y.Min, p.Y.Max = yMin, yMax
	return p, nil
}

// buildMarketShareZones draws each zone's cafes as a 100% stacked bar split
// between the two groups. Zones with no cafes stay empty.
func buildMarketShareZones(d *Dataset) (*plot.Plot, error) {
	compPct := make(plotter.Values, len(cafe.LocationZones()))
	socPct := make(plotter.Values, len(cafe.LocationZones()))
	for i, zone := range cafe.LocationZones() {
		var comp, soc float64
		for _, e := range d.Competitors {
			if e.LocationZone == zone {
				comp++
			}
		}
		for _, e := range d.SOC {
			if e.LocationZone == zone {
				soc++
			}
		}
		if total := comp + soc; total > 0 {
			compPct[i] = comp / total * 100
			socPct[i] = soc / total * 100
		}
	}

	p := newPlot("SOC Market Presence by Location Zone", "Location Zone", "Share of Cafes (%)")
	compBars, err := bars(compPct, vg.Points(25), colorCompetitor)
	if err != nil {
		return nil, err
	}
	socBars, err := bars(socPct, vg.Points(25), colorSOC)
	if err != nil {
		return nil, err
	}
	socBars.StackOn(compBars)

	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.NominalX(zoneLabels...)
	p.Y.Min, p.Y.Max = 0, 100
	return p, nil
}

// buildRatingDistribution draws one rating box plot per group with a gold
// marker at the group mean.
func buildRatingDistribution(d *Dataset) (*plot.Plot, error) {
	compRatings := ratings(d.Competitors)
	socRatings := ratings(d.SOC)

	p := newPlot("Rating Distribution: SOC vs Competitors", "", "Google Rating (1-5)")

	means := plotter.XYs{}
	if len(compRatings) > 0 {
		box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(compRatings))
		if err != nil {
			return nil, fmt.Errorf("failed to build rating box plot: %w", err)
		}
		box.FillColor = withAlpha(colorCompetitor, 0x99)
		p.Add(box)
		means = append(means, plotter.XY{X: 0, Y: meanOf(compRatings)})
	}
	if len(socRatings) > 0 {
		box, err := plotter.NewBoxPlot(vg.Points(40), 1, plotter.Values(socRatings))
		if err != nil {
			return nil, fmt.Errorf("failed to build rating box plot: %w", err)
		}
		box.FillColor = withAlpha(colorSOC, 0x99)
		p.Add(box)
		means = append(means, plotter.XY{X: 1, Y: meanOf(socRatings)})
	}

	meanMarks, err := scatter(means, colorGold, draw.CircleGlyph{}, vg.Points(4))
	if err != nil {
		return nil, err
	}
	p.Add(meanMarks)
	p.Legend.Add("Group mean", meanMarks)

	p.NominalX("Competitors", "Square One Coffee")
	p.Y.Min, p.Y.Max = 3.3, 5.1
	return p, nil
}

// buildQualityScore draws rating vs quality score bubbles sized by review
// count, so high-volume reputations stand out.
func buildQualityScore(d *Dataset) (*plot.Plot, error) {
	p := newPlot("Quality Score Analysis (bubble size = review volume)", "Google Rating (1-5)", "Quality Score")

	var maxReviews float64
	for _, e := range d.Cafes {
		if e.ReviewCount != nil && float64(*e.ReviewCount) > maxReviews {
			maxReviews = float64(*e.ReviewCount)
		}
	}

	comp, err := bubbles(d.Competitors, withAlpha(colorCompetitor, 0x99), maxReviews)
	if err != nil {
		return nil, err
	}
	soc, err := bubbles(d.SOC, withAlpha(colorSOC, 0xCC), maxReviews)
	if err != nil {
		return nil, err
	}

	p.Add(comp, soc)
	p.Legend.Add("Competitors", comp)
	p.Legend.Add("Square One Coffee", soc)
	return p, nil
}

// bubbles builds a rating/quality scatter whose glyph radius grows with the
// row's share of the market's maximum review count.
func bubbles(rows []cafe.Enriched, c color.Color, maxReviews float64) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, 0, len(rows))
	reviews := make([]float64, 0, len(rows))
	for _, e := range rows {
		if e.GoogleRating == nil || e.QualityScore == nil {
			continue
		}
		xys = append(xys, plotter.XY{X: *e.GoogleRating, Y: *e.QualityScore})
		if e.ReviewCount != nil {
			reviews = append(reviews, float64(*e.ReviewCount))
		} else {
			reviews = append(reviews, 0)
		}
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build bubble scatter: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		r := vg.Points(2.5)
		if maxReviews > 0 {
			r += vg.Length(math.Sqrt(reviews[i]/maxReviews)) * vg.Points(8)
		}
		return draw.GlyphStyle{Color: c, Radius: r, Shape: draw.CircleGlyph{}}
	}
	return s, nil
}

// buildReputationStrength draws mean rating next to mean review volume,
// with volume rescaled onto the 0-5 rating axis.
func buildReputationStrength(d *Dataset) (*plot.Plot, error) {
	soc := metricsFor(d.SOC)
	comp := metricsFor(d.Competitors)

	// Reviews average in the hundreds while ratings top out at 5, so the
	// larger review mean is pinned to 5 and the other scales with it.
	scale := 1.0
	if m := math.Max(soc.Reviews, comp.Reviews); m > 0 {
		scale = 5 / m
	}

	labels := []string{"Avg Google Rating", "Review Volume (scaled)"}
	compVals := plotter.Values{comp.Rating, comp.Reviews * scale}
	socVals := plotter.Values{soc.Rating, soc.Reviews * scale}

	p := newPlot("Reputation Strength Comparison", "", "Score (0-5 scale)")
	compBars, socBars, err := groupedBars(compVals, socVals, vg.Points(25))
	if err != nil {
		return nil, err
	}
	p.Add(compBars, socBars)
	p.Legend.Add("Competitors", compBars)
	p.Legend.Add("Square One Coffee", socBars)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.Y.Min, p.Y.Max = 0, 5.5
	return p, nil
}
