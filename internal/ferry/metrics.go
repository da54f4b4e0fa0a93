package ferry

import (
	"math"
	"sort"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

// CompletenessRow is one row of the completeness_metrics table: how many
// records carry a value in one raw column.
type CompletenessRow struct {
	Field         string
	TotalRecords  int
	CompleteCount int
	MissingCount  int
	CompleteRate  float64
}

// Completeness measures per-column completeness over the original raw
// rows, before any standardization. Rows sort ascending by complete_rate;
// the sort is stable so ties keep the raw column order.
func Completeness(rows []cafe.Raw) []CompletenessRow {
	cols := cafe.RawColumns()
	total := len(rows)

	out := make([]CompletenessRow, 0, len(cols))
	for _, col := range cols {
		complete := 0
		for _, r := range rows {
			if col.Complete(r) {
				complete++
			}
		}
		rate := 0.0
		if total > 0 {
			rate = float64(complete) / float64(total)
		}
		out = append(out, CompletenessRow{
			Field:         col.Name,
			TotalRecords:  total,
			CompleteCount: complete,
			MissingCount:  total - complete,
			CompleteRate:  rate,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CompleteRate < out[j].CompleteRate })
	return out
}

// AvgCompleteness is the mean complete_rate across all columns, as a
// percentage. This is the avg_completeness value stored in metadata.
func AvgCompleteness(rows []CompletenessRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += r.CompleteRate
	}
	return sum / float64(len(rows)) * 100
}

// TierCount is one row of the quality_distribution table.
type TierCount struct {
	Tier       cafe.QualityTier
	Count      int
	Percentage float64
}

// QualityDistribution counts enriched rows per quality tier. All four
// tiers appear even at count zero. Rows sort by count descending; the
// sort is stable so ties keep the tier order best to worst.
func QualityDistribution(rows []cafe.Enriched) []TierCount {
	counts := make(map[cafe.QualityTier]int, 4)
	for _, r := range rows {
		counts[r.QualityTier]++
	}

	total := len(rows)
	out := make([]TierCount, 0, 4)
	for _, tier := range cafe.QualityTiers() {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(counts[tier])/float64(total)*1000) / 10
		}
		out = append(out, TierCount{Tier: tier, Count: counts[tier], Percentage: pct})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
