package ferry

import "github.com/squareone-research/cafeferry/internal/cafe"

// Partition splits enriched rows into the SOC and competitor subsets.
// Order within each subset follows the input order. Together the two
// subsets cover the input exactly.
func Partition(rows []cafe.Enriched) (soc, competitors []cafe.Enriched) {
	soc = make([]cafe.Enriched, 0, len(rows))
	competitors = make([]cafe.Enriched, 0, len(rows))
	for _, r := range rows {
		if r.BusinessType == cafe.BusinessSOC {
			soc = append(soc, r)
		} else {
			competitors = append(competitors, r)
		}
	}
	return soc, competitors
}
