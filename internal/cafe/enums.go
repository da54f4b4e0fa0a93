package cafe

import "strings"

// =============================================================================
// BusinessType
// =============================================================================

// BusinessType classifies a cafe as the subject business or a competitor.
// It is set exactly once, during enrichment, and stored in cafes_complete.
type BusinessType string

const (
	BusinessSOC        BusinessType = "soc"
	BusinessCompetitor BusinessType = "competitor"
)

// Classify applies the SOC matching rule: a cafe whose name contains the
// marker substring, case-insensitively, belongs to Square One Coffee.
func Classify(name string) BusinessType {
	if strings.Contains(strings.ToLower(name), SOCMarker) {
		return BusinessSOC
	}
	return BusinessCompetitor
}

// =============================================================================
// PriceCategory
// =============================================================================

// PriceCategory buckets avg_beverage_price. The empty value means null
// (price missing or below the open lower edge of the first bin).
type PriceCategory string

const (
	PriceBudget   PriceCategory = "budget"
	PriceModerate PriceCategory = "moderate"
	PricePremium  PriceCategory = "premium"
	PriceLuxury   PriceCategory = "luxury"
)

// PriceCategories returns the categories in ascending price order.
func PriceCategories() []PriceCategory {
	return []PriceCategory{PriceBudget, PriceModerate, PricePremium, PriceLuxury}
}

// =============================================================================
// LocationZone
// =============================================================================

// LocationZone buckets distance from the downtown reference point.
// The empty value means null (coordinates missing).
type LocationZone string

const (
	ZoneCore       LocationZone = "core"
	ZoneInner      LocationZone = "inner"
	ZoneOuter      LocationZone = "outer"
	ZonePeripheral LocationZone = "peripheral"
)

// LocationZones returns the zones from closest to farthest.
func LocationZones() []LocationZone {
	return []LocationZone{ZoneCore, ZoneInner, ZoneOuter, ZonePeripheral}
}

// =============================================================================
// QualityTier
// =============================================================================

// QualityTier summarizes how many data-quality flags a record tripped.
type QualityTier string

const (
	TierExcellent  QualityTier = "excellent"
	TierGood       QualityTier = "good"
	TierAcceptable QualityTier = "acceptable"
	TierPoor       QualityTier = "poor"
)

// QualityTiers returns the tiers from best to worst. The quality_distribution
// table carries all four, including tiers with zero records, and this order
// breaks ties when counts sort equal.
func QualityTiers() []QualityTier {
	return []QualityTier{TierExcellent, TierGood, TierAcceptable, TierPoor}
}

// ParseBusinessType converts a stored label back to a BusinessType.
// Returns the type and true if the label is one of the two known values.
func ParseBusinessType(s string) (BusinessType, bool) {
	switch BusinessType(s) {
	case BusinessSOC:
		return BusinessSOC, true
	case BusinessCompetitor:
		return BusinessCompetitor, true
	default:
		return "", false
	}
}
