package ferry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

// Standardize returns a normalized copy of the rows. Text fields are
// trimmed and case-folded, ratings flagged invalid by the validator are
// nulled, and negative review counts are nulled. The input rows and the
// masks are read-only; masks must be aligned with rows.
func Standardize(rows []cafe.Raw, masks WarningMasks) []cafe.Raw {
	titler := cases.Title(language.English)

	out := make([]cafe.Raw, len(rows))
	for i, r := range rows {
		c := r.Clone()

		if c.Neighborhood != nil {
			v := titler.String(strings.TrimSpace(*c.Neighborhood))
			c.Neighborhood = &v
		}
		if c.CafeType != nil {
			v := strings.ToLower(strings.TrimSpace(*c.CafeType))
			c.CafeType = &v
		}
		if c.Ownership != nil {
			v := strings.ToLower(strings.TrimSpace(*c.Ownership))
			c.Ownership = &v
		}

		if masks.InvalidRating[i] {
			c.GoogleRating = nil
		}
		if masks.NegativeReviews[i] {
			c.ReviewCount = nil
		}

		out[i] = c
	}
	return out
}
