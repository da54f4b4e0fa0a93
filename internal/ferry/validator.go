// Package ferry implements the transform stage: it reads the raw cafe
// table, validates it, standardizes and enriches every record, and
// atomically rebuilds the derived store.
//
// The stages are pure functions over row slices. Ferry composes them and
// owns all store I/O.
package ferry

import (
	"fmt"
	"strings"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
)

// Fatal check names carried in Problem.Check.
const (
	CheckMissingRequired = "missing_required"
	CheckDuplicateID     = "duplicate_cafe_id"
)

// Valid google_rating range. Fixed by the rating scale, not configurable.
const (
	ratingMin = 1.0
	ratingMax = 5.0
)

// Problem is one fatal validation finding.
type Problem struct {
	Check   string  `json:"check" yaml:"check"`
	Field   string  `json:"field,omitempty" yaml:"field,omitempty"`
	Count   int     `json:"count" yaml:"count"`
	CafeIDs []int64 `json:"cafe_ids,omitempty" yaml:"cafe_ids,omitempty"`
}

// ValidationError is returned when fatal problems are found. The ferry
// aborts without writing anything; the CLI maps it to its own exit status.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		switch p.Check {
		case CheckMissingRequired:
			parts = append(parts, fmt.Sprintf("%d record(s) missing %s", p.Count, p.Field))
		case CheckDuplicateID:
			parts = append(parts, fmt.Sprintf("%d duplicate cafe_id value(s)", p.Count))
		default:
			parts = append(parts, fmt.Sprintf("%s: %d record(s)", p.Check, p.Count))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// WarningMasks holds one row-aligned boolean mask per warning category.
// The standardizer and enricher consume them, so they must stay aligned
// with the row slice the validator saw.
type WarningMasks struct {
	LocationOutOfBounds []bool
	SuspiciousPrice     []bool
	InvalidRating       []bool
	NegativeReviews     []bool
}

// WarningCounts holds the per-category warning totals.
type WarningCounts struct {
	LocationOutOfBounds int `json:"location_out_of_bounds" yaml:"location_out_of_bounds"`
	SuspiciousPrice     int `json:"suspicious_price" yaml:"suspicious_price"`
	InvalidRating       int `json:"invalid_rating" yaml:"invalid_rating"`
	NegativeReviews     int `json:"negative_reviews" yaml:"negative_reviews"`
}

// Total returns the sum across all warning categories.
func (w WarningCounts) Total() int {
	return w.LocationOutOfBounds + w.SuspiciousPrice + w.InvalidRating + w.NegativeReviews
}

// ValidationReport is the full outcome of the validation stage.
type ValidationReport struct {
	Records  int           `json:"records" yaml:"records"`
	Problems []Problem     `json:"problems,omitempty" yaml:"problems,omitempty"`
	Warnings WarningCounts `json:"warnings" yaml:"warnings"`
	Masks    WarningMasks  `json:"-" yaml:"-"`
}

// Fatal returns a ValidationError if the report contains fatal problems,
// nil otherwise.
func (r *ValidationReport) Fatal() *ValidationError {
	if len(r.Problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: r.Problems}
}

// Validate classifies data problems in the raw rows. Fatal problems
// (missing required fields, duplicate ids) end up in Problems; quality
// warnings are counted and recorded as per-row masks. The input is never
// mutated.
func Validate(rows []cafe.Raw, cfg config.FerryConfig) *ValidationReport {
	report := &ValidationReport{
		Records: len(rows),
		Masks: WarningMasks{
			LocationOutOfBounds: make([]bool, len(rows)),
			SuspiciousPrice:     make([]bool, len(rows)),
			InvalidRating:       make([]bool, len(rows)),
			NegativeReviews:     make([]bool, len(rows)),
		},
	}

	report.Problems = append(report.Problems, missingRequired(rows)...)
	if p := duplicateIDs(rows); p != nil {
		report.Problems = append(report.Problems, *p)
	}

	for i, r := range rows {
		if r.Latitude != nil && r.Longitude != nil && !cfg.Bounds.Contains(*r.Latitude, *r.Longitude) {
			report.Masks.LocationOutOfBounds[i] = true
			report.Warnings.LocationOutOfBounds++
		}
		if r.AvgBeveragePrice != nil && !cfg.PriceRange.Contains(*r.AvgBeveragePrice) {
			report.Masks.SuspiciousPrice[i] = true
			report.Warnings.SuspiciousPrice++
		}
		if r.GoogleRating != nil && (*r.GoogleRating < ratingMin || *r.GoogleRating > ratingMax) {
			report.Masks.InvalidRating[i] = true
			report.Warnings.InvalidRating++
		}
		if r.ReviewCount != nil && *r.ReviewCount < 0 {
			report.Masks.NegativeReviews[i] = true
			report.Warnings.NegativeReviews++
		}
	}

	return report
}

// missingRequired reports one Problem per required field with null or
// empty values, in the canonical required-field order.
func missingRequired(rows []cafe.Raw) []Problem {
	checks := []struct {
		field   string
		missing func(r cafe.Raw) bool
	}{
		{"cafe_id", func(r cafe.Raw) bool { return r.CafeID == nil }},
		{"name", func(r cafe.Raw) bool { return r.Name == nil || *r.Name == "" }},
		{"neighborhood", func(r cafe.Raw) bool { return r.Neighborhood == nil || *r.Neighborhood == "" }},
		{"cafe_type", func(r cafe.Raw) bool { return r.CafeType == nil || *r.CafeType == "" }},
	}

	var problems []Problem
	for _, c := range checks {
		count := 0
		var ids []int64
		for _, r := range rows {
			if c.missing(r) {
				count++
				if r.CafeID != nil {
					ids = append(ids, *r.CafeID)
				}
			}
		}
		if count > 0 {
			problems = append(problems, Problem{
				Check:   CheckMissingRequired,
				Field:   c.field,
				Count:   count,
				CafeIDs: ids,
			})
		}
	}
	return problems
}

// duplicateIDs reports ids appearing more than once. The count is the
// number of rows beyond each first occurrence. Null ids are already
// reported as missing and are skipped here.
func duplicateIDs(rows []cafe.Raw) *Problem {
	seen := make(map[int64]int, len(rows))
	for _, r := range rows {
		if r.CafeID != nil {
			seen[*r.CafeID]++
		}
	}

	extra := 0
	var ids []int64
	for _, r := range rows {
		if r.CafeID == nil {
			continue
		}
		if n := seen[*r.CafeID]; n > 1 {
			extra += n - 1
			ids = append(ids, *r.CafeID)
			// report each duplicated id once
			seen[*r.CafeID] = 1
		}
	}

	if extra == 0 {
		return nil
	}
	return &Problem{Check: CheckDuplicateID, Count: extra, CafeIDs: ids}
}
