package ferry

import (
	"errors"
	"strings"
	"testing"

	"github.com/squareone-research/cafeferry/internal/cafe"
)

func TestValidate_CleanRows(t *testing.T) {
	rows := []cafe.Raw{sampleRow(1), sampleRow(2), sampleRow(3)}

	report := Validate(rows, testFerryConfig())

	if report.Records != 3 {
		t.Errorf("Records = %d, want 3", report.Records)
	}
	if len(report.Problems) != 0 {
		t.Errorf("Problems = %v, want none", report.Problems)
	}
	if got := report.Warnings.Total(); got != 0 {
		t.Errorf("Warnings.Total() = %d, want 0", got)
	}
	if report.Fatal() != nil {
		t.Error("Fatal() should be nil for clean rows")
	}
	for i := range rows {
		if report.Masks.LocationOutOfBounds[i] || report.Masks.SuspiciousPrice[i] ||
			report.Masks.InvalidRating[i] || report.Masks.NegativeReviews[i] {
			t.Errorf("row %d: unexpected warning mask set", i)
		}
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *cafe.Raw)
		wantField string
	}{
		{"nil cafe_id", func(r *cafe.Raw) { r.CafeID = nil }, "cafe_id"},
		{"nil name", func(r *cafe.Raw) { r.Name = nil }, "name"},
		{"empty name", func(r *cafe.Raw) { r.Name = ptr("") }, "name"},
		{"nil neighborhood", func(r *cafe.Raw) { r.Neighborhood = nil }, "neighborhood"},
		{"empty neighborhood", func(r *cafe.Raw) { r.Neighborhood = ptr("") }, "neighborhood"},
		{"nil cafe_type", func(r *cafe.Raw) { r.CafeType = nil }, "cafe_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := sampleRow(2)
			tt.mutate(&bad)
			rows := []cafe.Raw{sampleRow(1), bad}

			report := Validate(rows, testFerryConfig())

			if len(report.Problems) != 1 {
				t.Fatalf("Problems = %v, want exactly one", report.Problems)
			}
			p := report.Problems[0]
			if p.Check != CheckMissingRequired {
				t.Errorf("Check = %q, want %q", p.Check, CheckMissingRequired)
			}
			if p.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", p.Field, tt.wantField)
			}
			if p.Count != 1 {
				t.Errorf("Count = %d, want 1", p.Count)
			}
			if report.Fatal() == nil {
				t.Error("Fatal() should be non-nil")
			}
		})
	}
}

func TestValidate_DuplicateIDs(t *testing.T) {
	tests := []struct {
		name      string
		ids       []int64
		wantCount int
		wantIDs   []int64
	}{
		{"one pair", []int64{1, 2, 2, 3}, 1, []int64{2}},
		{"triple", []int64{7, 7, 7}, 2, []int64{7}},
		{"two pairs", []int64{1, 1, 2, 2}, 2, []int64{1, 2}},
		{"no duplicates", []int64{1, 2, 3}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]cafe.Raw, len(tt.ids))
			for i, id := range tt.ids {
				rows[i] = sampleRow(id)
			}

			report := Validate(rows, testFerryConfig())

			if tt.wantCount == 0 {
				if len(report.Problems) != 0 {
					t.Fatalf("Problems = %v, want none", report.Problems)
				}
				return
			}

			if len(report.Problems) != 1 {
				t.Fatalf("Problems = %v, want exactly one", report.Problems)
			}
			p := report.Problems[0]
			if p.Check != CheckDuplicateID {
				t.Errorf("Check = %q, want %q", p.Check, CheckDuplicateID)
			}
			if p.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", p.Count, tt.wantCount)
			}
			if len(p.CafeIDs) != len(tt.wantIDs) {
				t.Fatalf("CafeIDs = %v, want %v", p.CafeIDs, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if p.CafeIDs[i] != id {
					t.Errorf("CafeIDs[%d] = %d, want %d", i, p.CafeIDs[i], id)
				}
			}
		})
	}
}

func TestValidate_WarningMasks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *cafe.Raw)
		check  func(m WarningMasks) bool
		want   bool
	}{
		{
			name:   "latitude below bounds",
			mutate: func(r *cafe.Raw) { r.Latitude = ptr(53.20) },
			check:  func(m WarningMasks) bool { return m.LocationOutOfBounds[0] },
			want:   true,
		},
		{
			name:   "longitude above bounds",
			mutate: func(r *cafe.Raw) { r.Longitude = ptr(-113.10) },
			check:  func(m WarningMasks) bool { return m.LocationOutOfBounds[0] },
			want:   true,
		},
		{
			name:   "coordinates on the edge are in bounds",
			mutate: func(r *cafe.Raw) { r.Latitude = ptr(53.40); r.Longitude = ptr(-113.70) },
			check:  func(m WarningMasks) bool { return m.LocationOutOfBounds[0] },
			want:   false,
		},
		{
			name:   "missing coordinates are not out of bounds",
			mutate: func(r *cafe.Raw) { r.Latitude = nil },
			check:  func(m WarningMasks) bool { return m.LocationOutOfBounds[0] },
			want:   false,
		},
		{
			name:   "price below range",
			mutate: func(r *cafe.Raw) { r.AvgBeveragePrice = ptr(1.50) },
			check:  func(m WarningMasks) bool { return m.SuspiciousPrice[0] },
			want:   true,
		},
		{
			name:   "price above range",
			mutate: func(r *cafe.Raw) { r.AvgBeveragePrice = ptr(12.00) },
			check:  func(m WarningMasks) bool { return m.SuspiciousPrice[0] },
			want:   true,
		},
		{
			name:   "price on range edge is plausible",
			mutate: func(r *cafe.Raw) { r.AvgBeveragePrice = ptr(10.00) },
			check:  func(m WarningMasks) bool { return m.SuspiciousPrice[0] },
			want:   false,
		},
		{
			name:   "rating above scale",
			mutate: func(r *cafe.Raw) { r.GoogleRating = ptr(6.0) },
			check:  func(m WarningMasks) bool { return m.InvalidRating[0] },
			want:   true,
		},
		{
			name:   "rating below scale",
			mutate: func(r *cafe.Raw) { r.GoogleRating = ptr(0.5) },
			check:  func(m WarningMasks) bool { return m.InvalidRating[0] },
			want:   true,
		},
		{
			name:   "rating 5.0 is valid",
			mutate: func(r *cafe.Raw) { r.GoogleRating = ptr(5.0) },
			check:  func(m WarningMasks) bool { return m.InvalidRating[0] },
			want:   false,
		},
		{
			name:   "negative review count",
			mutate: func(r *cafe.Raw) { r.ReviewCount = ptr(int64(-5)) },
			check:  func(m WarningMasks) bool { return m.NegativeReviews[0] },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := sampleRow(1)
			tt.mutate(&row)

			report := Validate([]cafe.Raw{row}, testFerryConfig())

			if got := tt.check(report.Masks); got != tt.want {
				t.Errorf("mask = %v, want %v", got, tt.want)
			}
			if report.Fatal() != nil {
				t.Error("warnings must never be fatal")
			}
		})
	}
}

func TestValidate_WarningCounts(t *testing.T) {
	outOfBounds := sampleRow(1)
	outOfBounds.Latitude = ptr(53.00)
	cheap := sampleRow(2)
	cheap.AvgBeveragePrice = ptr(0.50)
	badRating := sampleRow(3)
	badRating.GoogleRating = ptr(9.9)
	negative := sampleRow(4)
	negative.ReviewCount = ptr(int64(-1))

	report := Validate([]cafe.Raw{outOfBounds, cheap, badRating, negative, sampleRow(5)}, testFerryConfig())

	if report.Warnings.LocationOutOfBounds != 1 {
		t.Errorf("LocationOutOfBounds = %d, want 1", report.Warnings.LocationOutOfBounds)
	}
	if report.Warnings.SuspiciousPrice != 1 {
		t.Errorf("SuspiciousPrice = %d, want 1", report.Warnings.SuspiciousPrice)
	}
	if report.Warnings.InvalidRating != 1 {
		t.Errorf("InvalidRating = %d, want 1", report.Warnings.InvalidRating)
	}
	if report.Warnings.NegativeReviews != 1 {
		t.Errorf("NegativeReviews = %d, want 1", report.Warnings.NegativeReviews)
	}
	if report.Warnings.Total() != 4 {
		t.Errorf("Total() = %d, want 4", report.Warnings.Total())
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Problems: []Problem{
		{Check: CheckMissingRequired, Field: "name", Count: 2},
		{Check: CheckDuplicateID, Count: 1, CafeIDs: []int64{7}},
	}}

	msg := err.Error()
	for _, want := range []string{"validation failed", "2 record(s) missing name", "1 duplicate cafe_id value(s)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should contain %q", msg, want)
		}
	}

	var verr *ValidationError
	if !errors.As(error(err), &verr) {
		t.Error("errors.As should match *ValidationError")
	}
}
