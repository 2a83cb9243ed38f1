// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"context"

	"github.com/pdiddy/citation-features/pkg/types"
)

var timeColumns = []string{
	types.FeatYearDifference,
	types.FeatIsOriginalBeforeReferenced,
	types.FeatPositiveYearDifference,
}

// TimeFeatures holds the publication-time comparison of one record.
type TimeFeatures struct {
	// YearDifference is original minus referenced publication year; nil if
	// either year is missing.
	YearDifference *int

	// IsOriginalBeforeReferenced is 1 when the original publication date is
	// strictly later than the referenced one. A missing date on either side
	// gives 0.
	IsOriginalBeforeReferenced int

	// PositiveYearDifference is 1 when YearDifference is present and >= 0.
	PositiveYearDifference int
}

// ComputeTime derives the time features of a single record.
func ComputeTime(r types.JoinedRecord) TimeFeatures {
	diff := difference(r.Original.PublicationYear, r.Referenced.PublicationYear)
	before := 0
	if o, ref := r.Original.PublicationDate, r.Referenced.PublicationDate; o != nil && ref != nil && o.After(*ref) {
		before = 1
	}
	return TimeFeatures{
		YearDifference:             diff,
		IsOriginalBeforeReferenced: before,
		PositiveYearDifference:     nonNegative(diff),
	}
}

// TimeDeriver produces year_difference, is_original_before_referenced and
// positive_year_difference.
type TimeDeriver struct{}

func (TimeDeriver) Name() string { return "time" }

func (TimeDeriver) Columns() []string { return timeColumns }

func (d TimeDeriver) Derive(ctx context.Context, records []types.JoinedRecord) (types.FeatureSlice, error) {
	return deriveRows(ctx, d.Name(), timeColumns, records, func(r types.JoinedRecord) []any {
		f := ComputeTime(r)
		return []any{cell(f.YearDifference), f.IsOriginalBeforeReferenced, f.PositiveYearDifference}
	})
}
