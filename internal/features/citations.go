// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"context"

	"github.com/pdiddy/citation-features/pkg/types"
)

var citationColumns = []string{
	types.FeatCitedByCountDifference,
	types.FeatPositiveCitedByCountDifference,
}

// CitationCountFeatures holds the cited-by comparison of one record.
type CitationCountFeatures struct {
	// Difference is original minus referenced cited_by_count; nil if either
	// count is missing.
	Difference *int

	// Positive is 1 when Difference is present and >= 0.
	Positive int
}

// ComputeCitationCount derives the citation-count features of a single record.
func ComputeCitationCount(r types.JoinedRecord) CitationCountFeatures {
	diff := difference(r.Original.CitedByCount, r.Referenced.CitedByCount)
	return CitationCountFeatures{Difference: diff, Positive: nonNegative(diff)}
}

// CitationCountDeriver produces cited_by_count_difference and
// positive_cited_by_count_difference.
type CitationCountDeriver struct{}

func (CitationCountDeriver) Name() string { return "cited_by_count" }

func (CitationCountDeriver) Columns() []string { return citationColumns }

func (d CitationCountDeriver) Derive(ctx context.Context, records []types.JoinedRecord) (types.FeatureSlice, error) {
	return deriveRows(ctx, d.Name(), citationColumns, records, func(r types.JoinedRecord) []any {
		f := ComputeCitationCount(r)
		return []any{cell(f.Difference), f.Positive}
	})
}
