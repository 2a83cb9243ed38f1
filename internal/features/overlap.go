// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"context"
	"fmt"

	"github.com/pdiddy/citation-features/pkg/types"
)

var overlapColumns = []string{
	types.FeatSharedConceptCount,
	types.FeatConceptSimilarityProbability,
	types.FeatSharedAuthorCount,
	types.FeatAuthorSimilarityProbability,
}

// OverlapFeatures holds the concept and author overlap of one record.
type OverlapFeatures struct {
	SharedConceptCount           int
	ConceptSimilarityProbability float64
	SharedAuthorCount            int
	AuthorSimilarityProbability  float64
}

// ComputeOverlap derives the overlap features of a single record.
func ComputeOverlap(r types.JoinedRecord) OverlapFeatures {
	var f OverlapFeatures
	f.SharedConceptCount, f.ConceptSimilarityProbability = Overlap(
		ExtractItems(r.Original.Concepts), ExtractItems(r.Referenced.Concepts))
	f.SharedAuthorCount, f.AuthorSimilarityProbability = Overlap(
		ExtractItems(r.Original.Authors), ExtractItems(r.Referenced.Authors))
	return f
}

// OverlapDeriver produces shared counts and Jaccard ratios for concepts and
// authors. Rows are independent and computed in parallel.
type OverlapDeriver struct {
	// Workers bounds the goroutines used (0 = GOMAXPROCS).
	Workers int
}

func (OverlapDeriver) Name() string { return "overlap" }

func (OverlapDeriver) Columns() []string { return overlapColumns }

func (d OverlapDeriver) Derive(ctx context.Context, records []types.JoinedRecord) (types.FeatureSlice, error) {
	rows := make([][]any, len(records))
	err := parallelMap(ctx, len(records), d.Workers, func(i int) {
		f := ComputeOverlap(records[i])
		rows[i] = []any{
			f.SharedConceptCount,
			f.ConceptSimilarityProbability,
			f.SharedAuthorCount,
			f.AuthorSimilarityProbability,
		}
	})
	if err != nil {
		return types.FeatureSlice{}, fmt.Errorf("overlap: %w", err)
	}
	return types.FeatureSlice{Name: d.Name(), Columns: overlapColumns, Rows: rows}, nil
}
