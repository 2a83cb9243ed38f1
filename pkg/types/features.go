// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Derived feature column names.
const (
	FeatYearDifference             = "year_difference"
	FeatIsOriginalBeforeReferenced = "is_original_before_referenced"
	FeatPositiveYearDifference     = "positive_year_difference"

	FeatCitedByCountDifference         = "cited_by_count_difference"
	FeatPositiveCitedByCountDifference = "positive_cited_by_count_difference"

	FeatSharedConceptCount           = "shared_concept_count"
	FeatConceptSimilarityProbability = "concept_similarity_probability"
	FeatSharedAuthorCount            = "shared_author_count"
	FeatAuthorSimilarityProbability  = "author_similarity_probability"
)

// FeatureSlice is the fixed-column output of one deriver. Rows are aligned
// by index with the joined records it was derived from. Cells are nil
// (null), int, or float64.
type FeatureSlice struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows in the slice.
func (s FeatureSlice) Len() int { return len(s.Rows) }

// FeatureTable is the model-input table: the concatenation of feature
// slices by row index, keyed by the edge of each row.
type FeatureTable struct {
	Edges   []CitationEdge
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows in the table.
func (t *FeatureTable) Len() int { return len(t.Rows) }

// Column returns the cells of the named column, or false if the table has
// no such column.
func (t *FeatureTable) Column(name string) ([]any, bool) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// IsReservedColumn reports whether name collides with a column the joiner
// produces, which an edge attribute must not reuse.
func IsReservedColumn(name string) bool {
	if name == ColPaperID {
		return true
	}
	for _, c := range JoinedColumns(nil) {
		if c == name {
			return true
		}
	}
	return false
}
