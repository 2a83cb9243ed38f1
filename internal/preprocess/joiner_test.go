// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-features/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func sampleMetadata() []types.PaperMetadata {
	return []types.PaperMetadata{
		{
			PaperID:         "1",
			PublicationDate: ptr("2020-05-01"),
			PublicationYear: ptr(2020),
			CitedByCount:    ptr(50),
			Concepts:        ptr("ai;ml"),
			Authors:         ptr("Jane Doe"),
		},
		{
			PaperID:         "2",
			PublicationDate: ptr("March 3, 2018"),
			PublicationYear: ptr(2018),
			CitedByCount:    ptr(30),
			Concepts:        ptr("ai;nlp"),
			Authors:         ptr("Jane Doe;John Roe"),
		},
		{
			PaperID:         "3",
			PublicationDate: ptr("not a date"),
			PublicationYear: ptr(2019),
		},
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		isNil bool
	}{
		{"iso date", "2020-05-01", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"slash date", "2020/05/01", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"long form", "May 1, 2020", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2020-05-01T10:30:00Z", time.Date(2020, 5, 1, 10, 30, 0, 0, time.UTC), false},
		{"padded", "  2020-05-01 ", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"blank", "   ", time.Time{}, true},
		{"garbage", "not a date", time.Time{}, true},
		{"impossible month", "2020-13-45", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "ParseDate(%q) = %v, want %v", tt.input, *got, tt.want)
		})
	}
}

func TestNewJoinerRejectsBadKeys(t *testing.T) {
	_, err := NewJoiner([]types.PaperMetadata{{PaperID: "1"}, {PaperID: ""}})
	assert.True(t, errors.Is(err, ErrEmptyPaperID), "got %v", err)

	_, err = NewJoiner([]types.PaperMetadata{{PaperID: "1"}, {PaperID: "2"}, {PaperID: "1"}})
	assert.True(t, errors.Is(err, ErrDuplicatePaper), "got %v", err)
	assert.Contains(t, err.Error(), `"1"`)
}

func TestTransformJoinsBothSides(t *testing.T) {
	j, err := NewJoiner(sampleMetadata())
	require.NoError(t, err)
	assert.Equal(t, 3, j.Len())

	edges := []types.CitationEdge{
		{Paper: "1", ReferencedPaper: "2", Attributes: map[string]string{"label": "1"}},
	}
	got := j.Fit(edges).Transform(edges)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, edges[0], rec.Edge)
	assert.True(t, rec.Original.Matched)
	assert.True(t, rec.Referenced.Matched)
	assert.Equal(t, 2020, *rec.Original.PublicationYear)
	assert.Equal(t, 2018, *rec.Referenced.PublicationYear)
	assert.Equal(t, 50, *rec.Original.CitedByCount)
	assert.Equal(t, "ai;nlp", *rec.Referenced.Concepts)
	require.NotNil(t, rec.Original.PublicationDate)
	require.NotNil(t, rec.Referenced.PublicationDate)
	assert.True(t, rec.Original.PublicationDate.Equal(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rec.Referenced.PublicationDate.Equal(time.Date(2018, 3, 3, 0, 0, 0, 0, time.UTC)))
}

func TestTransformIsLeftOuter(t *testing.T) {
	j, err := NewJoiner(sampleMetadata())
	require.NoError(t, err)

	edges := []types.CitationEdge{
		{Paper: "1", ReferencedPaper: "missing"},
		{Paper: "missing", ReferencedPaper: "2"},
		{Paper: "x", ReferencedPaper: "y"},
		{Paper: "1", ReferencedPaper: "missing"},
	}
	got := j.Transform(edges)
	require.Len(t, got, len(edges), "every edge appears exactly once")

	for i, rec := range got {
		assert.Equal(t, edges[i], rec.Edge, "row %d order preserved", i)
	}
	assert.True(t, got[0].Original.Matched)
	assert.Equal(t, types.JoinedSide{}, got[0].Referenced)
	assert.Equal(t, types.JoinedSide{}, got[1].Original)
	assert.True(t, got[1].Referenced.Matched)
	assert.Equal(t, types.JoinedSide{}, got[2].Original)
	assert.Equal(t, types.JoinedSide{}, got[2].Referenced)
}

func TestTransformCoercesBadDates(t *testing.T) {
	j, err := NewJoiner(sampleMetadata())
	require.NoError(t, err)

	got := j.Transform([]types.CitationEdge{{Paper: "3", ReferencedPaper: "1"}})
	require.Len(t, got, 1)
	assert.True(t, got[0].Original.Matched)
	assert.Nil(t, got[0].Original.PublicationDate, "unparseable date becomes null")
	assert.Equal(t, 2019, *got[0].Original.PublicationYear)
	assert.Nil(t, got[0].Original.Concepts)
}

func TestJoinedValuesOrder(t *testing.T) {
	j, err := NewJoiner(sampleMetadata())
	require.NoError(t, err)

	rec := j.Transform([]types.CitationEdge{
		{Paper: "1", ReferencedPaper: "missing", Attributes: map[string]string{"label": "0"}},
	})[0]

	attrs := rec.Edge.AttributeNames()
	cols := types.JoinedColumns(attrs)
	vals := rec.Values(attrs)
	require.Len(t, vals, len(cols))

	assert.Equal(t, []string{
		"paper", "referenced_paper", "label",
		"publication_date_original", "publication_year_original", "cited_by_count_original",
		"concepts_original", "authors_original",
		"publication_date_referenced", "publication_year_referenced", "cited_by_count_referenced",
		"concepts_referenced", "authors_referenced",
	}, cols)
	assert.Equal(t, "1", vals[0])
	assert.Equal(t, "0", vals[2])
	assert.Equal(t, 2020, vals[4])
	for i := 8; i < len(vals); i++ {
		assert.Nil(t, vals[i], "column %s", cols[i])
	}
}
