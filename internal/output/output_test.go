// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-features/pkg/types"
)

func sampleTable() *types.FeatureTable {
	return &types.FeatureTable{
		Edges: []types.CitationEdge{
			{Paper: "1", ReferencedPaper: "2"},
			{Paper: "1", ReferencedPaper: "9"},
		},
		Columns: []string{"year_difference", "positive_year_difference", "concept_similarity_probability"},
		Rows: [][]any{
			{2, 1, 0.5},
			{nil, 0, 0.0},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTable(), types.OutputCSV, Options{}))
	assert.Equal(t,
		"year_difference,positive_year_difference,concept_similarity_probability\n"+
			"2,1,0.5\n"+
			",0,0.0\n",
		buf.String())
}

func TestWriteCSVWithKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTable(), "", Options{Keys: true}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "paper,referenced_paper,year_difference,positive_year_difference,concept_similarity_probability", lines[0])
	assert.Equal(t, "1,9,,0,0.0", lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTable(), types.OutputJSON, Options{Keys: true}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0]["referenced_paper"])
	assert.Equal(t, float64(2), got[0]["year_difference"])
	assert.Nil(t, got[1]["year_difference"])
	assert.Contains(t, got[1], "year_difference", "null is written, not omitted")
}

func TestWriteYAMLKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTable(), types.OutputYAML, Options{}))

	out := buf.String()
	assert.Less(t, strings.Index(out, "year_difference"), strings.Index(out, "positive_year_difference"))
	assert.Less(t, strings.Index(out, "positive_year_difference"), strings.Index(out, "concept_similarity_probability"))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0]["year_difference"])
	assert.Equal(t, 0.5, got[0]["concept_similarity_probability"])
	assert.Equal(t, 0.0, got[1]["concept_similarity_probability"])
	assert.Nil(t, got[1]["year_difference"])
}

func TestWriteUnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleTable(), "parquet", Options{})
	assert.ErrorContains(t, err, `unsupported format "parquet"`)
}

func TestWriteJoined(t *testing.T) {
	date := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	year := 2020
	concepts := "ai;ml"
	records := []types.JoinedRecord{
		{
			Edge:     types.CitationEdge{Paper: "1", ReferencedPaper: "2", Attributes: map[string]string{"label": "1"}},
			Original: types.JoinedSide{Matched: true, PublicationDate: &date, PublicationYear: &year, Concepts: &concepts},
		},
		{Edge: types.CitationEdge{Paper: "3", ReferencedPaper: "4"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJoined(&buf, records))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "paper,referenced_paper,label,publication_date_original,"))
	assert.Equal(t, "1,2,1,2020-05-01,2020,,ai;ml,,,,,,", lines[1])
	assert.Equal(t, "3,4,,,,,,,,,,,", lines[2])
}
