// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-features/pkg/types"
)

const sampleWork = `{
  "id": "https://openalex.org/W2741809807",
  "publication_date": "2018-02-13",
  "publication_year": 2018,
  "cited_by_count": 30,
  "concepts": [
    {"display_name": "Artificial intelligence", "score": 0.61},
    {"display_name": "Natural language processing", "score": 0.44},
    {"display_name": "", "score": 0.1}
  ],
  "authorships": [
    {"author": {"id": "https://openalex.org/A1", "display_name": "Jane Doe"}},
    {"author": {"id": "https://openalex.org/A2", "display_name": "John Roe"}}
  ]
}`

const sparseWork = `{
  "id": "https://openalex.org/W1",
  "publication_date": null,
  "publication_year": null,
  "cited_by_count": 0,
  "concepts": [],
  "authorships": []
}`

// setupServer routes work lookups by the path after /works/ and restores
// worksAPIBase on cleanup.
func setupServer(t *testing.T, works map[string]string) *[]string {
	t.Helper()
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/works/")
		paths = append(paths, key)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		body, ok := works[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("mailto") != "me@example.com" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	old := worksAPIBase
	worksAPIBase = ts.URL + "/works/"
	t.Cleanup(func() { worksAPIBase = old })
	return &paths
}

func testFetcher() *Fetcher {
	return NewFetcher(nil, types.OpenAlexConfig{
		HTTPConfig:   types.HTTPConfig{UserAgent: "test-agent"},
		Email:        "me@example.com",
		RequestDelay: -1,
	}, zerolog.Nop())
}

func TestFetchWork(t *testing.T) {
	setupServer(t, map[string]string{"W2741809807": sampleWork})

	m, err := testFetcher().FetchWork(context.Background(), " W2741809807 ")
	require.NoError(t, err)

	assert.Equal(t, "W2741809807", m.PaperID)
	require.NotNil(t, m.PublicationDate)
	assert.Equal(t, "2018-02-13", *m.PublicationDate)
	assert.Equal(t, 2018, *m.PublicationYear)
	assert.Equal(t, 30, *m.CitedByCount)
	assert.Equal(t, "Artificial intelligence;Natural language processing", *m.Concepts)
	assert.Equal(t, "Jane Doe;John Roe", *m.Authors)
}

func TestFetchWorkSparse(t *testing.T) {
	setupServer(t, map[string]string{"W1": sparseWork})

	m, err := testFetcher().FetchWork(context.Background(), "https://openalex.org/W1")
	require.NoError(t, err)
	assert.Equal(t, "https://openalex.org/W1", m.PaperID)
	assert.Nil(t, m.PublicationDate)
	assert.Nil(t, m.PublicationYear)
	assert.Equal(t, 0, *m.CitedByCount)
	assert.Nil(t, m.Concepts)
	assert.Nil(t, m.Authors)
}

func TestWorkKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"W123", "W123", false},
		{"w123", "W123", false},
		{"https://openalex.org/W123", "W123", false},
		{"10.1145/1234567", "https://doi.org/10.1145/1234567", false},
		{"doi:10.1145/1234567", "https://doi.org/10.1145/1234567", false},
		{"https://doi.org/10.1145/1234567", "https://doi.org/10.1145/1234567", false},
		{"", "", true},
		{"W", "", true},
		{"paper-42", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := workKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchBatchContinuesOnFailure(t *testing.T) {
	paths := setupServer(t, map[string]string{
		"W2741809807": sampleWork,
		"W1":          sparseWork,
	})

	var out bytes.Buffer
	res, err := testFetcher().Fetch(context.Background(), []string{"W2741809807", "W404", "bogus", "W1"}, &out)
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "W2741809807", res.Records[0].PaperID)
	assert.Equal(t, "W1", res.Records[1].PaperID)
	assert.True(t, res.HasFailures())
	assert.Len(t, res.Failed, 2)
	assert.ErrorContains(t, res.Failed["W404"], "HTTP 404")
	assert.ErrorContains(t, res.Failed["bogus"], "unrecognized identifier")

	assert.Equal(t, []string{"W2741809807", "W404", "W1"}, *paths, "bogus never reaches the API")
	assert.Contains(t, out.String(), "fetched W2741809807\n")
	assert.Contains(t, out.String(), "failed  W404: OpenAlex API returned HTTP 404\n")
}

func TestFetchCancelled(t *testing.T) {
	setupServer(t, map[string]string{"W1": sparseWork})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testFetcher().Fetch(ctx, []string{"W1", "W1"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
