// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex builds PaperMetadata records from the OpenAlex works API.
// Concepts and authorships are flattened into ';'-delimited lists, the form
// the overlap features parse.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citation-features/internal/httputil"
	"github.com/pdiddy/citation-features/pkg/types"
)

// worksAPIBase is the OpenAlex works endpoint. Declared as a var so tests
// can substitute an httptest server.
var worksAPIBase = "https://api.openalex.org/works/"

const (
	defaultTimeout      = 30 * time.Second
	defaultRequestDelay = 100 * time.Millisecond
	defaultUserAgent    = "citation-features/0.1"
)

// Fetcher looks up works one at a time.
type Fetcher struct {
	cfg     types.OpenAlexConfig
	retrier *httputil.Retrier
	logger  zerolog.Logger
}

// NewFetcher returns a Fetcher using client (nil builds one from cfg.Timeout).
func NewFetcher(client *http.Client, cfg types.OpenAlexConfig, logger zerolog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 0
	} else if cfg.RequestDelay == 0 {
		cfg.RequestDelay = defaultRequestDelay
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		cfg: cfg,
		retrier: &httputil.Retrier{
			Client:     client,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		},
		logger: logger,
	}
}

// FetchResult holds the outcome of a batch lookup.
type FetchResult struct {
	Records []types.PaperMetadata
	Failed  map[string]error
}

// HasFailures reports whether any lookup failed.
func (r FetchResult) HasFailures() bool { return len(r.Failed) > 0 }

// Fetch looks up every identifier in order, writing one progress line per
// identifier to w. A failed lookup is recorded and the batch continues;
// only cancellation of ctx stops it early.
func (f *Fetcher) Fetch(ctx context.Context, ids []string, w io.Writer) (FetchResult, error) {
	res := FetchResult{Failed: map[string]error{}}
	for i, id := range ids {
		if i > 0 && f.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(f.cfg.RequestDelay):
			}
		}

		m, err := f.FetchWork(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			res.Failed[id] = err
			continue
		}
		fmt.Fprintf(w, "fetched %s\n", m.PaperID)
		res.Records = append(res.Records, m)
	}
	f.logger.Info().Int("fetched", len(res.Records)).Int("failed", len(res.Failed)).Msg("openalex fetch finished")
	return res, nil
}

// FetchWork looks up a single work by OpenAlex ID (W123, or its
// https://openalex.org/ URL) or DOI. The returned record's PaperID is the
// identifier as given, trimmed, so it joins against edge tables keyed the
// same way.
func (f *Fetcher) FetchWork(ctx context.Context, id string) (types.PaperMetadata, error) {
	id = strings.TrimSpace(id)
	key, err := workKey(id)
	if err != nil {
		return types.PaperMetadata{}, err
	}

	params := url.Values{"select": {"id,publication_date,publication_year,cited_by_count,concepts,authorships"}}
	if f.cfg.Email != "" {
		params.Set("mailto", f.cfg.Email)
	}
	reqURL := worksAPIBase + key + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.retrier.Do(ctx, req)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PaperMetadata{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return work.metadata(id), nil
}

// workKey turns an identifier into the path segment of a works lookup.
func workKey(id string) (string, error) {
	switch {
	case id == "":
		return "", fmt.Errorf("empty identifier")
	case strings.HasPrefix(id, "https://openalex.org/"):
		return strings.TrimPrefix(id, "https://openalex.org/"), nil
	case strings.HasPrefix(id, "https://doi.org/"):
		return id, nil
	case strings.HasPrefix(strings.ToLower(id), "doi:"):
		return "https://doi.org/" + strings.TrimSpace(id[4:]), nil
	case strings.HasPrefix(id, "10."):
		return "https://doi.org/" + id, nil
	case (id[0] == 'W' || id[0] == 'w') && len(id) > 1 && isDigits(id[1:]):
		return "W" + id[1:], nil
	}
	return "", fmt.Errorf("unrecognized identifier %q: use an OpenAlex work ID or DOI", id)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	ID              string               `json:"id"`
	PublicationDate string               `json:"publication_date"`
	PublicationYear *int                 `json:"publication_year"`
	CitedByCount    *int                 `json:"cited_by_count"`
	Concepts        []openAlexConcept    `json:"concepts"`
	Authorships     []openAlexAuthorship `json:"authorships"`
}

type openAlexConcept struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (w openAlexWork) metadata(paperID string) types.PaperMetadata {
	m := types.PaperMetadata{
		PaperID:         paperID,
		PublicationYear: w.PublicationYear,
		CitedByCount:    w.CitedByCount,
	}
	if w.PublicationDate != "" {
		d := w.PublicationDate
		m.PublicationDate = &d
	}

	var concepts []string
	for _, c := range w.Concepts {
		if c.DisplayName != "" {
			concepts = append(concepts, c.DisplayName)
		}
	}
	m.Concepts = joinList(concepts)

	var authors []string
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, a.Author.DisplayName)
		}
	}
	m.Authors = joinList(authors)
	return m
}

// joinList returns nil for an empty list so it reads back as a missing cell.
func joinList(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	s := strings.Join(items, ";")
	return &s
}
