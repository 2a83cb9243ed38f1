// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preprocess joins citation edges against paper metadata.
// Each edge is left-joined twice against the metadata table, once on
// paper and once on referenced_paper, and the publication dates of both
// sides are parsed into time values.
package preprocess

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citation-features/pkg/types"
)

var (
	// ErrEmptyPaperID is returned when a metadata row has no paper_id.
	ErrEmptyPaperID = errors.New("metadata row has empty paper_id")

	// ErrDuplicatePaper is returned when two metadata rows share a paper_id.
	ErrDuplicatePaper = errors.New("duplicate paper_id in metadata")
)

// Joiner left-joins citation edges against a fixed metadata table. It holds
// the metadata for its lifetime and is safe for concurrent use.
type Joiner struct {
	metadata []types.PaperMetadata
	index    map[string]int
}

// NewJoiner indexes metadata by paper_id. Empty or repeated keys are
// rejected because either would break the one-row-per-edge guarantee.
func NewJoiner(metadata []types.PaperMetadata) (*Joiner, error) {
	index := make(map[string]int, len(metadata))
	for i, m := range metadata {
		if m.PaperID == "" {
			return nil, fmt.Errorf("metadata row %d: %w", i, ErrEmptyPaperID)
		}
		if prev, ok := index[m.PaperID]; ok {
			return nil, fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicatePaper, m.PaperID, prev, i)
		}
		index[m.PaperID] = i
	}
	return &Joiner{metadata: metadata, index: index}, nil
}

// Len returns the number of indexed metadata rows.
func (j *Joiner) Len() int { return len(j.metadata) }

// Fit is a no-op; the joiner has no fitted state.
func (j *Joiner) Fit(edges []types.CitationEdge) *Joiner { return j }

// Transform returns one JoinedRecord per edge, in input order. Edges whose
// endpoints are missing from the metadata are kept with that side null.
func (j *Joiner) Transform(edges []types.CitationEdge) []types.JoinedRecord {
	out := make([]types.JoinedRecord, len(edges))
	for i, e := range edges {
		out[i] = types.JoinedRecord{
			Edge:       e,
			Original:   j.side(e.Paper),
			Referenced: j.side(e.ReferencedPaper),
		}
	}
	return out
}

// Lookup returns the metadata row for id.
func (j *Joiner) Lookup(id string) (types.PaperMetadata, bool) {
	i, ok := j.index[id]
	if !ok {
		return types.PaperMetadata{}, false
	}
	return j.metadata[i], true
}

func (j *Joiner) side(id string) types.JoinedSide {
	m, ok := j.Lookup(id)
	if !ok {
		return types.JoinedSide{}
	}
	return types.JoinedSide{
		Matched:         true,
		PublicationDate: parseDatePtr(m.PublicationDate),
		PublicationYear: m.PublicationYear,
		CitedByCount:    m.CitedByCount,
		Concepts:        m.Concepts,
		Authors:         m.Authors,
	}
}
