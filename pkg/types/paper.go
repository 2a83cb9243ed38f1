// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"sort"
	"time"
)

// Column names of the input tables. They are part of the external contract:
// renaming any of them breaks the joins.
const (
	ColPaper           = "paper"
	ColReferencedPaper = "referenced_paper"

	ColPaperID         = "paper_id"
	ColPublicationDate = "publication_date"
	ColPublicationYear = "publication_year"
	ColCitedByCount    = "cited_by_count"
	ColConcepts        = "concepts"
	ColAuthors         = "authors"
)

// Suffixes applied to metadata columns after the double join.
const (
	SuffixOriginal   = "_original"
	SuffixReferenced = "_referenced"
)

// MetadataColumns lists the PaperMetadata columns carried into a JoinedRecord,
// in output order. paper_id is dropped after each join.
var MetadataColumns = []string{
	ColPublicationDate,
	ColPublicationYear,
	ColCitedByCount,
	ColConcepts,
	ColAuthors,
}

// CitationEdge is one (paper, referenced_paper) pair from the edge table.
type CitationEdge struct {
	// Paper is the citing (original) paper ID.
	Paper string `json:"paper" yaml:"paper"`

	// ReferencedPaper is the cited paper ID.
	ReferencedPaper string `json:"referenced_paper" yaml:"referenced_paper"`

	// Attributes holds any other columns of the edge table, keyed by column name.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// AttributeNames returns the attribute column names in sorted order.
func (e CitationEdge) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// PaperMetadata is one row of the metadata lookup table. Nil fields are
// missing values.
type PaperMetadata struct {
	// PaperID is the join key.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// PublicationDate is the raw date string; formats vary across sources.
	PublicationDate *string `json:"publication_date" yaml:"publication_date"`

	PublicationYear *int `json:"publication_year" yaml:"publication_year"`
	CitedByCount    *int `json:"cited_by_count" yaml:"cited_by_count"`

	// Concepts is a ';' or ',' delimited list of concept names.
	Concepts *string `json:"concepts" yaml:"concepts"`

	// Authors is a ';' or ',' delimited list of author names.
	Authors *string `json:"authors" yaml:"authors"`
}

// JoinedSide holds the metadata of one endpoint of an edge after the join.
// The zero value is an unmatched side: every column null.
type JoinedSide struct {
	Matched         bool
	PublicationDate *time.Time
	PublicationYear *int
	CitedByCount    *int
	Concepts        *string
	Authors         *string
}

// JoinedRecord is a CitationEdge with the metadata of both endpoints.
type JoinedRecord struct {
	Edge       CitationEdge
	Original   JoinedSide
	Referenced JoinedSide
}

// JoinedColumns returns the column names of a joined table whose edges carry
// the given attribute columns: edge keys, attributes, then the metadata
// columns suffixed _original followed by those suffixed _referenced.
func JoinedColumns(attributes []string) []string {
	cols := make([]string, 0, 2+len(attributes)+2*len(MetadataColumns))
	cols = append(cols, ColPaper, ColReferencedPaper)
	cols = append(cols, attributes...)
	for _, suffix := range []string{SuffixOriginal, SuffixReferenced} {
		for _, c := range MetadataColumns {
			cols = append(cols, c+suffix)
		}
	}
	return cols
}

// Values returns the record's cells in JoinedColumns order for the given
// attribute names. Null cells are nil; dates are time.Time.
func (r JoinedRecord) Values(attributes []string) []any {
	vals := make([]any, 0, 2+len(attributes)+2*len(MetadataColumns))
	vals = append(vals, r.Edge.Paper, r.Edge.ReferencedPaper)
	for _, a := range attributes {
		if v, ok := r.Edge.Attributes[a]; ok {
			vals = append(vals, v)
		} else {
			vals = append(vals, nil)
		}
	}
	for _, side := range []JoinedSide{r.Original, r.Referenced} {
		vals = append(vals, side.values()...)
	}
	return vals
}

func (s JoinedSide) values() []any {
	out := make([]any, 0, len(MetadataColumns))
	if s.PublicationDate != nil {
		out = append(out, *s.PublicationDate)
	} else {
		out = append(out, nil)
	}
	out = append(out, intCell(s.PublicationYear), intCell(s.CitedByCount))
	out = append(out, stringCell(s.Concepts), stringCell(s.Authors))
	return out
}

func intCell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringCell(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
