// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads the citation edge table and the paper metadata table.
// Column names are part of the input contract; a table missing a required
// column is rejected before any row is read.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-features/pkg/types"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrReservedColumn is returned when an edge attribute reuses a joined column name.
	ErrReservedColumn = errors.New("edge column collides with joined column")
)

var edgeColumns = []string{types.ColPaper, types.ColReferencedPaper}

var metadataColumns = []string{
	types.ColPaperID,
	types.ColPublicationDate,
	types.ColPublicationYear,
	types.ColCitedByCount,
	types.ColConcepts,
	types.ColAuthors,
}

// LoadEdges reads a citation edge CSV file.
func LoadEdges(path string) ([]types.CitationEdge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening edges %s: %w", path, err)
	}
	defer f.Close()

	edges, err := ReadEdges(f)
	if err != nil {
		return nil, fmt.Errorf("reading edges %s: %w", path, err)
	}
	return edges, nil
}

// ReadEdges parses a citation edge CSV with a header row. paper and
// referenced_paper are required; every other column is kept as an edge
// attribute.
func ReadEdges(r io.Reader) ([]types.CitationEdge, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx, err := columnIndex(header, edgeColumns)
	if err != nil {
		return nil, err
	}

	var attrCols []int
	for i, name := range header {
		if name == types.ColPaper || name == types.ColReferencedPaper {
			continue
		}
		if types.IsReservedColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrReservedColumn, name)
		}
		attrCols = append(attrCols, i)
	}

	var edges []types.CitationEdge
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e := types.CitationEdge{
			Paper:           strings.TrimSpace(rec[idx[types.ColPaper]]),
			ReferencedPaper: strings.TrimSpace(rec[idx[types.ColReferencedPaper]]),
		}
		if len(attrCols) > 0 {
			e.Attributes = make(map[string]string, len(attrCols))
			for _, c := range attrCols {
				e.Attributes[header[c]] = rec[c]
			}
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// LoadMetadata reads a paper metadata CSV file.
func LoadMetadata(path string) ([]types.PaperMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata %s: %w", path, err)
	}
	defer f.Close()

	meta, err := ReadMetadata(f)
	if err != nil {
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}
	return meta, nil
}

// ReadMetadata parses a paper metadata CSV with a header row. Empty cells are
// missing values. Integer columns accept "2020" and "2020.0"; anything else
// is an error naming the line and column. Unknown columns are ignored.
func ReadMetadata(r io.Reader) ([]types.PaperMetadata, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx, err := columnIndex(header, metadataColumns)
	if err != nil {
		return nil, err
	}

	var out []types.PaperMetadata
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		m := types.PaperMetadata{
			PaperID:         strings.TrimSpace(rec[idx[types.ColPaperID]]),
			PublicationDate: optString(rec[idx[types.ColPublicationDate]]),
			Concepts:        optString(rec[idx[types.ColConcepts]]),
			Authors:         optString(rec[idx[types.ColAuthors]]),
		}
		if m.PublicationYear, err = optInt(rec[idx[types.ColPublicationYear]]); err != nil {
			return nil, fmt.Errorf("line %d, column %s: %w", line, types.ColPublicationYear, err)
		}
		if m.CitedByCount, err = optInt(rec[idx[types.ColCitedByCount]]); err != nil {
			return nil, fmt.Errorf("line %d, column %s: %w", line, types.ColCitedByCount, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	return cr
}

// columnIndex maps each required column to its position in header.
func columnIndex(header, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	idx := make(map[string]int, len(required))
	for _, c := range required {
		i, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		idx[c] = i
	}
	return idx, nil
}

// optString treats an empty cell as missing; any other cell, including
// whitespace, is kept verbatim.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	v := int(f)
	return &v, nil
}
