// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the metadata join and the feature derivers into
// one model-input table.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citation-features/internal/features"
	"github.com/pdiddy/citation-features/internal/preprocess"
	"github.com/pdiddy/citation-features/pkg/types"
)

// Pipeline joins edges against metadata and runs every deriver on the
// joined records. Derivers share no state and run concurrently.
type Pipeline struct {
	joiner   *preprocess.Joiner
	derivers []features.Deriver
	logger   zerolog.Logger
}

// New returns a pipeline over joiner. With no derivers, features.Default(0)
// is used.
func New(joiner *preprocess.Joiner, derivers []features.Deriver, logger zerolog.Logger) *Pipeline {
	if len(derivers) == 0 {
		derivers = features.Default(0)
	}
	return &Pipeline{joiner: joiner, derivers: derivers, logger: logger}
}

// Fit is a no-op; no stage has fitted state.
func (p *Pipeline) Fit(edges []types.CitationEdge) *Pipeline { return p }

// Columns returns the output columns, in deriver order.
func (p *Pipeline) Columns() []string {
	var cols []string
	for _, d := range p.derivers {
		cols = append(cols, d.Columns()...)
	}
	return cols
}

// Join runs only the metadata join.
func (p *Pipeline) Join(edges []types.CitationEdge) []types.JoinedRecord {
	return p.joiner.Transform(edges)
}

// Transform joins edges and returns the concatenated feature table, one row
// per edge in input order.
func (p *Pipeline) Transform(ctx context.Context, edges []types.CitationEdge) (*types.FeatureTable, error) {
	start := time.Now()
	records := p.Join(edges)
	p.logger.Debug().Int("edges", len(edges)).Dur("took", time.Since(start)).Msg("joined metadata")

	slices := make([]types.FeatureSlice, len(p.derivers))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range p.derivers {
		g.Go(func() error {
			t0 := time.Now()
			s, err := d.Derive(gctx, records)
			if err != nil {
				return fmt.Errorf("deriver %s: %w", d.Name(), err)
			}
			p.logger.Debug().Str("deriver", d.Name()).Int("rows", s.Len()).Dur("took", time.Since(t0)).Msg("derived features")
			slices[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table, err := Concat(edges, slices)
	if err != nil {
		return nil, err
	}
	p.logger.Info().
		Int("rows", table.Len()).
		Int("columns", len(table.Columns)).
		Dur("took", time.Since(start)).
		Msg("feature table built")
	return table, nil
}

// Concat joins slices column-wise by row index. Every slice must have one
// row per edge.
func Concat(edges []types.CitationEdge, slices []types.FeatureSlice) (*types.FeatureTable, error) {
	table := &types.FeatureTable{
		Edges: edges,
		Rows:  make([][]any, len(edges)),
	}
	for _, s := range slices {
		if s.Len() != len(edges) {
			return nil, fmt.Errorf("feature slice %s has %d rows, want %d", s.Name, s.Len(), len(edges))
		}
		table.Columns = append(table.Columns, s.Columns...)
	}
	for i := range table.Rows {
		row := make([]any, 0, len(table.Columns))
		for _, s := range slices {
			row = append(row, s.Rows[i]...)
		}
		table.Rows[i] = row
	}
	return table, nil
}
