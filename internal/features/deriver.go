// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package features derives comparison features from joined citation records.
// Each Deriver is stateless: it maps joined records to a fixed-column
// FeatureSlice whose rows line up with its input.
package features

import (
	"context"

	"github.com/pdiddy/citation-features/pkg/types"
)

// Deriver produces one FeatureSlice from joined records.
type Deriver interface {
	// Name identifies the deriver in logs and errors.
	Name() string

	// Columns returns the fixed output column set.
	Columns() []string

	// Derive returns one row per record, in record order.
	Derive(ctx context.Context, records []types.JoinedRecord) (types.FeatureSlice, error)
}

// Default returns the time, citation-count, and overlap derivers in their
// canonical column order. workers bounds the overlap row map.
func Default(workers int) []Deriver {
	return []Deriver{
		TimeDeriver{},
		CitationCountDeriver{},
		OverlapDeriver{Workers: workers},
	}
}

// deriveRows maps row over records sequentially, checking ctx between batches.
func deriveRows(ctx context.Context, name string, columns []string, records []types.JoinedRecord, row func(types.JoinedRecord) []any) (types.FeatureSlice, error) {
	rows := make([][]any, len(records))
	for i, r := range records {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return types.FeatureSlice{}, err
			}
		}
		rows[i] = row(r)
	}
	return types.FeatureSlice{Name: name, Columns: columns, Rows: rows}, nil
}

// difference subtracts two nullable integers; nil in, nil out.
func difference(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	return &d
}

// nonNegative is 1 when d is present and >= 0, else 0.
func nonNegative(d *int) int {
	if d != nil && *d >= 0 {
		return 1
	}
	return 0
}

func cell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
