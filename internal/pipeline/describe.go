// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/citation-features/pkg/types"
)

// ColumnSummary holds descriptive statistics for one feature column. Null
// cells are counted but excluded from the moments.
type ColumnSummary struct {
	Name   string  `json:"name" yaml:"name"`
	Count  int     `json:"count" yaml:"count"`
	Nulls  int     `json:"nulls" yaml:"nulls"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe summarizes every column of table. Columns with no values report
// NaN for the moments and bounds.
func Describe(table *types.FeatureTable) []ColumnSummary {
	out := make([]ColumnSummary, len(table.Columns))
	for c, name := range table.Columns {
		vals := make([]float64, 0, table.Len())
		nulls := 0
		for _, row := range table.Rows {
			v, ok := toFloat(row[c])
			if !ok {
				nulls++
				continue
			}
			vals = append(vals, v)
		}

		s := ColumnSummary{Name: name, Count: len(vals), Nulls: nulls}
		switch len(vals) {
		case 0:
			s.Mean, s.StdDev, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		case 1:
			s.Mean, s.StdDev, s.Min, s.Max = vals[0], 0, vals[0], vals[0]
		default:
			s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
			s.Min, s.Max = floats.Min(vals), floats.Max(vals)
		}
		out[c] = s
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
