// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes feature and joined tables as CSV, JSON, or YAML.
// Null cells are empty in CSV and null in JSON and YAML.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-features/pkg/types"
)

// Options controls which columns are written.
type Options struct {
	// Keys prepends the paper and referenced_paper columns.
	Keys bool
}

// Write encodes table to w in the given format.
func Write(w io.Writer, table *types.FeatureTable, format types.OutputFormat, opts Options) error {
	cols, rows := project(table, opts)
	switch format {
	case types.OutputCSV, "":
		return writeCSV(w, cols, rows)
	case types.OutputJSON:
		return writeJSON(w, cols, rows)
	case types.OutputYAML:
		return writeYAML(w, cols, rows)
	default:
		return fmt.Errorf("unsupported format %q: use csv, json, or yaml", format)
	}
}

// WriteJoined writes joined records as CSV with every suffixed metadata
// column. Attribute columns are the union over all edges, sorted by name.
func WriteJoined(w io.Writer, records []types.JoinedRecord) error {
	seen := map[string]bool{}
	var attrs []string
	for _, r := range records {
		for _, a := range r.Edge.AttributeNames() {
			if !seen[a] {
				seen[a] = true
				attrs = append(attrs, a)
			}
		}
	}
	sort.Strings(attrs)

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = r.Values(attrs)
	}
	return writeCSV(w, types.JoinedColumns(attrs), rows)
}

func project(table *types.FeatureTable, opts Options) ([]string, [][]any) {
	if !opts.Keys {
		return table.Columns, table.Rows
	}
	cols := append([]string{types.ColPaper, types.ColReferencedPaper}, table.Columns...)
	rows := make([][]any, len(table.Rows))
	for i, row := range table.Rows {
		e := table.Edges[i]
		rows[i] = append([]any{e.Paper, e.ReferencedPaper}, row...)
	}
	return cols, rows
}

func writeCSV(w io.Writer, cols []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	rec := make([]string, len(cols))
	for i, row := range rows {
		for c, v := range row {
			rec[c] = formatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, cols []string, rows [][]any) error {
	objs := make([]map[string]any, len(rows))
	for i, row := range rows {
		obj := make(map[string]any, len(cols))
		for c, v := range row {
			obj[cols[c]] = jsonCell(v)
		}
		objs[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(objs); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// writeYAML emits a sequence of mappings, keeping column order.
func writeYAML(w io.Writer, cols []string, rows [][]any) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for c, v := range row {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cols[c]},
				yamlCell(v),
			)
		}
		doc.Content = append(doc.Content, m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case time.Time:
		return formatTime(x)
	default:
		return fmt.Sprint(x)
	}
}

func jsonCell(v any) any {
	if t, ok := v.(time.Time); ok {
		return formatTime(t)
	}
	return v
}

func yamlCell(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(x)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(x)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: formatCell(v)}
	}
}

// formatFloat always carries a decimal point so floats stay floats on re-read.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// formatTime writes midnight UTC dates as plain dates.
func formatTime(t time.Time) string {
	if t.Equal(t.Truncate(24*time.Hour)) && t.Location() == time.UTC {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
