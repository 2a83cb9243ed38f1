// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-features/internal/pipeline"
	"github.com/pdiddy/citation-features/pkg/types"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger("DEBUG", true)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	l, err = newLogger("", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	_, err = newLogger("chatty", false)
	assert.Error(t, err)
}

func TestFeaturesConfig(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{"missing edges", map[string]any{"features.metadata": "m.csv"}, "--edges is required"},
		{"missing metadata", map[string]any{"features.edges": "e.csv"}, "provide paper metadata"},
		{"both metadata sources", map[string]any{
			"features.edges": "e.csv", "features.metadata": "m.csv", "features.metadata_dir": "papers/metadata",
		}, "mutually exclusive"},
		{"bad format", map[string]any{
			"features.edges": "e.csv", "features.metadata": "m.csv", "features.format": "parquet",
		}, "unsupported format"},
		{"negative workers", map[string]any{
			"features.edges": "e.csv", "features.metadata": "m.csv", "features.workers": -1,
		}, "must not be negative"},
		{"ok", map[string]any{
			"features.edges": "e.csv", "features.metadata_dir": "papers/metadata", "features.format": "YAML",
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			for k, v := range tt.set {
				viper.Set(k, v)
			}

			cfg, err := featuresConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, types.OutputYAML, cfg.Format)
			assert.Equal(t, "papers/metadata", cfg.MetadataDir)
		})
	}
}

func TestFeaturesConfigDefaultFormat(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("features.edges", "e.csv")
	viper.Set("features.metadata", "m.csv")

	cfg, err := featuresConfig()
	require.NoError(t, err)
	assert.Equal(t, types.OutputCSV, cfg.Format)
}

func TestFetchIDs(t *testing.T) {
	dir := t.TempDir()
	idsFile := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(idsFile, []byte("# seed papers\nW2\n\nW3\nW1\n"), 0o644))
	edgesFile := filepath.Join(dir, "edges.csv")
	require.NoError(t, os.WriteFile(edgesFile, []byte("paper,referenced_paper\nW3,W4\n"), 0o644))

	cmd := &cobra.Command{Use: "fetch"}
	cmd.Flags().String("ids-file", "", "")
	cmd.Flags().String("from-edges", "", "")
	require.NoError(t, cmd.Flags().Set("ids-file", idsFile))
	require.NoError(t, cmd.Flags().Set("from-edges", edgesFile))

	ids, err := fetchIDs(cmd, []string{"W1", " W2 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"W1", "W2", "W3", "W4"}, ids)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, []pipeline.ColumnSummary{
		{Name: "year_difference", Count: 2, Nulls: 1, Mean: 1.5, StdDev: 0.7071, Min: 1, Max: 2},
		{Name: "cited_by_count_difference", Count: 0, Nulls: 3, Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()},
	})
	out := buf.String()
	assert.Contains(t, out, "year_difference")
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "cited_by_count_difference")
	assert.Contains(t, out, " -")
}
