// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-features/internal/dataset"
	"github.com/pdiddy/citation-features/internal/features"
	"github.com/pdiddy/citation-features/internal/output"
	"github.com/pdiddy/citation-features/internal/pipeline"
	"github.com/pdiddy/citation-features/internal/preprocess"
	"github.com/pdiddy/citation-features/internal/store"
	"github.com/pdiddy/citation-features/pkg/types"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Join edges with metadata and derive the feature table",
	Long: `Features reads a citation edge CSV (paper, referenced_paper, ...) and
paper metadata (a CSV with paper_id, publication_date, publication_year,
cited_by_count, concepts, authors, or a directory of YAML records), then
writes one row of features per edge:

  year_difference, is_original_before_referenced, positive_year_difference,
  cited_by_count_difference, positive_cited_by_count_difference,
  shared_concept_count, concept_similarity_probability,
  shared_author_count, author_similarity_probability

Edges whose papers are missing from the metadata are kept; their
differences are empty and their indicators are 0.`,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().String("edges", "", "citation edge CSV file (required)")
	featuresCmd.Flags().String("metadata", "", "paper metadata CSV file")
	featuresCmd.Flags().String("metadata-dir", "", "directory of per-paper metadata YAML files (e.g. papers/metadata)")
	featuresCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	featuresCmd.Flags().String("format", "csv", "output format: csv, json, or yaml")
	featuresCmd.Flags().Int("workers", 0, "goroutines for the overlap features (0 = all CPUs)")
	featuresCmd.Flags().Bool("keys", true, "include paper and referenced_paper columns in the output")
	featuresCmd.Flags().Bool("summary", false, "print per-column statistics to stderr")
	featuresCmd.Flags().Bool("store", false, "save the feature table as a run in the SQLite store")
	featuresCmd.Flags().String("db", store.DefaultDBPath, "SQLite database for stored runs")

	bindFlag(featuresCmd, "features.edges", "edges")
	bindFlag(featuresCmd, "features.metadata", "metadata")
	bindFlag(featuresCmd, "features.metadata_dir", "metadata-dir")
	bindFlag(featuresCmd, "features.output", "output")
	bindFlag(featuresCmd, "features.format", "format")
	bindFlag(featuresCmd, "features.workers", "workers")
	bindFlag(featuresCmd, "store.db_path", "db")

	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, err := featuresConfig()
	if err != nil {
		return err
	}

	edges, joiner, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.New(joiner, features.Default(cfg.Workers), logger)
	table, err := p.Fit(edges).Transform(ctx, edges)
	if err != nil {
		return err
	}

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		printSummary(os.Stderr, pipeline.Describe(table))
	}

	keys, _ := cmd.Flags().GetBool("keys")
	if err := writeTable(cfg, table, keys); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("store"); save {
		s, err := store.NewStore(types.StoreConfig{DBPath: viper.GetString("store.db_path")})
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveRun(ctx, table, cfg.EdgesPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "stored run %s (%d rows)\n", id, table.Len())
	}
	return nil
}

// featuresConfig reads the features section from flags, config file, and
// environment.
func featuresConfig() (types.FeaturesConfig, error) {
	cfg := types.FeaturesConfig{
		EdgesPath:    viper.GetString("features.edges"),
		MetadataPath: viper.GetString("features.metadata"),
		MetadataDir:  viper.GetString("features.metadata_dir"),
		OutputPath:   viper.GetString("features.output"),
		Format:       types.OutputFormat(strings.ToLower(viper.GetString("features.format"))),
		Workers:      viper.GetInt("features.workers"),
	}
	if cfg.Format == "" {
		cfg.Format = types.OutputCSV
	}

	switch {
	case cfg.EdgesPath == "":
		return cfg, fmt.Errorf("--edges is required")
	case cfg.MetadataPath == "" && cfg.MetadataDir == "":
		return cfg, fmt.Errorf("provide paper metadata with --metadata or --metadata-dir")
	case cfg.MetadataPath != "" && cfg.MetadataDir != "":
		return cfg, fmt.Errorf("--metadata and --metadata-dir are mutually exclusive")
	case !cfg.Format.Valid():
		return cfg, fmt.Errorf("unsupported format %q: use csv, json, or yaml", cfg.Format)
	case cfg.Workers < 0:
		return cfg, fmt.Errorf("--workers must not be negative")
	}
	return cfg, nil
}

// loadInputs reads the edge table and builds a joiner over the metadata.
func loadInputs(cfg types.FeaturesConfig) ([]types.CitationEdge, *preprocess.Joiner, error) {
	edges, err := dataset.LoadEdges(cfg.EdgesPath)
	if err != nil {
		return nil, nil, err
	}

	var meta []types.PaperMetadata
	if cfg.MetadataDir != "" {
		meta, err = dataset.LoadMetadataDir(cfg.MetadataDir)
	} else {
		meta, err = dataset.LoadMetadata(cfg.MetadataPath)
	}
	if err != nil {
		return nil, nil, err
	}

	joiner, err := preprocess.NewJoiner(meta)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Int("edges", len(edges)).Int("papers", joiner.Len()).Msg("inputs loaded")
	return edges, joiner, nil
}

func writeTable(cfg types.FeaturesConfig, table *types.FeatureTable, keys bool) error {
	w, closeFn, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := output.Write(w, table, cfg.Format, output.Options{Keys: keys}); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// openOutput returns stdout for an empty path, else a created file.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output %s: %w", path, err)
	}
	return f, f.Close, nil
}

func printSummary(w io.Writer, cols []pipeline.ColumnSummary) {
	fmt.Fprintf(w, "%-36s  %8s  %6s  %10s  %10s  %10s  %10s\n",
		"Column", "Count", "Nulls", "Mean", "StdDev", "Min", "Max")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, c := range cols {
		fmt.Fprintf(w, "%-36s  %8d  %6d  %10s  %10s  %10s  %10s\n",
			c.Name, c.Count, c.Nulls, num(c.Mean), num(c.StdDev), num(c.Min), num(c.Max))
	}
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.4g", f)
}
