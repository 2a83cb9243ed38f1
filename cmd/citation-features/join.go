// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-features/internal/output"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Write the joined edge/metadata table as CSV",
	Long: `Join left-joins each edge against the metadata twice and writes the
result with _original and _referenced suffixed columns. Publication dates
are normalized; unparseable dates are left empty.`,
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().String("edges", "", "citation edge CSV file (required)")
	joinCmd.Flags().String("metadata", "", "paper metadata CSV file")
	joinCmd.Flags().String("metadata-dir", "", "directory of per-paper metadata YAML files")
	joinCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	setFromFlags(cmd, map[string]string{
		"edges":        "features.edges",
		"metadata":     "features.metadata",
		"metadata-dir": "features.metadata_dir",
		"output":       "features.output",
	})
	cfg, err := featuresConfig()
	if err != nil {
		return err
	}

	edges, joiner, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	w, closeFn, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := output.WriteJoined(w, joiner.Transform(edges)); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
