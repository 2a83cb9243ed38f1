// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-features/internal/dataset"
	"github.com/pdiddy/citation-features/internal/openalex"
	"github.com/pdiddy/citation-features/internal/secrets"
	"github.com/pdiddy/citation-features/pkg/types"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Manage the paper metadata directory",
}

var metadataFetchCmd = &cobra.Command{
	Use:   "fetch [ids...]",
	Short: "Fetch paper metadata from OpenAlex",
	Long: `Fetch looks up OpenAlex works (W-prefixed IDs or DOIs) and writes one
YAML metadata record per paper to <papers-dir>/metadata/. Use --from-edges
to fetch every paper mentioned in an edge CSV. Lookups that fail are
reported and skipped.

Set an email in .secrets/openalex-email or with --email for OpenAlex's
polite pool.`,
	RunE: runMetadataFetch,
}

func init() {
	metadataFetchCmd.Flags().String("papers-dir", "papers", "base directory for papers (metadata is written to metadata/)")
	metadataFetchCmd.Flags().String("from-edges", "", "fetch every paper and referenced_paper in this edge CSV")
	metadataFetchCmd.Flags().String("ids-file", "", "file with one identifier per line")
	metadataFetchCmd.Flags().String("email", "", "contact email for the OpenAlex polite pool")
	metadataFetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	metadataFetchCmd.Flags().Duration("delay", 0, "delay between lookups (default 100ms)")
	metadataFetchCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 (default 5)")

	bindFlag(metadataFetchCmd, "openalex.papers_dir", "papers-dir")
	bindFlag(metadataFetchCmd, "openalex.email", "email")
	bindFlag(metadataFetchCmd, "openalex.timeout", "timeout")
	bindFlag(metadataFetchCmd, "openalex.request_delay", "delay")
	bindFlag(metadataFetchCmd, "openalex.max_retries", "max-retries")

	metadataCmd.AddCommand(metadataFetchCmd)
	rootCmd.AddCommand(metadataCmd)
}

func runMetadataFetch(cmd *cobra.Command, args []string) error {
	ids, err := fetchIDs(cmd, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide identifiers as arguments, with --ids-file, or with --from-edges")
	}

	cfg := types.OpenAlexConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout: viper.GetDuration("openalex.timeout"),
		},
		Email:        loadedSecrets.Get(secrets.OpenAlexEmail, viper.GetString("openalex.email")),
		MaxRetries:   viper.GetInt("openalex.max_retries"),
		RequestDelay: viper.GetDuration("openalex.request_delay"),
		PapersDir:    viper.GetString("openalex.papers_dir"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := openalex.NewFetcher(nil, cfg, logger)
	res, err := fetcher.Fetch(ctx, ids, os.Stdout)
	if len(res.Records) > 0 {
		dir := filepath.Join(cfg.PapersDir, "metadata")
		if werr := dataset.WriteMetadataDir(dir, res.Records); werr != nil {
			return werr
		}
		fmt.Printf("\nwrote %d record(s) to %s\n", len(res.Records), dir)
	}
	if err != nil {
		return err
	}
	if res.HasFailures() {
		return fmt.Errorf("%d identifier(s) failed", len(res.Failed))
	}
	return nil
}

// fetchIDs collects identifiers from args, --ids-file and --from-edges,
// dropping duplicates while keeping first-seen order.
func fetchIDs(cmd *cobra.Command, args []string) ([]string, error) {
	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, a := range args {
		add(a)
	}

	if path, _ := cmd.Flags().GetString("ids-file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening ids file: %w", err)
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if line := sc.Text(); !strings.HasPrefix(strings.TrimSpace(line), "#") {
				add(line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading ids file: %w", err)
		}
	}

	if path, _ := cmd.Flags().GetString("from-edges"); path != "" {
		edges, err := dataset.LoadEdges(path)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			add(e.Paper)
			add(e.ReferencedPaper)
		}
	}
	return ids, nil
}
