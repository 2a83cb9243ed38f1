// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-features/internal/output"
	"github.com/pdiddy/citation-features/internal/pipeline"
	"github.com/pdiddy/citation-features/internal/store"
	"github.com/pdiddy/citation-features/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect feature tables saved with features --store",
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openRunStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.ListRuns(context.Background())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs stored.")
			return nil
		}

		fmt.Printf("%-36s  %-20s  %8s  %s\n", "ID", "Created", "Rows", "Source")
		fmt.Println(strings.Repeat("-", 90))
		for _, r := range runs {
			fmt.Printf("%-36s  %-20s  %8d  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Rows, r.Source)
		}
		return nil
	},
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Write a stored feature table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openRunStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		table, err := s.LoadRun(context.Background(), args[0])
		if err != nil {
			return err
		}

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			printSummary(os.Stdout, pipeline.Describe(table))
			return nil
		}
		format, _ := cmd.Flags().GetString("format")
		f := types.OutputFormat(strings.ToLower(format))
		if !f.Valid() {
			return fmt.Errorf("unsupported format %q: use csv, json, or yaml", format)
		}
		return output.Write(os.Stdout, table, f, output.Options{Keys: true})
	},
}

func openRunStore(cmd *cobra.Command) (*store.Store, error) {
	setFromFlags(cmd, map[string]string{"db": "store.db_path"})
	return store.NewStore(types.StoreConfig{DBPath: viper.GetString("store.db_path")})
}

func init() {
	runsCmd.PersistentFlags().String("db", store.DefaultDBPath, "SQLite database for stored runs")

	runsShowCmd.Flags().String("format", "csv", "output format: csv, json, or yaml")
	runsShowCmd.Flags().Bool("summary", false, "print per-column statistics instead of rows")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	rootCmd.AddCommand(runsCmd)
}
