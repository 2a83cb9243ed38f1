// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-features/internal/corpus"
)

var contentsCmd = &cobra.Command{
	Use:   "contents [dir]",
	Short: "Read paper text files and report what was loaded",
	Long: `Contents reads every .txt file in a directory (default papers/text) in
file-name order. Files that cannot be read are logged and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "papers/text"
		if len(args) == 1 {
			dir = args[0]
		}
		docs, err := corpus.ReadContents(dir, logger)
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Printf("%-40s  %8d chars\n", d.Name, utf8.RuneCountInString(d.Content))
		}
		fmt.Printf("\nTotal papers read: %d\n", len(docs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contentsCmd)
}
