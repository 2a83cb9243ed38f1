// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus reads the plain-text contents of papers from a directory.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Document is one paper's text.
type Document struct {
	Name    string
	Content string
}

// ReadContents reads every *.txt file in dir in file-name order. A file that
// cannot be read, or is not valid UTF-8, is logged and skipped; the rest of
// the batch continues. Only a failure to list dir is returned as an error.
func ReadContents(dir string, logger zerolog.Logger) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading paper directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".txt") && !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Error().Err(err).Str("file", name).Msg("error reading file")
			continue
		}
		if !utf8.Valid(data) {
			logger.Error().Str("file", name).Msg("error reading file: invalid UTF-8")
			continue
		}
		docs = append(docs, Document{Name: name, Content: string(data)})
		logger.Debug().Str("file", name).Msg("read file")
	}

	logger.Info().Int("total", len(docs)).Msg("papers read")
	return docs, nil
}
