// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-features/pkg/types"
)

// LoadMetadataDir reads every *.yaml file in dir as one PaperMetadata record,
// in filename order. A record without paper_id takes the file's base name.
func LoadMetadataDir(dir string) ([]types.PaperMetadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]types.PaperMetadata, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var m types.PaperMetadata
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if m.PaperID == "" {
			m.PaperID = strings.TrimSuffix(name, ".yaml")
		}
		out = append(out, m)
	}
	return out, nil
}

// WriteMetadataDir writes each record to dir/[paper_id].yaml, creating dir
// if needed.
func WriteMetadataDir(dir string, records []types.PaperMetadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	for _, m := range records {
		if m.PaperID == "" {
			return fmt.Errorf("writing metadata: empty paper_id")
		}
		data, err := yaml.Marshal(&m)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", m.PaperID, err)
		}
		path := filepath.Join(dir, fileSlug(m.PaperID)+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// fileSlug makes a paper ID safe as a file name (DOIs contain '/').
func fileSlug(id string) string {
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(id)
}
