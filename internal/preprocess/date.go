// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate parses a publication date written in any common layout
// ("2020-05-01", "2020/05/01", "May 1, 2020", "2020-05-01T10:00:00Z", ...).
// Dates without a zone are read as UTC. Blank or unparseable input returns
// nil; ParseDate never fails.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// parseDatePtr is ParseDate over a nullable cell.
func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return ParseDate(*s)
}
