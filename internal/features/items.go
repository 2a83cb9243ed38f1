// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import "strings"

// ItemSet is a set of normalized list items.
type ItemSet map[string]struct{}

// ExtractItems parses a delimited list cell into a set of lower-cased,
// trimmed items. The cell is split on ';'; when that yields a single piece
// it is split on ',' instead. A nil cell yields the empty set. Empty pieces
// are kept, so "" yields {""}.
func ExtractItems(s *string) ItemSet {
	if s == nil {
		return ItemSet{}
	}
	pieces := strings.Split(*s, ";")
	if len(pieces) == 1 {
		pieces = strings.Split(*s, ",")
	}
	set := make(ItemSet, len(pieces))
	for _, p := range pieces {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return set
}

// Overlap returns the size of the intersection of a and b and the Jaccard
// ratio |a∩b|/|a∪b|. The ratio is 0 when both sets are empty.
func Overlap(a, b ItemSet) (shared int, ratio float64) {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	for k := range small {
		if _, ok := large[k]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return shared, 0.0
	}
	return shared, float64(shared) / float64(union)
}
