package palette

import (
	"strings"

	"blockpalette/internal/domain"
)

const (
	// EmptyQueryLimit caps the result set when nothing has been typed
	EmptyQueryLimit = 10
	// QueryLimit caps the result set for a non-empty query
	QueryLimit = 50
)

// Filter returns catalog positions matching query, in catalog order.
// An empty query yields the first EmptyQueryLimit items. Otherwise an item
// matches when its label, id or category contains the query, ignoring case,
// and at most QueryLimit positions are returned.
func Filter(c domain.Catalog, query string) []int {
	if query == "" {
		n := min(len(c), EmptyQueryLimit)
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	q := strings.ToLower(query)
	out := make([]int, 0, min(len(c), QueryLimit))
	for i, item := range c {
		if Matches(item, q) {
			out = append(out, i)
			if len(out) == QueryLimit {
				break
			}
		}
	}
	return out
}

// Matches reports whether item contains the already lowercased query
func Matches(item domain.CatalogItem, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(item.Label), lowerQuery) ||
		strings.Contains(strings.ToLower(item.ID), lowerQuery) ||
		strings.Contains(strings.ToLower(item.Category), lowerQuery)
}
