package aggregate

import "strings"

// Search keeps items where the query is a case-insensitive substring of any
// of the item's searchable fields. The field list is explicit per view. A
// blank query returns all items unfiltered.
func Search[T any](items []T, query string, fieldsOf func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fieldsOf(item) {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
