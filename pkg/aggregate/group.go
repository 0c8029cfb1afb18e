package aggregate

// Group is one bucket of a grouping aggregation.
type Group[T any] struct {
	Label   string `json:"label"`
	Members []T    `json:"members"`
	Count   int    `json:"count"`
}

// GroupByConfigured buckets items by key against a configured reference
// list. Every configured key is present in the result even with zero
// members; keys found on items but missing from the configuration are still
// emitted so nothing silently disappears.
func GroupByConfigured[T any](configured []string, items []T, keyOf func(T) string) map[string]Group[T] {
	groups := make(map[string]Group[T], len(configured))
	for _, key := range configured {
		groups[key] = Group[T]{Label: key, Members: []T{}}
	}

	for _, item := range items {
		key := keyOf(item)
		g, ok := groups[key]
		if !ok {
			g = Group[T]{Label: key, Members: []T{}}
		}
		g.Members = append(g.Members, item)
		g.Count = len(g.Members)
		groups[key] = g
	}

	return groups
}
