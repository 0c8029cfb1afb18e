// Package aggregate performs fern's in-memory relational work: hash joins,
// grouping, text search, robust time ordering, and pagination. Neither store
// offers a query planner, so every pass here is linear in its inputs.
package aggregate

// IndexBy builds the lookup side of a hash join: a map from key to the last
// item carrying that key. Items whose key is the zero value are skipped so a
// blank foreign id never collides into a real bucket.
func IndexBy[T any, K comparable](items []T, keyOf func(T) K) map[K]T {
	index := make(map[K]T, len(items))
	var zero K
	for _, item := range items {
		k := keyOf(item)
		if k == zero {
			continue
		}
		index[k] = item
	}
	return index
}

// IndexGroupBy buckets items by key, preserving input order inside each
// bucket.
func IndexGroupBy[T any, K comparable](items []T, keyOf func(T) K) map[K][]T {
	index := make(map[K][]T)
	var zero K
	for _, item := range items {
		k := keyOf(item)
		if k == zero {
			continue
		}
		index[k] = append(index[k], item)
	}
	return index
}
