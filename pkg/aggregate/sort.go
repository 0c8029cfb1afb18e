package aggregate

import (
	"sort"
	"time"
)

// timeLayouts are the accepted timestamp shapes, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a record timestamp. The zero time and false mean the
// value is absent or unparseable.
func ParseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByTimeDesc orders items by a date-like field, newest first. A record
// whose date fails to parse is deterministically ordered to the end, below
// any parseable date, without raising an error. The sort is stable so frozen
// inputs always produce identical output ordering.
func SortByTimeDesc[T any](items []T, timeOf func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := ParseTime(timeOf(items[i]))
		tj, okJ := ParseTime(timeOf(items[j]))
		if okI && okJ {
			return ti.After(tj)
		}
		// parseable dates always beat unparseable ones
		return okI && !okJ
	})
}

// MaxTime returns the latest parseable timestamp among values, or "" when
// none parse.
func MaxTime(values ...string) string {
	var best time.Time
	var bestValue string
	for _, v := range values {
		t, ok := ParseTime(v)
		if !ok {
			continue
		}
		if bestValue == "" || t.After(best) {
			best = t
			bestValue = v
		}
	}
	return bestValue
}
