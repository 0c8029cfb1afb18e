package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stamped struct {
	ID   int
	Time string
}

func ids(items []stamped) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestSortByTimeDesc(t *testing.T) {
	items := []stamped{
		{ID: 1, Time: "2025-03-01T00:00:00Z"},
		{ID: 2, Time: "2026-01-01T00:00:00Z"},
		{ID: 3, Time: "2024-06-15T10:30:00Z"},
	}

	SortByTimeDesc(items, func(s stamped) string { return s.Time })
	assert.Equal(t, []int{2, 1, 3}, ids(items))
}

func TestSortByTimeDesc_InvalidDatesOrderLast(t *testing.T) {
	items := []stamped{
		{ID: 1, Time: "not-a-date"},
		{ID: 2, Time: "2026-01-01T00:00:00Z"},
	}

	SortByTimeDesc(items, func(s stamped) string { return s.Time })
	assert.Equal(t, []int{2, 1}, ids(items))

	// same result regardless of which side the invalid value starts on
	items = []stamped{
		{ID: 2, Time: "2026-01-01T00:00:00Z"},
		{ID: 1, Time: "not-a-date"},
	}
	SortByTimeDesc(items, func(s stamped) string { return s.Time })
	assert.Equal(t, []int{2, 1}, ids(items))
}

func TestSortByTimeDesc_StableAmongInvalid(t *testing.T) {
	items := []stamped{
		{ID: 1, Time: ""},
		{ID: 2, Time: "garbage"},
		{ID: 3, Time: "2026-01-01"},
		{ID: 4, Time: "also garbage"},
	}

	SortByTimeDesc(items, func(s stamped) string { return s.Time })
	assert.Equal(t, []int{3, 1, 2, 4}, ids(items))
}

func TestSortByTimeDesc_MixedLayouts(t *testing.T) {
	items := []stamped{
		{ID: 1, Time: "2026-01-02"},
		{ID: 2, Time: "2026-01-02 12:00:00"},
		{ID: 3, Time: "2026-01-01T23:00:00Z"},
	}

	SortByTimeDesc(items, func(s stamped) string { return s.Time })
	assert.Equal(t, []int{2, 1, 3}, ids(items))
}

func TestParseTime(t *testing.T) {
	_, ok := ParseTime("")
	assert.False(t, ok)

	_, ok = ParseTime("2026/01/01")
	assert.False(t, ok)

	parsed, ok := ParseTime("2026-01-01T00:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 2026, parsed.Year())
}

func TestMaxTime(t *testing.T) {
	assert.Equal(t, "2026-02-01", MaxTime("2026-01-01", "2026-02-01", "garbage"))
	assert.Equal(t, "", MaxTime("garbage", ""))
	assert.Equal(t, "", MaxTime())
}

func TestLastActivity(t *testing.T) {
	assert.Equal(t, "2026-02-01", LastActivity("2025-01-01", "2026-02-01", "bad"))
	assert.Equal(t, "2025-01-01", LastActivity("2025-01-01", "bad", ""))
	assert.Equal(t, "", LastActivity("also bad"))
}
