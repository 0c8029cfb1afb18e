package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type card struct {
	Name  string
	Notes string
}

func cardFields(c card) []string {
	return []string{c.Name, c.Notes}
}

func TestSearch(t *testing.T) {
	items := []card{
		{Name: "Acme Widgets", Notes: "priority account"},
		{Name: "Globex", Notes: "renewal due"},
		{Name: "Initech", Notes: "acme reseller"},
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "blank query returns all", query: "", want: 3},
		{name: "whitespace query returns all", query: "   ", want: 3},
		{name: "case-insensitive match", query: "ACME", want: 2},
		{name: "match on second field", query: "renewal", want: 1},
		{name: "no match", query: "umbrella", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Search(items, tt.query, cardFields), tt.want)
		})
	}
}

func TestSearch_ORsAcrossFields(t *testing.T) {
	items := []card{{Name: "Acme", Notes: "globex partner"}}

	// either field matching keeps the item, once
	assert.Len(t, Search(items, "acme", cardFields), 1)
	assert.Len(t, Search(items, "globex", cardFields), 1)
}
