package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type org struct {
	ID   string
	Name string
}

func TestIndexBy(t *testing.T) {
	orgs := []org{
		{ID: "c1", Name: "Acme"},
		{ID: "c2", Name: "Globex"},
		{ID: "", Name: "orphan"},
	}

	index := IndexBy(orgs, func(o org) string { return o.ID })

	require.Len(t, index, 2)
	assert.Equal(t, "Acme", index["c1"].Name)
	_, ok := index[""]
	assert.False(t, ok, "zero keys are never indexed")
}

func TestIndexGroupBy(t *testing.T) {
	orgs := []org{
		{ID: "g1", Name: "a"},
		{ID: "g1", Name: "b"},
		{ID: "g2", Name: "c"},
	}

	index := IndexGroupBy(orgs, func(o org) string { return o.ID })

	require.Len(t, index, 2)
	assert.Len(t, index["g1"], 2)
	assert.Equal(t, "a", index["g1"][0].Name)
}

// The whole pipeline is deterministic: joining, grouping, sorting, and
// paginating frozen inputs twice yields identical content and ordering.
func TestPipelineDeterminism(t *testing.T) {
	type fact struct {
		ID    string
		OrgID string
		Org   string
		Time  string
	}

	orgs := []org{{ID: "c1", Name: "Acme"}, {ID: "c2", Name: "Globex"}}
	facts := []fact{
		{ID: "f1", OrgID: "c2", Time: "2026-01-03"},
		{ID: "f2", OrgID: "c1", Time: "bad"},
		{ID: "f3", OrgID: "c1", Time: "2026-01-05"},
		{ID: "f4", OrgID: "", Time: "2026-01-04"},
	}

	run := func() string {
		byID := IndexBy(orgs, func(o org) string { return o.ID })

		joined := make([]fact, 0, len(facts))
		for _, f := range facts {
			if o, ok := byID[f.OrgID]; ok {
				f.Org = o.Name
			}
			joined = append(joined, f)
		}

		SortByTimeDesc(joined, func(f fact) string { return f.Time })
		page := Paginate(joined, 1, 10)

		raw, err := json.Marshal(page)
		require.NoError(t, err)
		return string(raw)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Contains(t, first, `"Org":"Acme"`)
}
