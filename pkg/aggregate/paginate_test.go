package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, i)
	}

	tests := []struct {
		name       string
		totalItems int
		current    int
		pageSize   int
		wantLen    int
		wantTotal  int
		wantNext   bool
		wantPrev   bool
	}{
		{name: "first page", totalItems: 25, current: 1, pageSize: 10, wantLen: 10, wantTotal: 3, wantNext: true, wantPrev: false},
		{name: "middle page", totalItems: 25, current: 2, pageSize: 10, wantLen: 10, wantTotal: 3, wantNext: true, wantPrev: true},
		{name: "last short page", totalItems: 25, current: 3, pageSize: 10, wantLen: 5, wantTotal: 3, wantNext: false, wantPrev: true},
		{name: "past the end", totalItems: 25, current: 9, pageSize: 10, wantLen: 0, wantTotal: 3, wantNext: false, wantPrev: true},
		{name: "exact multiple", totalItems: 20, current: 2, pageSize: 10, wantLen: 10, wantTotal: 2, wantNext: false, wantPrev: true},
		{name: "empty input", totalItems: 0, current: 1, pageSize: 10, wantLen: 0, wantTotal: 0, wantNext: false, wantPrev: false},
		{name: "page below one clamps", totalItems: 25, current: 0, pageSize: 10, wantLen: 10, wantTotal: 3, wantNext: true, wantPrev: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(items[:tt.totalItems], tt.current, tt.pageSize)

			assert.Len(t, page.Data, tt.wantLen)
			assert.Equal(t, tt.wantTotal, page.Pagination.Total)
			assert.Equal(t, tt.totalItems, page.Pagination.TotalItems)
			assert.Equal(t, tt.wantNext, page.Pagination.HasNext)
			assert.Equal(t, tt.wantPrev, page.Pagination.HasPrev)
			assert.NotNil(t, page.Data)
		})
	}
}

func TestPaginate_FirstPageContents(t *testing.T) {
	page := Paginate([]string{"a", "b", "c"}, 1, 2)
	assert.Equal(t, []string{"a", "b"}, page.Data)

	page = Paginate([]string{"a", "b", "c"}, 2, 2)
	assert.Equal(t, []string{"c"}, page.Data)
}
