package aggregate

// Pagination describes the page envelope returned by every list view.
type Pagination struct {
	Current    int  `json:"current"`
	Total      int  `json:"total"`
	TotalItems int  `json:"totalItems"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Page is a page of results plus its pagination envelope.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate slices items into the requested page. total = ceil(totalItems /
// pageSize); hasNext holds exactly when current*pageSize < totalItems.
func Paginate[T any](items []T, current, pageSize int) Page[T] {
	if current < 1 {
		current = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	totalItems := len(items)
	total := (totalItems + pageSize - 1) / pageSize

	start := (current - 1) * pageSize
	if start > totalItems {
		start = totalItems
	}
	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}

	data := items[start:end]
	if data == nil {
		data = []T{}
	}

	return Page[T]{
		Data: data,
		Pagination: Pagination{
			Current:    current,
			Total:      total,
			TotalItems: totalItems,
			HasNext:    current*pageSize < totalItems,
			HasPrev:    current > 1,
		},
	}
}
