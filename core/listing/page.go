package listing

// Page is the window of a sorted collection rendered on screen.
type Page[T any] struct {
	Count      int    `json:"count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Ordering   string `json:"ordering,omitempty"`
	Results    []T    `json:"results"`
}

// Result is a Page plus the aggregates computed over the whole filtered collection.
type Result[T any, S any] struct {
	Page[T]
	Summary S `json:"summary"`
}

// DefaultPageSize is used when neither the request nor the schema sets one.
const DefaultPageSize = 10

// Paginate slices items into pages of size records. Out of range pages fall back to the first page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	count := len(items)
	totalPages := (count + size - 1) / size
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}

	results := make([]T, end-start)
	copy(results, items[start:end])
	return Page[T]{
		Count:      count,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
		Results:    results,
	}
}
