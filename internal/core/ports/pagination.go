package ports

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// PageRequest is a 1-based page plus page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Skip is the number of rows before the requested page.
func (p PageRequest) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// ListResult is one page of items and the total number of matches.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewListResult fills in TotalPages from total and the page size.
func NewListResult[T any](items []T, total int64, page PageRequest) *ListResult[T] {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}
}
