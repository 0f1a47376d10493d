package models

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
	// MaxPage keeps (page-1)*limit far from integer overflow
	MaxPage = 1_000_000
)

// ListQuery is a normalised admin list request.
type ListQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// NewListQuery normalises raw paging input: page is clamped to
// [1, MaxPage], a non-positive limit becomes DefaultPageSize and anything
// above maxLimit is capped.
func NewListQuery(search, status string, page, limit, maxLimit int) ListQuery {
	if page < 1 {
		page = 1
	}

	if page > MaxPage {
		page = MaxPage
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return ListQuery{
		Search: strings.TrimSpace(search),
		Status: strings.TrimSpace(status),
		Page:   page,
		Limit:  limit,
	}
}

// Offset returns the SQL offset for the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a page and computes the total page count.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
