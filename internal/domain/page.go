package domain

const (
	// DefaultPageLimit applies when a list request names no limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps any requested limit.
	MaxPageLimit = 100
)

// PaginationParams selects one page of a list. Page counts from 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalises optional query values: missing or
// non-positive values take the defaults, and the limit is capped at
// MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of rows before this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Last reports whether this page reaches the end of a list of total items.
func (p PaginationParams) Last(total int64) bool {
	return int64(p.Page*p.Limit) >= total
}
