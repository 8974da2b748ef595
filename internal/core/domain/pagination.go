package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps Skip well inside int64 for any accepted limit.
	MaxPage = 1<<31 - 1
)

// PageRequest is a 1-based page window.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and caps the page and limit.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

// Skip is the number of records preceding the page.
func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total records.
func NewPagination(total int64, p PageRequest) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}

// Page is one window of a listing.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
