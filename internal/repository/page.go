package repository

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is a 1-based page request. Zero values fall back to defaults.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps the page into a valid range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.Normalize().PerPage
}

// Paged is one page of results plus the total row count across all pages.
type Paged[T any] struct {
	Items []T
	Page  Page
	Total int
}

func (r Paged[T]) TotalPages() int {
	per := r.Page.Normalize().PerPage
	return (r.Total + per - 1) / per
}
