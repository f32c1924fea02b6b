package pagination

import "strconv"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is an offset/limit window over a list endpoint.
type Page struct {
	Page    int
	PerPage int
}

// Parse reads raw page and per_page query values. Missing, malformed or
// non-positive values fall back to page 1 and DefaultPerPage; per_page is
// clamped to MaxPerPage.
func Parse(rawPage, rawPerPage string) Page {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(rawPerPage)
	if err != nil || perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Page: page, PerPage: perPage}
}

// Limit applies the same defaults as Parse, so a zero Page is usable.
func (p Page) Limit() int {
	switch {
	case p.PerPage <= 0:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
