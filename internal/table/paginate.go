package table

import "github.com/noah-isme/user-table-api/internal/models"

const (
	maxUncompressedPages = 7
	leadingWindowEnd     = 4
	leadingWindowSize    = 5
	trailingWindowOffset = 3
)

// TotalPages returns ceil(count/pageSize), 0 for an empty list or invalid size.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page window of users, clipped to the list bounds.
func Paginate(users []models.User, page, pageSize int) []models.User {
	if page < 1 || pageSize <= 0 {
		return []models.User{}
	}
	start := (page - 1) * pageSize
	if start >= len(users) {
		return []models.User{}
	}
	end := start + pageSize
	if end > len(users) {
		end = len(users)
	}
	window := make([]models.User, end-start)
	copy(window, users[start:end])
	return window
}

// PageBounds returns the 1-based first and last row numbers shown on page.
func PageBounds(count, page, pageSize int) (start, end int) {
	if pageSize <= 0 || page < 1 {
		return 0, 0
	}
	start = (page-1)*pageSize + 1
	end = page * pageSize
	if end > count {
		end = count
	}
	return start, end
}

// VisiblePages compresses the page list for the pagination control.
func VisiblePages(current, total int) []models.PageLabel {
	pages := make([]models.PageLabel, 0, maxUncompressedPages)
	page := func(n int) { pages = append(pages, models.PageLabel{Page: n}) }

	switch {
	case total <= maxUncompressedPages:
		for i := 1; i <= total; i++ {
			page(i)
		}
	case current <= leadingWindowEnd:
		for i := 1; i <= leadingWindowSize; i++ {
			page(i)
		}
		pages = append(pages, models.Ellipsis())
		page(total)
	case current >= total-trailingWindowOffset:
		page(1)
		pages = append(pages, models.Ellipsis())
		for i := total - 4; i <= total; i++ {
			page(i)
		}
	default:
		page(1)
		pages = append(pages, models.Ellipsis())
		for i := current - 1; i <= current+1; i++ {
			page(i)
		}
		pages = append(pages, models.Ellipsis())
		page(total)
	}

	return pages
}

// Pager tracks the current page and page size of one table.
type Pager struct {
	current  int
	pageSize int
}

// NewPager starts on page 1; a non-positive size falls back to the default.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &Pager{current: 1, pageSize: pageSize}
}

// Current returns the current 1-based page.
func (p *Pager) Current() int { return p.current }

// PageSize returns the number of rows per page.
func (p *Pager) PageSize() int { return p.pageSize }

// GoToPage moves to page when 1 <= page <= totalPages and reports whether it moved.
func (p *Pager) GoToPage(page, totalPages int) bool {
	if page < 1 || page > totalPages {
		return false
	}
	p.current = page
	return true
}

// SetPageSize changes the page size and returns to page 1.
func (p *Pager) SetPageSize(size int) bool {
	if size <= 0 {
		return false
	}
	p.pageSize = size
	p.Reset()
	return true
}

// Reset returns to page 1.
func (p *Pager) Reset() { p.current = 1 }

// Clamp pulls the current page back into [1, totalPages] after the list shrank.
func (p *Pager) Clamp(totalPages int) {
	if p.current > totalPages {
		p.current = totalPages
	}
	if p.current < 1 {
		p.current = 1
	}
}
