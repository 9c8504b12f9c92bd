package table

import (
	"time"

	"github.com/noah-isme/user-table-api/internal/models"
)

// Result is one evaluation of filter, sort and paginate over a record list.
type Result struct {
	// Sorted is the full filtered and sorted view.
	Sorted     []models.User
	Page       []models.User
	Pagination models.Pagination
	Pages      []models.PageLabel
}

// Compose evaluates paginate(sort(filter(users))). Current is clamped into range
// for the returned window only; the caller's pager is not touched.
func Compose(users []models.User, filter models.FilterState, order models.SortState, current, pageSize int, loc *time.Location) Result {
	sorted := Sort(FilterIn(users, filter, loc), order)
	total := TotalPages(len(sorted), pageSize)

	page := current
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	start, end := PageBounds(len(sorted), page, pageSize)
	if len(sorted) == 0 {
		start, end = 0, 0
	}

	return Result{
		Sorted: sorted,
		Page:   Paginate(sorted, page, pageSize),
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: len(sorted),
			TotalPages: total,
			Start:      start,
			End:        end,
		},
		Pages: VisiblePages(page, total),
	}
}
