package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultPageSize is the initial table page size.
const DefaultPageSize = 25

// EllipsisLabel is the text rendered for a compressed page range.
const EllipsisLabel = "…"

// FilterState captures the table's filter controls. Empty values disable a predicate.
type FilterState struct {
	Search   string     `json:"search"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`
	DateFrom string     `json:"date_from"`
	DateTo   string     `json:"date_to"`
}

// SortColumn names a sortable column.
type SortColumn string

const (
	SortByID               SortColumn = "id"
	SortByName             SortColumn = "name"
	SortByEmail            SortColumn = "email"
	SortByRegistrationDate SortColumn = "registrationDate"
	SortByLastActivity     SortColumn = "lastActivity"
)

// Valid reports whether the column can be sorted on.
func (c SortColumn) Valid() bool {
	switch c {
	case SortByID, SortByName, SortByEmail, SortByRegistrationDate, SortByLastActivity:
		return true
	}
	return false
}

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the single active sort column and its direction.
type SortState struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort orders by id ascending.
func DefaultSort() SortState {
	return SortState{Column: SortByID, Direction: SortAsc}
}

// Toggle flips direction for the active column, otherwise switches column and resets to asc.
func (s SortState) Toggle(column SortColumn) SortState {
	if s.Column == column {
		if s.Direction == SortAsc {
			return SortState{Column: column, Direction: SortDesc}
		}
		return SortState{Column: column, Direction: SortAsc}
	}
	return SortState{Column: column, Direction: SortAsc}
}

// PageLabel is one entry of the compressed page list: a page number or an ellipsis.
type PageLabel struct {
	Page     int
	Ellipsis bool
}

// Ellipsis returns the gap marker.
func Ellipsis() PageLabel {
	return PageLabel{Ellipsis: true}
}

// MarshalJSON renders pages as numbers and gaps as the ellipsis string.
func (p PageLabel) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return json.Marshal(EllipsisLabel)
	}
	return json.Marshal(p.Page)
}

// UnmarshalJSON accepts a page number or the ellipsis string.
func (p *PageLabel) UnmarshalJSON(data []byte) error {
	var page int
	if err := json.Unmarshal(data, &page); err == nil {
		*p = PageLabel{Page: page}
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	if label != EllipsisLabel {
		return fmt.Errorf("invalid page label %q", label)
	}
	*p = Ellipsis()
	return nil
}

// String renders the label for logs and tests.
func (p PageLabel) String() string {
	if p.Ellipsis {
		return EllipsisLabel
	}
	return strconv.Itoa(p.Page)
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
	Start      int `json:"start"`
	End        int `json:"end"`
}
