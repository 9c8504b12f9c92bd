package table

import (
	"sort"

	"github.com/noah-isme/user-table-api/internal/models"
)

// Selection is the set of marked user ids. It is not bound to the visible page.
type Selection struct {
	ids map[int]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int]struct{})}
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id int) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Has reports whether id is selected.
func (s *Selection) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// IsAllSelected is true when page is non-empty and every row on it is selected.
func (s *Selection) IsAllSelected(page []models.User) bool {
	if len(page) == 0 {
		return false
	}
	for _, u := range page {
		if !s.Has(u.ID) {
			return false
		}
	}
	return true
}

// ToggleAll deselects exactly the page rows when all are selected, otherwise selects the missing ones.
func (s *Selection) ToggleAll(page []models.User) {
	if s.IsAllSelected(page) {
		for _, u := range page {
			delete(s.ids, u.ID)
		}
		return
	}
	for _, u := range page {
		s.ids[u.ID] = struct{}{}
	}
}

// Remove drops id from the selection.
func (s *Selection) Remove(ids ...int) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Prune removes ids that no longer exist in users.
func (s *Selection) Prune(users []models.User) {
	if len(s.ids) == 0 {
		return
	}
	existing := make(map[int]struct{}, len(users))
	for _, u := range users {
		existing[u.ID] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := existing[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[int]struct{})
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
