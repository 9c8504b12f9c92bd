package table

import (
	"sort"
	"strings"

	"github.com/noah-isme/user-table-api/internal/models"
)

// Sort returns a stably sorted copy of users ordered by the active column.
// Unknown columns leave the input order untouched.
func Sort(users []models.User, state models.SortState) []models.User {
	sorted := make([]models.User, len(users))
	copy(sorted, users)

	cmp := comparator(state.Column)
	if cmp == nil {
		return sorted
	}
	desc := state.Direction == models.SortDesc

	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return cmp(sorted[j], sorted[i]) < 0
		}
		return cmp(sorted[i], sorted[j]) < 0
	})
	return sorted
}

func comparator(column models.SortColumn) func(a, b models.User) int {
	switch column {
	case models.SortByID:
		return func(a, b models.User) int { return compareInts(a.ID, b.ID) }
	case models.SortByName:
		return func(a, b models.User) int { return compareFolded(a.Name, b.Name) }
	case models.SortByEmail:
		return func(a, b models.User) int { return compareFolded(a.Email, b.Email) }
	case models.SortByRegistrationDate:
		return func(a, b models.User) int { return a.RegistrationDate.Compare(b.RegistrationDate) }
	case models.SortByLastActivity:
		return func(a, b models.User) int { return a.LastActivity.Compare(b.LastActivity) }
	}
	return nil
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFolded(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
