package table

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/user-table-api/internal/models"
)

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", raw, time.UTC)
	require.NoError(t, err)
	return ts
}

func fixtureUsers(t *testing.T) []models.User {
	return []models.User{
		{ID: 1, Name: "Иван Петров", Email: "ivan@example.com", Role: models.RoleAdmin, Status: models.StatusActive, RegistrationDate: day(t, "2024-01-10 09:00"), LastActivity: day(t, "2024-03-01 10:00")},
		{ID: 2, Name: "мария Сидорова", Email: "maria@example.com", Role: models.RoleUser, Status: models.StatusInactive, RegistrationDate: day(t, "2024-02-15 23:30"), LastActivity: day(t, "2024-02-20 10:00")},
		{ID: 3, Name: "Bob", Email: "bob@test.org", Role: models.RoleModerator, Status: models.StatusActive, RegistrationDate: day(t, "2024-02-16 00:00"), LastActivity: day(t, "2024-01-05 10:00")},
		{ID: 12, Name: "alice", Email: "Alice@Example.com", Role: models.RoleUser, Status: models.StatusActive, RegistrationDate: day(t, "2023-12-31 12:00"), LastActivity: day(t, "2024-04-01 10:00")},
		{ID: 21, Name: "Иванна", Email: "anna@test.org", Role: models.RoleAdmin, Status: models.StatusInactive, RegistrationDate: day(t, "2024-03-01 08:00"), LastActivity: day(t, "2024-03-02 10:00")},
	}
}

func ids(users []models.User) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestFilterEmptyStateIsIdentity(t *testing.T) {
	users := fixtureUsers(t)
	assert.Equal(t, ids(users), ids(FilterIn(users, models.FilterState{Search: "   "}, time.UTC)))
}

func TestFilterByRoleAndStatus(t *testing.T) {
	users := fixtureUsers(t)

	admins := FilterIn(users, models.FilterState{Role: models.RoleAdmin}, time.UTC)
	assert.Equal(t, []int{1, 21}, ids(admins))

	inactiveAdmins := FilterIn(users, models.FilterState{Role: models.RoleAdmin, Status: models.StatusInactive}, time.UTC)
	assert.Equal(t, []int{21}, ids(inactiveAdmins))
}

func TestFilterByDateRangeUsesWholeDays(t *testing.T) {
	users := fixtureUsers(t)

	got := FilterIn(users, models.FilterState{DateFrom: "2024-02-15", DateTo: "2024-02-15"}, time.UTC)
	assert.Equal(t, []int{2}, ids(got))

	got = FilterIn(users, models.FilterState{DateFrom: "2024-02-16"}, time.UTC)
	assert.Equal(t, []int{3, 21}, ids(got))

	got = FilterIn(users, models.FilterState{DateTo: "2023-12-31"}, time.UTC)
	assert.Equal(t, []int{12}, ids(got))
}

func TestFilterIgnoresUnparsableDates(t *testing.T) {
	users := fixtureUsers(t)
	got := FilterIn(users, models.FilterState{DateFrom: "not-a-date", DateTo: "2024-13-45"}, time.UTC)
	assert.Len(t, got, len(users))
}

func TestFilterFutureDateFromExcludesAll(t *testing.T) {
	users := fixtureUsers(t)
	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	assert.Empty(t, FilterIn(users, models.FilterState{DateFrom: future}, time.UTC))
}

func TestFilterSearchMatchesNameEmailOrID(t *testing.T) {
	users := fixtureUsers(t)

	assert.Equal(t, []int{1, 21}, ids(FilterIn(users, models.FilterState{Search: "иван"}, time.UTC)))
	assert.Equal(t, []int{2}, ids(FilterIn(users, models.FilterState{Search: " МАРИЯ "}, time.UTC)))
	assert.Equal(t, []int{1, 2, 12}, ids(FilterIn(users, models.FilterState{Search: "EXAMPLE.COM"}, time.UTC)))
	assert.Equal(t, []int{2, 12, 21}, ids(FilterIn(users, models.FilterState{Search: "2"}, time.UTC)))
	assert.Empty(t, FilterIn(users, models.FilterState{Search: "НесуществующееИмя12345"}, time.UTC))
}

func TestFilterPreservesOrderAndIsSubset(t *testing.T) {
	users := fixtureUsers(t)
	states := []models.FilterState{
		{Role: models.RoleUser},
		{Status: models.StatusActive, Search: "a"},
		{DateFrom: "2024-01-01", Search: "test"},
		{Role: models.RoleAdmin, Status: models.StatusActive, DateTo: "2024-12-31", Search: "ivan"},
	}
	position := map[int]int{}
	for i, u := range users {
		position[u.ID] = i
	}
	for _, state := range states {
		got := FilterIn(users, state, time.UTC)
		last := -1
		for _, u := range got {
			idx, ok := position[u.ID]
			require.True(t, ok)
			assert.Greater(t, idx, last)
			last = idx
		}
	}
}

func TestParseDateBound(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	from, ok := ParseDateBound("2024-01-15", loc, false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), from)

	to, ok := ParseDateBound("2024-01-15", loc, true)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 23, 59, 59, 999_000_000, loc), to)

	rfc, ok := ParseDateBound("2024-01-15T22:30:00Z", loc, false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, loc), rfc)

	_, ok = ParseDateBound("", loc, false)
	assert.False(t, ok)
	assert.True(t, ValidDateBound(""))
	assert.False(t, ValidDateBound("15/01/2024"))
}

func TestSortByColumns(t *testing.T) {
	users := fixtureUsers(t)

	assert.Equal(t, []int{12, 3, 1, 21, 2}, ids(Sort(users, models.SortState{Column: models.SortByName, Direction: models.SortAsc})))
	assert.Equal(t, []int{12, 21, 3, 1, 2}, ids(Sort(users, models.SortState{Column: models.SortByEmail, Direction: models.SortAsc})))
	assert.Equal(t, []int{12, 1, 2, 3, 21}, ids(Sort(users, models.SortState{Column: models.SortByRegistrationDate, Direction: models.SortAsc})))
	assert.Equal(t, []int{12, 21, 1, 2, 3}, ids(Sort(users, models.SortState{Column: models.SortByLastActivity, Direction: models.SortDesc})))
	assert.Equal(t, []int{21, 12, 3, 2, 1}, ids(Sort(users, models.SortState{Column: models.SortByID, Direction: models.SortDesc})))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	users := fixtureUsers(t)
	before := ids(users)
	_ = Sort(users, models.SortState{Column: models.SortByName, Direction: models.SortDesc})
	assert.Equal(t, before, ids(users))
}

func TestSortIdempotentAndReversible(t *testing.T) {
	users := fixtureUsers(t)
	asc := models.SortState{Column: models.SortByRegistrationDate, Direction: models.SortAsc}

	once := Sort(users, asc)
	assert.Equal(t, ids(once), ids(Sort(once, asc)))

	desc := Sort(users, asc.Toggle(models.SortByRegistrationDate))
	reversed := ids(once)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.Equal(t, reversed, ids(desc))
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	users := []models.User{
		{ID: 5, Name: "Same"},
		{ID: 2, Name: "same"},
		{ID: 9, Name: "SAME"},
	}
	assert.Equal(t, []int{5, 2, 9}, ids(Sort(users, models.SortState{Column: models.SortByName, Direction: models.SortAsc})))
	assert.Equal(t, []int{5, 2, 9}, ids(Sort(users, models.SortState{Column: models.SortByName, Direction: models.SortDesc})))
}

func TestSortToggleRule(t *testing.T) {
	state := models.DefaultSort()
	state = state.Toggle(models.SortByID)
	assert.Equal(t, models.SortState{Column: models.SortByID, Direction: models.SortDesc}, state)
	state = state.Toggle(models.SortByName)
	assert.Equal(t, models.SortState{Column: models.SortByName, Direction: models.SortAsc}, state)
	state = state.Toggle(models.SortByName)
	assert.Equal(t, models.SortDesc, state.Direction)
}

func labels(pages []models.PageLabel) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.String()
	}
	return out
}

func TestVisiblePages(t *testing.T) {
	cases := []struct {
		current, total int
		want           []string
	}{
		{1, 0, []string{}},
		{1, 5, []string{"1", "2", "3", "4", "5"}},
		{3, 7, []string{"1", "2", "3", "4", "5", "6", "7"}},
		{1, 10, []string{"1", "2", "3", "4", "5", "…", "10"}},
		{4, 10, []string{"1", "2", "3", "4", "5", "…", "10"}},
		{10, 10, []string{"1", "…", "6", "7", "8", "9", "10"}},
		{7, 10, []string{"1", "…", "6", "7", "8", "9", "10"}},
		{5, 10, []string{"1", "…", "4", "5", "6", "…", "10"}},
		{6, 10, []string{"1", "…", "5", "6", "7", "…", "10"}},
		{1, 8, []string{"1", "2", "3", "4", "5", "…", "8"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, labels(VisiblePages(tc.current, tc.total)), "current=%d total=%d", tc.current, tc.total)
	}
}

func TestVisiblePagesJSON(t *testing.T) {
	raw, err := json.Marshal(VisiblePages(5, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,"…",4,5,6,"…",10]`, string(raw))

	var decoded []models.PageLabel
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, VisiblePages(5, 10), decoded)

	var bad models.PageLabel
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
}

func TestTotalPagesAndPaginate(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 25))
	assert.Equal(t, 1, TotalPages(25, 25))
	assert.Equal(t, 4, TotalPages(100, 25))
	assert.Equal(t, 5, TotalPages(101, 25))

	users := fixtureUsers(t)
	assert.Equal(t, []int{1, 2}, ids(Paginate(users, 1, 2)))
	assert.Equal(t, []int{21}, ids(Paginate(users, 3, 2)))
	assert.Empty(t, Paginate(users, 4, 2))
	assert.Empty(t, Paginate(users, 0, 2))

	start, end := PageBounds(5, 3, 2)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func TestPagerNavigation(t *testing.T) {
	p := NewPager(10)
	assert.False(t, p.GoToPage(0, 4))
	assert.False(t, p.GoToPage(5, 4))
	assert.Equal(t, 1, p.Current())

	assert.True(t, p.GoToPage(3, 4))
	assert.Equal(t, 3, p.Current())

	assert.True(t, p.SetPageSize(50))
	assert.Equal(t, 1, p.Current())
	assert.Equal(t, 50, p.PageSize())
	assert.False(t, p.SetPageSize(0))

	assert.Equal(t, models.DefaultPageSize, NewPager(0).PageSize())

	assert.True(t, p.GoToPage(4, 4))
	p.Clamp(2)
	assert.Equal(t, 2, p.Current())
	p.Clamp(0)
	assert.Equal(t, 1, p.Current())
}

func TestSelection(t *testing.T) {
	users := fixtureUsers(t)
	page := users[:2]
	s := NewSelection()

	assert.False(t, s.IsAllSelected(nil))
	s.Toggle(1)
	assert.True(t, s.Has(1))
	assert.False(t, s.IsAllSelected(page))

	s.Toggle(12)
	s.ToggleAll(page)
	assert.True(t, s.IsAllSelected(page))
	assert.Equal(t, []int{1, 2, 12}, s.IDs())

	s.ToggleAll(page)
	assert.Equal(t, []int{12}, s.IDs())

	s.Toggle(12)
	assert.Zero(t, s.Len())
}

func TestSelectionPrune(t *testing.T) {
	users := fixtureUsers(t)
	s := NewSelection()
	s.Toggle(1)
	s.Toggle(3)
	s.Toggle(99)

	s.Prune(users[1:])
	assert.Equal(t, []int{3}, s.IDs())

	s.Clear()
	assert.Empty(t, s.IDs())
}

func TestCompose(t *testing.T) {
	users := fixtureUsers(t)
	res := Compose(users, models.FilterState{Status: models.StatusActive}, models.SortState{Column: models.SortByName, Direction: models.SortAsc}, 2, 2, time.UTC)

	assert.Equal(t, []int{12, 3, 1}, ids(res.Sorted))
	assert.Equal(t, []int{1}, ids(res.Page))
	assert.Equal(t, models.Pagination{Page: 2, PageSize: 2, TotalCount: 3, TotalPages: 2, Start: 3, End: 3}, res.Pagination)
	assert.Equal(t, []string{"1", "2"}, labels(res.Pages))
}

func TestComposeClampsPastLastPage(t *testing.T) {
	users := fixtureUsers(t)
	res := Compose(users, models.FilterState{Role: models.RoleModerator}, models.DefaultSort(), 3, 2, time.UTC)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Equal(t, []int{3}, ids(res.Page))

	empty := Compose(users, models.FilterState{Search: "zzz"}, models.DefaultSort(), 1, 2, time.UTC)
	assert.Empty(t, empty.Page)
	assert.Equal(t, 0, empty.Pagination.TotalPages)
	assert.Equal(t, 0, empty.Pagination.Start)
	assert.Empty(t, empty.Pages)
}
