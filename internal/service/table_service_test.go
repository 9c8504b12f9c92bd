package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/user-table-api/internal/models"
	"github.com/noah-isme/user-table-api/internal/repository"
	appErrors "github.com/noah-isme/user-table-api/pkg/errors"
	"github.com/noah-isme/user-table-api/pkg/i18n"
)

var fixedNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu    sync.Mutex
	users []models.User
	err   error
}

func (n *recordingNotifier) SendWelcome(user models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, user)
	return n.err
}

func testDeps(api userAPI, notifier welcomeSender) TableDeps {
	return TableDeps{
		API:        api,
		Notifier:   notifier,
		Translator: i18n.MustNew("en"),
		PageSize:   10,
		Location:   time.UTC,
		Now:        func() time.Time { return fixedNow },
	}
}

func newLoadedTable(t *testing.T, api *stubUserAPI, notifier welcomeSender) *TableService {
	t.Helper()
	svc := NewTableService("table-1", testDeps(api, notifier))
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func rowIDs(users []models.User) []int {
	out := make([]int, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestTableViewDefaults(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(25)}, nil)

	view := svc.View()
	assert.Equal(t, "table-1", view.ID)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 10, TotalCount: 25, TotalPages: 3, Start: 1, End: 10}, view.Pagination)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, rowIDs(view.Rows))
	assert.Len(t, view.VisiblePages, 3)
	assert.Equal(t, models.DefaultSort(), view.Sort)
	assert.Empty(t, view.Selected)
	assert.False(t, view.AllSelected)
	assert.Nil(t, view.Edit)
	assert.Nil(t, view.Add)
	assert.Nil(t, view.Details)
}

func TestTableFilterResetsPage(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(25)}, nil)
	require.True(t, svc.GoToPage(2))

	require.NoError(t, svc.SetFilter(models.FilterState{Search: "user2"}))
	view := svc.View()
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Equal(t, []int{2, 20, 21, 22, 23, 24, 25}, rowIDs(view.Rows))

	svc.ClearFilters()
	assert.Equal(t, 25, svc.View().Pagination.TotalCount)
}

func TestTableFilterRejectsUnknownValues(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(3)}, nil)

	assert.ErrorIs(t, svc.SetFilter(models.FilterState{Role: "root"}), appErrors.ErrValidation)
	assert.ErrorIs(t, svc.SetFilter(models.FilterState{Status: "banned"}), appErrors.ErrValidation)

	require.NoError(t, svc.SetFilter(models.FilterState{DateFrom: "not-a-date"}))
	assert.Equal(t, 3, svc.View().Pagination.TotalCount)
}

func TestTableDateFilterAndClear(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(10)}, nil)

	// seedUsers registers user i on 2024-03-(1+i).
	require.NoError(t, svc.SetFilter(models.FilterState{DateFrom: "2024-03-03", DateTo: "2024-03-05", Search: "user"}))
	assert.Equal(t, []int{2, 3, 4}, rowIDs(svc.View().Rows))

	svc.ClearDateFilter()
	view := svc.View()
	assert.Equal(t, 10, view.Pagination.TotalCount)
	assert.Equal(t, "user", view.Filter.Search)
}

func TestTableSortBy(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(12)}, nil)

	require.NoError(t, svc.SortBy(models.SortByID))
	view := svc.View()
	assert.Equal(t, models.SortState{Column: models.SortByID, Direction: models.SortDesc}, view.Sort)
	assert.Equal(t, 12, view.Rows[0].ID)

	require.NoError(t, svc.SortBy(models.SortByRegistrationDate))
	assert.Equal(t, models.SortAsc, svc.View().Sort.Direction)

	assert.ErrorIs(t, svc.SortBy("avatar"), appErrors.ErrValidation)
}

func TestTableGoToPageAndPageSize(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(25)}, nil)

	assert.True(t, svc.GoToPage(3))
	assert.Equal(t, []int{21, 22, 23, 24, 25}, rowIDs(svc.View().Rows))
	assert.False(t, svc.GoToPage(4))
	assert.False(t, svc.GoToPage(0))
	assert.Equal(t, 3, svc.View().Pagination.Page)

	require.NoError(t, svc.SetPageSize(50))
	view := svc.View()
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Equal(t, 1, view.Pagination.TotalPages)
	assert.ErrorIs(t, svc.SetPageSize(0), appErrors.ErrValidation)
}

func TestTablePageClampsAfterDelete(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(21)}, nil)
	require.True(t, svc.GoToPage(3))

	require.NoError(t, svc.DeleteUser(context.Background(), 21))
	view := svc.View()
	assert.Equal(t, 2, view.Pagination.Page)
	assert.Equal(t, 2, view.Pagination.TotalPages)
	assert.True(t, svc.GoToPage(1))
}

func TestTableSelection(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(15)}, nil)

	svc.ToggleSelectAll()
	view := svc.View()
	assert.True(t, view.AllSelected)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, view.Selected)

	// Page 2 is not fully selected, so toggle-all adds only its rows.
	require.True(t, svc.GoToPage(2))
	assert.False(t, svc.View().AllSelected)
	svc.ToggleSelectAll()
	assert.Len(t, svc.View().Selected, 15)

	svc.ToggleSelectAll()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, svc.View().Selected)

	require.NoError(t, svc.ToggleSelect(1))
	assert.NotContains(t, svc.View().Selected, 1)
	assert.ErrorIs(t, svc.ToggleSelect(99), appErrors.ErrNotFound)

	svc.ClearSelection()
	assert.Empty(t, svc.View().Selected)
}

func TestTableDeletePrunesSelection(t *testing.T) {
	api := &stubUserAPI{users: seedUsers(5)}
	svc := newLoadedTable(t, api, nil)

	require.NoError(t, svc.ToggleSelect(1))
	require.NoError(t, svc.ToggleSelect(2))
	require.NoError(t, svc.ToggleSelect(3))

	require.NoError(t, svc.DeleteUser(context.Background(), 1))
	assert.Equal(t, []int{2, 3}, svc.View().Selected)

	n, err := svc.DeleteSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	view := svc.View()
	assert.Empty(t, view.Selected)
	assert.Equal(t, []int{4, 5}, rowIDs(view.Rows))

	n, err = svc.DeleteSelected(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 1), appErrors.ErrNotFound)
}

func TestTableDeleteSelectedFailureKeepsSelection(t *testing.T) {
	api := &stubUserAPI{users: seedUsers(3), manyErr: errors.New("down")}
	svc := newLoadedTable(t, api, nil)
	require.NoError(t, svc.ToggleSelect(2))

	_, err := svc.DeleteSelected(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrMutationFailed)

	view := svc.View()
	assert.Equal(t, []int{2}, view.Selected)
	assert.Equal(t, 3, view.Pagination.TotalCount)
}

func TestTableToggleStatus(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(2)}, nil)

	require.NoError(t, svc.ToggleStatus(context.Background(), 2))
	assert.Equal(t, models.StatusInactive, svc.View().Rows[1].Status)
	assert.ErrorIs(t, svc.ToggleStatus(context.Background(), 7), appErrors.ErrNotFound)
}

func TestTableAddFlow(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(25)}, notifier)

	state := svc.OpenAdd()
	require.NotNil(t, state)
	assert.Equal(t, models.FormPristine, state.Phase)
	assert.False(t, state.CanSubmit)
	assert.Equal(t, models.RoleUser, state.Draft.Role)
	assert.True(t, state.Draft.SendWelcomeEmail)

	state, err := svc.ChangeAdd(AddChange{Name: strPtr("Al")})
	require.NoError(t, err)
	assert.Equal(t, "Name must be at least 3 characters", state.Errors.Name)
	assert.Equal(t, models.FormInvalid, state.Phase)

	state, err = svc.ChangeAdd(AddChange{Email: strPtr("user1@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "A user with this email already exists", state.Errors.Email)
	assert.False(t, state.CanSubmit)

	state, err = svc.ChangeAdd(AddChange{Email: strPtr("not-an-email")})
	require.NoError(t, err)
	assert.Equal(t, "Invalid email format", state.Errors.Email)

	role := models.RoleModerator
	state, err = svc.ChangeAdd(AddChange{Name: strPtr("Alice"), Email: strPtr("alice@example.com"), Role: &role})
	require.NoError(t, err)
	assert.True(t, state.Errors.Empty())
	assert.Equal(t, models.FormValid, state.Phase)
	assert.True(t, state.CanSubmit)

	user, err := svc.SubmitAdd(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 26, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.Equal(t, fixedNow, user.RegistrationDate)
	assert.Nil(t, user.Avatar)
	assert.Zero(t, user.LoginCount)

	view := svc.View()
	assert.Nil(t, view.Add)
	assert.Equal(t, 26, view.Pagination.TotalCount)
	require.Len(t, notifier.users, 1)
	assert.Equal(t, 26, notifier.users[0].ID)
}

func TestTableAddRejectsInvalidSubmit(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(2)}, nil)

	_, err := svc.SubmitAdd(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	svc.OpenAdd()
	_, err = svc.SubmitAdd(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Name is required", appErr.Fields["name"])
	assert.Equal(t, "Email is required", appErr.Fields["email"])

	view := svc.View()
	require.NotNil(t, view.Add)
	assert.Equal(t, models.FormInvalid, view.Add.Phase)

	bad := models.UserRole("root")
	_, err = svc.ChangeAdd(AddChange{Role: &bad})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestTableAddFailureKeepsDialogOpen(t *testing.T) {
	notifier := &recordingNotifier{}
	api := &stubUserAPI{users: seedUsers(2), createErr: errors.New("down")}
	svc := newLoadedTable(t, api, notifier)

	svc.OpenAdd()
	noWelcome := false
	_, err := svc.ChangeAdd(AddChange{Name: strPtr("Boris"), Email: strPtr("boris@example.com"), SendWelcomeEmail: &noWelcome})
	require.NoError(t, err)

	_, err = svc.SubmitAdd(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrMutationFailed)

	view := svc.View()
	require.NotNil(t, view.Add)
	assert.Equal(t, "Boris", view.Add.Draft.Name)
	assert.Equal(t, 2, view.Pagination.TotalCount)

	api.createErr = nil
	_, err = svc.SubmitAdd(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.users)

	svc.OpenAdd()
	svc.CloseAdd()
	assert.Nil(t, svc.View().Add)
}

func TestTableToggleDuringEditSaveKeepsBoth(t *testing.T) {
	api := &stubUserAPI{users: seedUsers(2), block: make(chan struct{})}
	svc := newLoadedTable(t, api, nil)

	require.NoError(t, svc.StartEdit(1))
	_, err := svc.ChangeEdit(EditChange{Name: strPtr("Edited")})
	require.NoError(t, err)

	saved := make(chan error, 1)
	go func() { saved <- svc.SaveEdit(context.Background()) }()
	waitForUpdates(t, api, 1)

	toggled := make(chan error, 1)
	go func() { toggled <- svc.ToggleStatus(context.Background(), 1) }()
	waitForUpdates(t, api, 2)

	close(api.block)
	require.NoError(t, <-saved)
	require.NoError(t, <-toggled)

	view := svc.View()
	assert.Nil(t, view.Edit)
	user, err := svc.OpenDetails(1)
	require.NoError(t, err)
	assert.Equal(t, "Edited", user.Name)
	assert.Equal(t, models.StatusInactive, user.Status)
}

func TestTableEditFlow(t *testing.T) {
	api := &stubUserAPI{users: seedUsers(3)}
	svc := newLoadedTable(t, api, nil)

	require.NoError(t, svc.StartEdit(2))
	view := svc.View()
	require.NotNil(t, view.Edit)
	assert.Equal(t, models.UserFormData{Name: "User", Email: "user2@example.com", Role: models.RoleUser}, view.Edit.Form)

	state, err := svc.ChangeEdit(EditChange{Name: strPtr("  Renamed  ")})
	require.NoError(t, err)
	assert.Equal(t, "  Renamed  ", state.Form.Name)

	require.NoError(t, svc.SaveEdit(context.Background()))
	view = svc.View()
	assert.Nil(t, view.Edit)
	assert.Equal(t, "Renamed", view.Rows[1].Name)
}

func TestTableEditValidation(t *testing.T) {
	api := &stubUserAPI{users: seedUsers(3)}
	svc := newLoadedTable(t, api, nil)

	assert.ErrorIs(t, svc.SaveEdit(context.Background()), appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.StartEdit(42), appErrors.ErrNotFound)

	require.NoError(t, svc.StartEdit(2))
	// Keeping its own e-mail is fine; taking another user's is not.
	_, err := svc.ChangeEdit(EditChange{Email: strPtr("user3@example.com")})
	require.NoError(t, err)
	err = svc.SaveEdit(context.Background())
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "email")
	assert.NotNil(t, svc.View().Edit)

	_, err = svc.ChangeEdit(EditChange{Email: strPtr("user2@example.com")})
	require.NoError(t, err)
	api.updateErr = errors.New("down")
	assert.ErrorIs(t, svc.SaveEdit(context.Background()), appErrors.ErrMutationFailed)
	assert.NotNil(t, svc.View().Edit)

	svc.CancelEdit()
	assert.Nil(t, svc.View().Edit)
	_, err = svc.ChangeEdit(EditChange{Name: strPtr("x")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTableDeleteClosesDialogs(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(3)}, nil)

	u, err := svc.OpenDetails(2)
	require.NoError(t, err)
	assert.Equal(t, 2, u.ID)
	require.NoError(t, svc.StartEdit(2))

	view := svc.View()
	require.NotNil(t, view.Details)
	assert.Equal(t, 2, view.Details.ID)

	require.NoError(t, svc.DeleteUser(context.Background(), 2))
	view = svc.View()
	assert.Nil(t, view.Details)
	assert.Nil(t, view.Edit)

	_, err = svc.OpenDetails(2)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.OpenDetails(1)
	require.NoError(t, err)
	svc.CloseDetails()
	assert.Nil(t, svc.View().Details)
}

func TestTableLoadFailure(t *testing.T) {
	api := &stubUserAPI{fetchErr: errors.New("timeout")}
	svc := NewTableService("table-1", testDeps(api, nil))

	err := svc.Load(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrLoadFailed)

	view := svc.View()
	assert.False(t, view.Loading)
	assert.Equal(t, "Failed to load data: timeout", view.Error)
	assert.Empty(t, view.Rows)
	assert.Equal(t, 0, view.Pagination.TotalCount)
	assert.Equal(t, 0, view.Pagination.Start)

	api.fetchErr = nil
	api.users = seedUsers(2)
	require.NoError(t, svc.Load(context.Background()))
	assert.Empty(t, svc.View().Error)
}

func TestTableExportUsers(t *testing.T) {
	svc := newLoadedTable(t, &stubUserAPI{users: seedUsers(15)}, nil)
	require.NoError(t, svc.SortBy(models.SortByID))
	require.NoError(t, svc.ToggleSelect(3))
	require.NoError(t, svc.ToggleSelect(14))

	all, err := svc.ExportUsers("")
	require.NoError(t, err)
	assert.Len(t, all, 15)
	assert.Equal(t, 15, all[0].ID)

	page, err := svc.ExportUsers(ExportScopePage)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	selected, err := svc.ExportUsers(ExportScopeSelected)
	require.NoError(t, err)
	assert.Equal(t, []int{14, 3}, rowIDs(selected))

	_, err = svc.ExportUsers("everything")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestTableSearchEndToEnd(t *testing.T) {
	api := repository.NewMockUserAPI(repository.MockUserAPIConfig{
		UserCount: 100,
		Seed:      42,
		Now:       func() time.Time { return fixedNow },
	}, nil)
	svc := NewTableService("table-e2e", testDeps(api, nil))
	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, 100, svc.View().Pagination.TotalCount)

	require.NoError(t, svc.SetFilter(models.FilterState{Search: "Иван"}))
	filtered := svc.View()
	assert.Greater(t, filtered.Pagination.TotalCount, 0)
	assert.Less(t, filtered.Pagination.TotalCount, 100)

	all, err := svc.ExportUsers(ExportScopeAll)
	require.NoError(t, err)
	require.Len(t, all, filtered.Pagination.TotalCount)
	for _, u := range all {
		assert.Contains(t, strings.ToLower(u.Name), "иван", u.Name)
	}

	require.NoError(t, svc.SetPageSize(100))
	assert.Len(t, svc.View().Rows, filtered.Pagination.TotalCount)

	require.NoError(t, svc.SetFilter(models.FilterState{Search: "иВАН"}))
	assert.Equal(t, filtered.Pagination.TotalCount, svc.View().Pagination.TotalCount)

	require.NoError(t, svc.SetFilter(models.FilterState{}))
	assert.Equal(t, 100, svc.View().Pagination.TotalCount)
}
