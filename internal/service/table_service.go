package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/user-table-api/internal/models"
	"github.com/noah-isme/user-table-api/internal/table"
	appErrors "github.com/noah-isme/user-table-api/pkg/errors"
	"github.com/noah-isme/user-table-api/pkg/i18n"
)

// noUserID never matches a record; used for uniqueness checks of new users.
const noUserID = 0

var (
	errUserNotFound   = appErrors.Clone(appErrors.ErrNotFound, "user not found")
	errNoEdit         = appErrors.Clone(appErrors.ErrNotFound, "no edit in progress")
	errAddClosed      = appErrors.Clone(appErrors.ErrNotFound, "add dialog is not open")
	errInvalidRole    = appErrors.Clone(appErrors.ErrValidation, "invalid role")
	errInvalidStatus  = appErrors.Clone(appErrors.ErrValidation, "invalid status")
	errInvalidColumn  = appErrors.Clone(appErrors.ErrValidation, "invalid sort column")
	errInvalidSize    = appErrors.Clone(appErrors.ErrValidation, "page size must be positive")
	errInvalidScope   = appErrors.Clone(appErrors.ErrValidation, "invalid export scope")
	errFormValidation = appErrors.Clone(appErrors.ErrValidation, "user form is invalid")
)

type welcomeSender interface {
	SendWelcome(user models.User) error
}

// TableDeps are the collaborators shared by every table session.
type TableDeps struct {
	API        userAPI
	Notifier   welcomeSender
	Translator *i18n.Translator
	Validate   *validator.Validate
	Logger     *zap.Logger
	Metrics    *MetricsService
	PageSize   int
	Location   *time.Location
	Now        func() time.Time
}

// TableService is one table session: a record store plus the filter, sort, page,
// selection and dialog state layered over it.
type TableService struct {
	id       string
	store    *UserStore
	rules    formRules
	notifier welcomeSender
	logger   *zap.Logger
	metrics  *MetricsService
	loc      *time.Location
	now      func() time.Time

	mu          sync.Mutex
	filter      models.FilterState
	order       models.SortState
	pager       *table.Pager
	selection   *table.Selection
	edit        *EditSession
	add         AddSession
	detailsID   int
	detailsOpen bool
	lastSeen    time.Time
}

// NewTableService builds an unloaded session.
func NewTableService(id string, deps TableDeps) *TableService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validate == nil {
		deps.Validate = validator.New()
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger.With(zap.String("table_id", id))
	return &TableService{
		id:        id,
		store:     NewUserStore(deps.API, logger, deps.Metrics),
		rules:     formRules{validate: deps.Validate, tr: deps.Translator},
		notifier:  deps.Notifier,
		logger:    logger,
		metrics:   deps.Metrics,
		loc:       deps.Location,
		now:       deps.Now,
		order:     models.DefaultSort(),
		pager:     table.NewPager(deps.PageSize),
		selection: table.NewSelection(),
		lastSeen:  deps.Now(),
	}
}

// ID returns the session id.
func (t *TableService) ID() string { return t.id }

// LastSeen returns when the session was last used.
func (t *TableService) LastSeen() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

func (t *TableService) touchLocked() {
	t.lastSeen = t.now()
}

// Load fetches the user list. On failure the table is empty and the view carries the error.
func (t *TableService) Load(ctx context.Context) error {
	err := t.store.Load(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.selection.Prune(t.store.Snapshot())
	if t.edit != nil {
		if _, ok := t.store.Find(t.edit.UserID); !ok {
			t.edit = nil
		}
	}
	if t.detailsOpen {
		if _, ok := t.store.Find(t.detailsID); !ok {
			t.detailsOpen = false
		}
	}
	return err
}

// resultLocked evaluates the pipeline and keeps the pager inside the page range.
func (t *TableService) resultLocked() table.Result {
	start := time.Now()
	res := table.Compose(t.store.Snapshot(), t.filter, t.order, t.pager.Current(), t.pager.PageSize(), t.loc)
	t.pager.Clamp(res.Pagination.TotalPages)
	t.metrics.ObserveView(time.Since(start))
	return res
}

// View renders the session.
func (t *TableService) View() models.TableView {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	return t.viewLocked()
}

func (t *TableService) viewLocked() models.TableView {
	res := t.resultLocked()
	view := models.TableView{
		ID:           t.id,
		Loading:      t.store.Loading(),
		Rows:         res.Page,
		Pagination:   res.Pagination,
		VisiblePages: res.Pages,
		Filter:       t.filter,
		Sort:         t.order,
		Selected:     t.selection.IDs(),
		AllSelected:  t.selection.IsAllSelected(res.Page),
		Edit:         t.edit.state(),
		Add:          t.add.State(t.rules),
	}
	if err := t.store.LoadError(); err != nil {
		view.Error = t.rules.tr.TWithData(i18n.MsgLoadFailed, map[string]interface{}{"Reason": err.Error()})
	}
	if t.detailsOpen {
		if u, ok := t.store.Find(t.detailsID); ok {
			view.Details = &u
		}
	}
	return view
}

// SetFilter replaces the filter and returns to page 1. Unparsable dates are kept but ignored.
func (t *TableService) SetFilter(f models.FilterState) error {
	if f.Role != "" && !f.Role.Valid() {
		return errInvalidRole
	}
	if f.Status != "" && !f.Status.Valid() {
		return errInvalidStatus
	}
	for _, raw := range []string{f.DateFrom, f.DateTo} {
		if !table.ValidDateBound(raw) {
			t.logger.Debug("ignoring unparsable date bound", zap.String("value", raw))
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.filter = f
	t.pager.Reset()
	return nil
}

// ClearFilters resets every filter control.
func (t *TableService) ClearFilters() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.filter = models.FilterState{}
	t.pager.Reset()
}

// ClearDateFilter resets only the date range.
func (t *TableService) ClearDateFilter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.filter.DateFrom = ""
	t.filter.DateTo = ""
	t.pager.Reset()
}

// SortBy flips the direction for the active column or switches column ascending.
func (t *TableService) SortBy(column models.SortColumn) error {
	if !column.Valid() {
		return errInvalidColumn
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.order = t.order.Toggle(column)
	return nil
}

// GoToPage moves to page if it exists and reports whether the page changed.
func (t *TableService) GoToPage(page int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	res := t.resultLocked()
	return t.pager.GoToPage(page, res.Pagination.TotalPages)
}

// SetPageSize changes rows per page and returns to page 1.
func (t *TableService) SetPageSize(size int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	if !t.pager.SetPageSize(size) {
		return errInvalidSize
	}
	return nil
}

// ToggleSelect adds or removes id from the selection.
func (t *TableService) ToggleSelect(id int) error {
	if _, ok := t.store.Find(id); !ok {
		return errUserNotFound
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.selection.Toggle(id)
	return nil
}

// ToggleSelectAll selects or deselects every row of the visible page.
func (t *TableService) ToggleSelectAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.selection.ToggleAll(t.resultLocked().Page)
}

// ClearSelection empties the selection.
func (t *TableService) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.selection.Clear()
}

// ToggleStatus flips a user's status after the remote update succeeds.
func (t *TableService) ToggleStatus(ctx context.Context, id int) error {
	if _, ok := t.store.Find(id); !ok {
		return errUserNotFound
	}
	t.touch()
	return t.store.ToggleStatus(ctx, id)
}

// DeleteUser removes one user and drops it from the selection and any open dialog.
func (t *TableService) DeleteUser(ctx context.Context, id int) error {
	if _, ok := t.store.Find(id); !ok {
		return errUserNotFound
	}
	t.touch()
	if err := t.store.Delete(ctx, id); err != nil {
		return err
	}
	t.forget(id)
	return nil
}

// DeleteSelected removes every selected user and returns how many ids were sent.
func (t *TableService) DeleteSelected(ctx context.Context) (int, error) {
	t.mu.Lock()
	t.touchLocked()
	ids := t.selection.IDs()
	t.mu.Unlock()

	if len(ids) == 0 {
		return 0, nil
	}
	if err := t.store.DeleteMany(ctx, ids); err != nil {
		return 0, err
	}
	t.forget(ids...)
	return len(ids), nil
}

func (t *TableService) touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
}

func (t *TableService) forget(ids ...int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Remove(ids...)
	for _, id := range ids {
		if t.edit != nil && t.edit.UserID == id {
			t.edit = nil
		}
		if t.detailsOpen && t.detailsID == id {
			t.detailsOpen = false
		}
	}
}

// StartEdit opens the inline editor on id, replacing any edit in progress.
func (t *TableService) StartEdit(id int) error {
	u, ok := t.store.Find(id)
	if !ok {
		return errUserNotFound
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.edit = newEditSession(u)
	return nil
}

// ChangeEdit updates the edit form.
func (t *TableService) ChangeEdit(c EditChange) (*models.EditState, error) {
	if c.Role != nil && !c.Role.Valid() {
		return nil, errInvalidRole
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	if t.edit == nil {
		return nil, errNoEdit
	}
	t.edit.Apply(c)
	return t.edit.state(), nil
}

// SaveEdit validates the form, commits it remotely and closes the editor.
// On failure the editor stays open with the form intact.
func (t *TableService) SaveEdit(ctx context.Context) error {
	t.mu.Lock()
	t.touchLocked()
	if t.edit == nil {
		t.mu.Unlock()
		return errNoEdit
	}
	edit := *t.edit
	t.mu.Unlock()

	errs := edit.Errors(t.rules, func(email string) bool { return t.store.EmailTaken(email, edit.UserID) })
	if !errs.Empty() {
		return appErrors.WithFields(errFormValidation, formFields(errs))
	}
	if !edit.Form.Role.Valid() {
		return errInvalidRole
	}

	if err := t.store.Update(ctx, edit.UserID, edit.Patch()); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit != nil && t.edit.UserID == edit.UserID {
		t.edit = nil
	}
	return nil
}

// CancelEdit discards the edit in progress.
func (t *TableService) CancelEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.edit = nil
}

// OpenAdd shows the add dialog with a fresh draft.
func (t *TableService) OpenAdd() *models.AddState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.add.Open()
	return t.add.State(t.rules)
}

// ChangeAdd updates the draft, validating changed fields as they change.
func (t *TableService) ChangeAdd(c AddChange) (*models.AddState, error) {
	if c.Role != nil && !c.Role.Valid() {
		return nil, errInvalidRole
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	if !t.add.IsOpen() {
		return nil, errAddClosed
	}
	t.add.Change(c, t.rules, t.emailTaken)
	return t.add.State(t.rules), nil
}

// SubmitAdd creates the drafted user. The dialog closes only when the remote create succeeds.
func (t *TableService) SubmitAdd(ctx context.Context) (models.User, error) {
	t.mu.Lock()
	t.touchLocked()
	if !t.add.IsOpen() {
		t.mu.Unlock()
		return models.User{}, errAddClosed
	}
	t.add.ValidateAll(t.rules, t.emailTaken)
	if !t.add.Valid(t.rules) {
		fields := formFields(t.add.errors)
		t.mu.Unlock()
		return models.User{}, appErrors.WithFields(errFormValidation, fields)
	}
	draft := t.add.Draft()
	t.mu.Unlock()

	user := models.NewUser(
		t.store.NextID(),
		strings.TrimSpace(draft.Name),
		strings.TrimSpace(draft.Email),
		draft.Role,
		t.now().UTC(),
	)
	stored, err := t.store.Add(ctx, user)
	if err != nil {
		return models.User{}, err
	}

	t.mu.Lock()
	t.add.Close()
	t.mu.Unlock()

	if draft.SendWelcomeEmail && t.notifier != nil {
		if err := t.notifier.SendWelcome(stored); err != nil {
			t.logger.Warn("welcome email not queued", zap.Int("user_id", stored.ID), zap.Error(err))
		}
	}
	t.logger.Info("user added", zap.Int("user_id", stored.ID))
	return stored, nil
}

// CloseAdd hides the add dialog.
func (t *TableService) CloseAdd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.add.Close()
}

func (t *TableService) emailTaken(email string) bool {
	return t.store.EmailTaken(email, noUserID)
}

// OpenDetails shows the details modal for id.
func (t *TableService) OpenDetails(id int) (models.User, error) {
	u, ok := t.store.Find(id)
	if !ok {
		return models.User{}, errUserNotFound
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.detailsID = id
	t.detailsOpen = true
	return u, nil
}

// CloseDetails hides the details modal.
func (t *TableService) CloseDetails() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()
	t.detailsOpen = false
}

// ExportUsers returns the rows for an export in the current sort order.
func (t *TableService) ExportUsers(scope ExportScope) ([]models.User, error) {
	if scope == "" {
		scope = ExportScopeAll
	}
	if !scope.Valid() {
		return nil, errInvalidScope
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touchLocked()

	switch scope {
	case ExportScopePage:
		return t.resultLocked().Page, nil
	case ExportScopeSelected:
		all := table.Sort(t.store.Snapshot(), t.order)
		selected := make([]models.User, 0, t.selection.Len())
		for _, u := range all {
			if t.selection.Has(u.ID) {
				selected = append(selected, u)
			}
		}
		return selected, nil
	default:
		return t.resultLocked().Sorted, nil
	}
}
