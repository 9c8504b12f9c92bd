package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/user-table-api/internal/models"
	"github.com/noah-isme/user-table-api/pkg/i18n"
)

const minNameLength = 3

// formRules validates user form fields and renders messages in the session locale.
type formRules struct {
	validate *validator.Validate
	tr       *i18n.Translator
}

func (r formRules) nameError(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return r.tr.T(i18n.MsgNameRequired)
	case utf8.RuneCountInString(name) < minNameLength:
		return r.tr.T(i18n.MsgNameTooShort)
	}
	return ""
}

// emailError checks presence, format and uniqueness. taken may be nil.
func (r formRules) emailError(email string, taken func(string) bool) string {
	switch {
	case strings.TrimSpace(email) == "":
		return r.tr.T(i18n.MsgEmailRequired)
	case !r.emailFormatOK(email):
		return r.tr.T(i18n.MsgEmailInvalid)
	case taken != nil && taken(email):
		return r.tr.T(i18n.MsgEmailTaken)
	}
	return ""
}

func (r formRules) emailFormatOK(email string) bool {
	return r.validate.Var(email, "required,email") == nil
}

// AddChange is a partial update of the add dialog draft.
type AddChange struct {
	Name             *string
	Email            *string
	Role             *models.UserRole
	SendWelcomeEmail *bool
}

// AddSession is the add-user dialog: draft, per-field errors and whether any field was touched.
type AddSession struct {
	open    bool
	touched bool
	draft   models.NewUserData
	errors  models.UserFormErrors
}

func defaultDraft() models.NewUserData {
	return models.NewUserData{
		UserFormData:     models.UserFormData{Role: models.RoleUser},
		SendWelcomeEmail: true,
	}
}

// Open resets the draft and errors.
func (a *AddSession) Open() {
	*a = AddSession{open: true, draft: defaultDraft()}
}

// Close hides the dialog and discards the draft.
func (a *AddSession) Close() {
	*a = AddSession{}
}

// IsOpen reports whether the dialog is shown.
func (a *AddSession) IsOpen() bool { return a.open }

// Draft returns the current draft.
func (a *AddSession) Draft() models.NewUserData { return a.draft }

// Change applies c and re-validates only the fields whose value actually changed.
func (a *AddSession) Change(c AddChange, rules formRules, taken func(string) bool) {
	if c.Name != nil && *c.Name != a.draft.Name {
		a.draft.Name = *c.Name
		a.errors.Name = rules.nameError(a.draft.Name)
		a.touched = true
	}
	if c.Email != nil && *c.Email != a.draft.Email {
		a.draft.Email = *c.Email
		a.errors.Email = rules.emailError(a.draft.Email, taken)
		a.touched = true
	}
	if c.Role != nil {
		a.draft.Role = *c.Role
	}
	if c.SendWelcomeEmail != nil {
		a.draft.SendWelcomeEmail = *c.SendWelcomeEmail
	}
}

// ValidateAll re-runs every field rule, used right before submit.
func (a *AddSession) ValidateAll(rules formRules, taken func(string) bool) {
	a.errors.Name = rules.nameError(a.draft.Name)
	a.errors.Email = rules.emailError(a.draft.Email, taken)
	a.touched = true
}

// Valid mirrors the submit button: both fields present, e-mail well formed, no field errors.
func (a *AddSession) Valid(rules formRules) bool {
	return strings.TrimSpace(a.draft.Name) != "" &&
		strings.TrimSpace(a.draft.Email) != "" &&
		rules.emailFormatOK(a.draft.Email) &&
		a.errors.Empty()
}

// State renders the dialog for the view.
func (a *AddSession) State(rules formRules) *models.AddState {
	if !a.open {
		return nil
	}
	valid := a.Valid(rules)
	phase := models.FormPristine
	if a.touched {
		phase = models.FormInvalid
		if valid {
			phase = models.FormValid
		}
	}
	return &models.AddState{Draft: a.draft, Errors: a.errors, Phase: phase, CanSubmit: valid}
}

// EditChange is a partial update of the inline edit form.
type EditChange struct {
	Name  *string
	Email *string
	Role  *models.UserRole
}

// EditSession is the single inline edit in progress.
type EditSession struct {
	UserID int
	Form   models.UserFormData
}

func newEditSession(u models.User) *EditSession {
	return &EditSession{
		UserID: u.ID,
		Form:   models.UserFormData{Name: u.Name, Email: u.Email, Role: u.Role},
	}
}

// Apply merges c into the form.
func (e *EditSession) Apply(c EditChange) {
	if c.Name != nil {
		e.Form.Name = *c.Name
	}
	if c.Email != nil {
		e.Form.Email = *c.Email
	}
	if c.Role != nil {
		e.Form.Role = *c.Role
	}
}

// Errors validates the form; uniqueness ignores the edited record.
func (e *EditSession) Errors(rules formRules, taken func(string) bool) models.UserFormErrors {
	return models.UserFormErrors{
		Name:  rules.nameError(e.Form.Name),
		Email: rules.emailError(e.Form.Email, taken),
	}
}

// Patch is the update sent to the store on save.
func (e *EditSession) Patch() models.UserPatch {
	name := strings.TrimSpace(e.Form.Name)
	email := strings.TrimSpace(e.Form.Email)
	role := e.Form.Role
	return models.UserPatch{Name: &name, Email: &email, Role: &role}
}

func (e *EditSession) state() *models.EditState {
	if e == nil {
		return nil
	}
	return &models.EditState{UserID: e.UserID, Form: e.Form}
}

func formFields(errs models.UserFormErrors) map[string]string {
	fields := map[string]string{}
	if errs.Name != "" {
		fields["name"] = errs.Name
	}
	if errs.Email != "" {
		fields["email"] = errs.Email
	}
	return fields
}
