// Package i18n renders display labels and validation messages in the configured locale.
package i18n

import (
	"embed"
	"fmt"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Message ids shared by callers.
const (
	MsgNameRequired   = "error_name_required"
	MsgNameTooShort   = "error_name_too_short"
	MsgEmailRequired  = "error_email_required"
	MsgEmailInvalid   = "error_email_invalid"
	MsgEmailTaken     = "error_email_taken"
	MsgLoadFailed     = "error_load_failed"
	MsgExportTitle    = "export_title"
	MsgWelcomeSubject = "welcome_email_subject"
	MsgWelcomeBody    = "welcome_email_body"
)

// Export column header ids, in export order.
var ExportColumns = []string{
	"column_id",
	"column_name",
	"column_email",
	"column_role",
	"column_status",
	"column_registration_date",
}

// Translator resolves message ids for one locale.
type Translator struct {
	localizer *goi18n.Localizer
	tag       language.Tag
}

// NewBundle loads the embedded locale files.
func NewBundle() (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, entry := range entries {
		name := path.Join("locales", entry.Name())
		raw, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(raw, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return bundle, nil
}

// New returns a translator for lang, falling back to English for unknown tags.
func New(lang string) (*Translator, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Translator{localizer: goi18n.NewLocalizer(bundle, tag.String(), language.English.String()), tag: tag}, nil
}

// MustNew is New for wiring code and tests where the embedded files are known good.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Language returns the resolved locale tag.
func (t *Translator) Language() string {
	if t == nil {
		return language.English.String()
	}
	return t.tag.String()
}

// T translates id, returning the id itself when no message exists.
func (t *Translator) T(id string) string {
	return t.TWithData(id, nil)
}

// TWithData translates id with template data.
func (t *Translator) TWithData(id string, data map[string]interface{}) string {
	if t == nil {
		return id
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

// RoleLabel renders a role for display; unknown roles are shown verbatim.
func (t *Translator) RoleLabel(role string) string {
	id := "role_" + role
	if label := t.T(id); label != id {
		return label
	}
	return role
}

// StatusLabel renders a status for display.
func (t *Translator) StatusLabel(status string) string {
	id := "status_" + status
	if label := t.T(id); label != id {
		return label
	}
	return status
}
