package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/noah-isme/user-table-api/internal/models"
	appErrors "github.com/noah-isme/user-table-api/pkg/errors"
	"github.com/noah-isme/user-table-api/pkg/export"
	"github.com/noah-isme/user-table-api/pkg/i18n"
)

// exportDateLayout is the display date format (DD.MM.YYYY).
const exportDateLayout = "02.01.2006"

// csvHeaders is the fixed CSV header row. Only cell values are localized.
var csvHeaders = []string{"ID", "Name", "Email", "Role", "Status", "RegistrationDate"}

// ExportScope selects which rows of a table are exported.
type ExportScope string

const (
	ExportScopeAll      ExportScope = "all"
	ExportScopePage     ExportScope = "page"
	ExportScopeSelected ExportScope = "selected"
)

// Valid reports whether the scope is known.
func (s ExportScope) Valid() bool {
	return s == ExportScopeAll || s == ExportScopePage || s == ExportScopeSelected
}

// ExportFormat names an output format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type renderer interface {
	Render(export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService turns user lists into CSV or PDF downloads with localized labels.
type ExportService struct {
	tr        *i18n.Translator
	loc       *time.Location
	renderers map[ExportFormat]renderer
	now       func() time.Time
}

// NewExportService builds an export service rendering dates in loc.
func NewExportService(tr *i18n.Translator, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.Local
	}
	return &ExportService{
		tr:  tr,
		loc: loc,
		renderers: map[ExportFormat]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		now: time.Now,
	}
}

// Dataset maps users to export rows in the given order.
func (s *ExportService) Dataset(users []models.User) export.Dataset {
	headers := make([]string, len(i18n.ExportColumns))
	for i, id := range i18n.ExportColumns {
		headers[i] = s.tr.T(id)
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.Itoa(u.ID),
			u.Name,
			u.Email,
			s.tr.RoleLabel(string(u.Role)),
			s.tr.StatusLabel(string(u.Status)),
			u.RegistrationDate.In(s.loc).Format(exportDateLayout),
		})
	}
	return export.Dataset{Title: s.tr.T(i18n.MsgExportTitle), Headers: headers, Rows: rows}
}

// Render produces a download of users in format.
func (s *ExportService) Render(format ExportFormat, users []models.User) (*ExportFile, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	data := s.Dataset(users)
	if format == ExportFormatCSV {
		data.Headers = csvHeaders
	}
	body, err := r.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("users_%s.%s", s.now().In(s.loc).Format("20060102"), r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}
