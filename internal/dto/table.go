package dto

import (
	"github.com/noah-isme/user-table-api/internal/models"
	"github.com/noah-isme/user-table-api/internal/service"
)

// FilterRequest replaces the table filter. Empty fields disable a predicate.
type FilterRequest struct {
	Search   string `json:"search" validate:"max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user moderator"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	DateFrom string `json:"date_from" validate:"max=40"`
	DateTo   string `json:"date_to" validate:"max=40"`
}

// State converts the request into filter state.
func (r FilterRequest) State() models.FilterState {
	return models.FilterState{
		Search:   r.Search,
		Role:     models.UserRole(r.Role),
		Status:   models.UserStatus(r.Status),
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
	}
}

// SortRequest selects the column to sort by.
type SortRequest struct {
	Column string `json:"column" validate:"required,oneof=id name email registrationDate lastActivity"`
}

// PageRequest asks for a page; out-of-range pages are ignored.
type PageRequest struct {
	Page int `json:"page"`
}

// PageSizeRequest changes rows per page.
type PageSizeRequest struct {
	PageSize int `json:"page_size" validate:"required,gt=0,lte=500"`
}

// SelectRequest toggles one row.
type SelectRequest struct {
	ID int `json:"id" validate:"required"`
}

// EditChangeRequest patches the inline edit form.
type EditChangeRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=200"`
	Email *string `json:"email" validate:"omitempty,max=254"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin user moderator"`
}

// Change converts the request into an edit change.
func (r EditChangeRequest) Change() service.EditChange {
	return service.EditChange{Name: r.Name, Email: r.Email, Role: rolePtr(r.Role)}
}

// AddChangeRequest patches the add dialog draft.
type AddChangeRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=200"`
	Email            *string `json:"email" validate:"omitempty,max=254"`
	Role             *string `json:"role" validate:"omitempty,oneof=admin user moderator"`
	SendWelcomeEmail *bool   `json:"send_welcome_email"`
}

// Change converts the request into an add change.
func (r AddChangeRequest) Change() service.AddChange {
	return service.AddChange{
		Name:             r.Name,
		Email:            r.Email,
		Role:             rolePtr(r.Role),
		SendWelcomeEmail: r.SendWelcomeEmail,
	}
}

// ExportQuery selects export format and rows.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
	Scope  string `form:"scope" validate:"omitempty,oneof=all page selected"`
}

// DeleteSelectedResponse reports a bulk deletion.
type DeleteSelectedResponse struct {
	Deleted int              `json:"deleted"`
	View    models.TableView `json:"view"`
}

func rolePtr(raw *string) *models.UserRole {
	if raw == nil {
		return nil
	}
	role := models.UserRole(*raw)
	return &role
}

// AddUserResponse returns the created user with the refreshed view.
type AddUserResponse struct {
	User models.User      `json:"user"`
	View models.TableView `json:"view"`
}
