package models

import "time"

// UserRole is the access level shown in the table's role column.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

// UserStatus is the account state toggled from the table.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Valid reports whether the status is one of the known statuses.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Toggled returns the opposite status.
func (s UserStatus) Toggled() UserStatus {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// User is one record managed by the table. Counters are display-only.
type User struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             UserRole   `json:"role"`
	Status           UserStatus `json:"status"`
	RegistrationDate time.Time  `json:"registration_date"`
	LastActivity     time.Time  `json:"last_activity"`
	Avatar           *string    `json:"avatar"`
	LoginCount       int        `json:"login_count"`
	PostsCount       int        `json:"posts_count"`
	CommentsCount    int        `json:"comments_count"`
}

// UserPatch carries the fields of a partial update; nil fields are left untouched.
type UserPatch struct {
	Name   *string
	Email  *string
	Role   *UserRole
	Status *UserStatus
}

// Apply merges the patch into a copy of u.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	return u
}

// Overlaps reports whether both patches set at least one common field.
func (p UserPatch) Overlaps(o UserPatch) bool {
	return (p.Name != nil && o.Name != nil) ||
		(p.Email != nil && o.Email != nil) ||
		(p.Role != nil && o.Role != nil) ||
		(p.Status != nil && o.Status != nil)
}

// NewUser builds a freshly registered active user.
func NewUser(id int, name, email string, role UserRole, now time.Time) User {
	return User{
		ID:               id,
		Name:             name,
		Email:            email,
		Role:             role,
		Status:           StatusActive,
		RegistrationDate: now,
		LastActivity:     now,
	}
}

// NextUserID returns max(id)+1, or 1 for an empty list.
func NextUserID(users []User) int {
	if len(users) == 0 {
		return 1
	}
	maxID := users[0].ID
	for _, u := range users[1:] {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}

// UserFormData is the editable subset of a user.
type UserFormData struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// NewUserData is the add-dialog draft.
type NewUserData struct {
	UserFormData
	SendWelcomeEmail bool `json:"send_welcome_email"`
}

// UserFormErrors holds field-scoped validation messages; empty means valid.
type UserFormErrors struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Empty reports whether no field carries an error.
func (e UserFormErrors) Empty() bool {
	return e.Name == "" && e.Email == ""
}
