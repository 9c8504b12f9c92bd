package models

// FormPhase is the add dialog's validation state.
type FormPhase string

const (
	FormPristine FormPhase = "pristine"
	FormValid    FormPhase = "valid"
	FormInvalid  FormPhase = "invalid"
)

// EditState is the open inline edit, if any.
type EditState struct {
	UserID int          `json:"user_id"`
	Form   UserFormData `json:"form"`
}

// AddState is the open add dialog.
type AddState struct {
	Draft  NewUserData    `json:"draft"`
	Errors UserFormErrors `json:"errors"`
	Phase  FormPhase      `json:"phase"`
	// CanSubmit drives the submit button.
	CanSubmit bool `json:"can_submit"`
}

// TableView is everything the presentation layer renders for one table session.
type TableView struct {
	ID           string      `json:"id"`
	Loading      bool        `json:"loading"`
	Error        string      `json:"error,omitempty"`
	Rows         []User      `json:"rows"`
	Pagination   Pagination  `json:"pagination"`
	VisiblePages []PageLabel `json:"visible_pages"`
	Filter       FilterState `json:"filter"`
	Sort         SortState   `json:"sort"`
	Selected     []int       `json:"selected"`
	AllSelected  bool        `json:"all_selected"`
	Edit         *EditState  `json:"edit,omitempty"`
	Add          *AddState   `json:"add,omitempty"`
	Details      *User       `json:"details,omitempty"`
}
