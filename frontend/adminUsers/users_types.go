package adminusers

import "errors"

var (
	ErrNameRequired        = errors.New("name is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmailExists         = errors.New("email already registered")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// UserView is one row of the admin users list.
type UserView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListResponse is the admin users page payload.
type ListResponse struct {
	Users []UserView `json:"users"`
}

// CreateInput carries the fields for a new user account.
type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// RoleInput carries a role change.
type RoleInput struct {
	Role string `json:"role"`
}

// NameInput carries a display-name change.
type NameInput struct {
	Name string `json:"name"`
}
