package domain

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOfficer  UserRole = "officer"
	RoleBorrower UserRole = "borrower"
	RoleViewer   UserRole = "viewer"
)

type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name" validate:"required"`
	Username       string    `json:"username" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	PasswordHash   string    `json:"-"`
	Role           UserRole  `json:"role"`
	EmployeeNumber string    `json:"employee_number,omitempty"`
	Position       string    `json:"position,omitempty"`
	Division       string    `json:"division,omitempty"`
	Deleted        bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleOfficer, RoleBorrower, RoleViewer:
		return true
	}
	return false
}
