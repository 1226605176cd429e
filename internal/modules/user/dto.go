package user

import "smap/internal/domain"

type CreateUserRequest struct {
	Name           string          `json:"name" binding:"required"`
	Username       string          `json:"username" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password"`
	Role           domain.UserRole `json:"role" binding:"required"`
	EmployeeNumber string          `json:"employee_number"`
	Position       string          `json:"position"`
	Division       string          `json:"division"`
}

// UpdateUserRequest leaves the password untouched when the field is empty.
type UpdateUserRequest struct {
	Name           string          `json:"name" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password"`
	Role           domain.UserRole `json:"role" binding:"required"`
	EmployeeNumber string          `json:"employee_number"`
	Position       string          `json:"position"`
	Division       string          `json:"division"`
}

type UserView struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	EmployeeNumber string          `json:"employee_number,omitempty"`
	Position       string          `json:"position,omitempty"`
	Division       string          `json:"division,omitempty"`
}

func toView(u *domain.User) UserView {
	return UserView{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		EmployeeNumber: u.EmployeeNumber,
		Position:       u.Position,
		Division:       u.Division,
	}
}
