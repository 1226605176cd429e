package user

import "errors"

var (
	ErrValidation        = errors.New("invalid user payload")
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)
