package auth

import "errors"

var (
	ErrValidation         = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
