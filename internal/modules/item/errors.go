package item

import "errors"

var (
	ErrValidation    = errors.New("invalid item payload")
	ErrNotFound      = errors.New("item not found")
	ErrDuplicateCode = errors.New("item code already registered")
)
