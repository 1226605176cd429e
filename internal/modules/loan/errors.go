package loan

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("loan not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrItemUnavailable = errors.New("item not available")
	ErrStorage         = errors.New("evidence upload failed")
)
