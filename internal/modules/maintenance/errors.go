package maintenance

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("ticket not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrItemUnavailable = errors.New("item not available")
)
