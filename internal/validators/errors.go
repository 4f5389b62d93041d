package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidLogin    = errors.New("invalid login")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidTitle    = errors.New("invalid list title")
	ErrInvalidCategory = errors.New("invalid list category")
	ErrTooManyItems    = errors.New("too many list items")
	ErrEmptyListID     = errors.New("list id is required")
	ErrEmptyBody       = errors.New("comment body is empty")
	ErrBodyTooLong     = errors.New("comment body is too long")
)
