package admin

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("kost not found")
	ErrInvalidState = errors.New("kost is not awaiting moderation")
)
