package inventory

import "errors"

var (
	ErrOutOfStock      = errors.New("no rooms available")
	ErrBoundsViolation = errors.New("room count out of bounds")
	ErrForbidden       = errors.New("forbidden")
)
