package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPaymentNotComplete      = errors.New("payment not complete")
	ErrForbidden               = errors.New("forbidden")
	ErrNotFound                = errors.New("booking not found")
)
