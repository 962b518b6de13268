package payment

import "errors"

var (
	ErrInvalidSignature  = errors.New("notification signature mismatch")
	ErrNotFound          = errors.New("payment not found")
	ErrForbidden         = errors.New("access denied")
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")
)
