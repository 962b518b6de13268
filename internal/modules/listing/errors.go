package listing

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("access denied")
	ErrNotFound          = errors.New("kost not found")
	ErrHasActiveBookings = errors.New("kost has active bookings")
)
