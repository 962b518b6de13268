package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingRejected   BookingStatus = "rejected"
	BookingCancelled  BookingStatus = "cancelled"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
)

// bookingTransitions is the closed transition table for the booking
// lifecycle. Any (from, to) pair not listed here is rejected; pending is
// the only entry state.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingRejected, BookingCancelled},
	BookingConfirmed: {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn: {BookingCheckedOut},
}

// CanTransition reports whether the booking lifecycle permits moving from
// one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// ReleasesInventory reports whether entering this status returns the
// booking's room claim to the kost counter.
func (s BookingStatus) ReleasesInventory() bool {
	return s == BookingRejected || s == BookingCancelled
}

type Booking struct {
	ID           int64         `json:"id"`
	Code         string        `json:"code"`
	KostID       int64         `json:"kost_id" validate:"required"`
	SeekerID     int64         `json:"seeker_id" validate:"required"`
	CheckInDate  time.Time     `json:"check_in_date" validate:"required"`
	CheckOutDate time.Time     `json:"check_out_date"`
	DurationType DurationType  `json:"duration_type" validate:"required"`
	Duration     int           `json:"duration" validate:"required,gte=1"`
	TotalPrice   float64       `json:"total_price"`
	Status       BookingStatus `json:"status"`

	// Guest contact snapshot, captured at booking time and independent of
	// the seeker's current profile.
	GuestName  string `json:"guest_name" validate:"required"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone" validate:"required"`

	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
