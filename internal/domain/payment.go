package domain

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
	PaymentDenied  PaymentStatus = "denied"
)

// IsTerminal reports whether a payment status can no longer advance.
// Statuses move pending -> terminal exactly once; a terminal status is
// never overwritten by a later notification.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentSuccess, PaymentFailed, PaymentExpired, PaymentDenied:
		return true
	}
	return false
}

// Payment is the 1:1 financial record for a booking. OrderID is the
// external gateway order identifier and the natural key webhook
// notifications are looked up by.
type Payment struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	BookingID   int64         `gorm:"uniqueIndex;not null" json:"booking_id"`
	OrderID     string        `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_id"`
	GrossAmount float64       `gorm:"not null" json:"gross_amount"`
	Status      PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentType string        `gorm:"type:varchar(32)" json:"payment_type,omitempty"`
	RedirectURL string        `gorm:"type:text" json:"redirect_url,omitempty"`
	RawBody     string        `gorm:"type:text" json:"-"`
	SettledAt   *time.Time    `json:"settled_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
