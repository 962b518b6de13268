package domain

import "time"

type KostStatus string

const (
	KostPending  KostStatus = "pending"
	KostApproved KostStatus = "approved"
	KostRejected KostStatus = "rejected"
)

// Kost is a rentable boarding house. TotalRooms is a fixed business fact;
// AvailableRooms is the mutable counter the inventory ledger guards with
// the invariant 0 <= available_rooms <= total_rooms.
type Kost struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"owner_id"`
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description,omitempty"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	PriceWeekly    *float64   `json:"price_weekly,omitempty"`
	PriceMonthly   float64    `json:"price_monthly" validate:"required,gt=0"`
	PriceYearly    *float64   `json:"price_yearly,omitempty"`
	TotalRooms     int        `json:"total_rooms" validate:"required,gt=0"`
	AvailableRooms int        `json:"available_rooms"`
	Status         KostStatus `json:"status"`
	RejectedReason string     `json:"rejected_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}

type DurationType string

const (
	DurationWeekly  DurationType = "weekly"
	DurationMonthly DurationType = "monthly"
	DurationYearly  DurationType = "yearly"
)

// PriceFor returns the per-period rate for the given duration type.
// Weekly and yearly rates fall back to a rate derived from the mandatory
// monthly price when no explicit rate is set.
func (k *Kost) PriceFor(dt DurationType) (float64, bool) {
	switch dt {
	case DurationWeekly:
		if k.PriceWeekly != nil {
			return *k.PriceWeekly, true
		}
		return k.PriceMonthly / 4, true
	case DurationMonthly:
		return k.PriceMonthly, true
	case DurationYearly:
		if k.PriceYearly != nil {
			return *k.PriceYearly, true
		}
		return k.PriceMonthly * 12, true
	default:
		return 0, false
	}
}
