package repository

import (
	"context"
	"time"

	"kosthub/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	Code         string     `gorm:"column:code;uniqueIndex"`
	KostID       int64      `gorm:"column:kost_id;index"`
	SeekerID     int64      `gorm:"column:seeker_id;index"`
	CheckInDate  time.Time  `gorm:"column:check_in_date"`
	CheckOutDate time.Time  `gorm:"column:check_out_date"`
	DurationType string     `gorm:"column:duration_type"`
	Duration     int        `gorm:"column:duration"`
	TotalPrice   float64    `gorm:"column:total_price"`
	Status       string     `gorm:"column:status;index"`
	GuestName    string     `gorm:"column:guest_name"`
	GuestEmail   string     `gorm:"column:guest_email"`
	GuestPhone   string     `gorm:"column:guest_phone"`
	Reason       *string    `gorm:"column:reason"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	ConfirmedAt  *time.Time `gorm:"column:confirmed_at"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var reason string
	if m.Reason != nil {
		reason = *m.Reason
	}

	return &domain.Booking{
		ID:           m.ID,
		Code:         m.Code,
		KostID:       m.KostID,
		SeekerID:     m.SeekerID,
		CheckInDate:  m.CheckInDate,
		CheckOutDate: m.CheckOutDate,
		DurationType: domain.DurationType(m.DurationType),
		Duration:     m.Duration,
		TotalPrice:   m.TotalPrice,
		Status:       domain.BookingStatus(m.Status),
		GuestName:    m.GuestName,
		GuestEmail:   m.GuestEmail,
		GuestPhone:   m.GuestPhone,
		Reason:       reason,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		ConfirmedAt:  m.ConfirmedAt,
		CancelledAt:  m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var reason *string
	if b.Reason != "" {
		v := b.Reason
		reason = &v
	}

	return bookingModel{
		ID:           b.ID,
		Code:         b.Code,
		KostID:       b.KostID,
		SeekerID:     b.SeekerID,
		CheckInDate:  b.CheckInDate,
		CheckOutDate: b.CheckOutDate,
		DurationType: string(b.DurationType),
		Duration:     b.Duration,
		TotalPrice:   b.TotalPrice,
		Status:       string(b.Status),
		GuestName:    b.GuestName,
		GuestEmail:   b.GuestEmail,
		GuestPhone:   b.GuestPhone,
		Reason:       reason,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
		ConfirmedAt:  b.ConfirmedAt,
		CancelledAt:  b.CancelledAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("code = ?", code).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// UpdateStatusIf moves a booking from one status to another with a
// status-guarded conditional update. Zero rows affected means another
// request won the race (or the precondition never held); the caller maps
// that to an invalid-transition error. This is what linearizes
// confirm/reject/cancel/expire per booking without explicit locking.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, bookingID int64, from, to domain.BookingStatus, reason string) (bool, error) {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": now,
	}
	if reason != "" {
		updates["reason"] = reason
	}
	switch to {
	case domain.BookingConfirmed:
		updates["confirmed_at"] = now
	case domain.BookingCancelled, domain.BookingRejected:
		updates["cancelled_at"] = now
	}

	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type SeekerBookingRow struct {
	ID           int64     `gorm:"column:id"`
	Code         string    `gorm:"column:code"`
	Status       string    `gorm:"column:status"`
	CheckInDate  time.Time `gorm:"column:check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date"`
	TotalPrice   float64   `gorm:"column:total_price"`
	KostID       int64     `gorm:"column:kost_id"`
	KostName     string    `gorm:"column:kost_name"`
	KostCity     string    `gorm:"column:kost_city"`
}

func (r *BookingRepository) ListBySeeker(ctx context.Context, seekerID int64, limit, offset int) ([]SeekerBookingRow, error) {
	var rows []SeekerBookingRow
	q := `
SELECT b.id, b.code, b.status, b.check_in_date, b.check_out_date, b.total_price,
       b.kost_id, k.name AS kost_name, k.city AS kost_city
FROM bookings b
JOIN kosts k ON k.id = b.kost_id
WHERE b.seeker_id = ?
ORDER BY b.created_at DESC
LIMIT ? OFFSET ?
`
	tx := r.db.WithContext(ctx).Raw(q, seekerID, limit, offset).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *BookingRepository) ListByKost(ctx context.Context, kostID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("kost_id = ?", kostID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// GetKostOwnerForBooking resolves the owning user of the kost a booking
// points at, for authorization of confirm/reject.
func (r *BookingRepository) GetKostOwnerForBooking(ctx context.Context, bookingID int64) (ownerID int64, status string, err error) {
	var row struct {
		OwnerID int64  `gorm:"column:owner_id"`
		Status  string `gorm:"column:status"`
	}
	q := `
SELECT k.owner_id, b.status
FROM bookings b
JOIN kosts k ON k.id = b.kost_id
WHERE b.id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, bookingID).Scan(&row)
	if tx.Error != nil {
		return 0, "", tx.Error
	}
	return row.OwnerID, row.Status, nil
}

// ListExpiredPending returns pending bookings created before the cutoff
// that have no successful payment, for the unpaid-booking sweep.
func (r *BookingRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error) {
	var rows []bookingModel
	q := `
SELECT b.*
FROM bookings b
WHERE b.status = ?
  AND b.created_at < ?
  AND NOT EXISTS (
    SELECT 1 FROM payments p
    WHERE p.booking_id = b.id AND p.status = ?
  )
ORDER BY b.created_at ASC
LIMIT ?
`
	tx := r.db.WithContext(ctx).
		Raw(q, string(domain.BookingPending), cutoff, string(domain.PaymentSuccess), limit).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
