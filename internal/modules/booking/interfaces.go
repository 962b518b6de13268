package booking

import (
	"context"
	"time"

	"kosthub/internal/domain"
	"kosthub/internal/repository"
)

// BookingRepository defines the storage operations the lifecycle manager
// needs. UpdateStatusIf is the status-guarded conditional update every
// transition funnels through.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	UpdateStatusIf(ctx context.Context, bookingID int64, from, to domain.BookingStatus, reason string) (bool, error)
	ListBySeeker(ctx context.Context, seekerID int64, limit, offset int) ([]repository.SeekerBookingRow, error)
	ListByKost(ctx context.Context, kostID int64) ([]domain.Booking, error)
	GetKostOwnerForBooking(ctx context.Context, bookingID int64) (ownerID int64, status string, err error)
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error)
}

type KostReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Kost, error)
}

// InventoryLedger is the room-counter contract consumed at creation and
// on every releasing transition.
type InventoryLedger interface {
	Reserve(ctx context.Context, kostID int64) error
	Release(ctx context.Context, kostID int64) error
}

type PaymentReader interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

// NotificationSender is fire-and-forget: failures are logged by callers
// and never block a state transition.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, ownerID, bookingID, kostID int64) error
	NotifyBookingConfirmed(ctx context.Context, seekerID, bookingID int64) error
	NotifyBookingRejected(ctx context.Context, seekerID, bookingID int64, reason string) error
	NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error
}
