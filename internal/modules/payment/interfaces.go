package payment

import (
	"context"
	"time"

	"kosthub/internal/domain"
	"kosthub/internal/pkg/midtrans"
)

// PaymentRepository is the reconciliation adapter's storage contract.
// ApplyStatusIfPending is the forward-progress-only write every inbound
// status goes through.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	ApplyStatusIfPending(ctx context.Context, orderID string, status domain.PaymentStatus, paymentType, rawBody string, settledAt *time.Time) (bool, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// Gateway abstracts the Snap API so tests can drive reconciliation
// without network calls.
type Gateway interface {
	CreateTransaction(ctx context.Context, orderID string, grossAmount float64, customer midtrans.Customer) (*midtrans.Transaction, error)
	GetStatus(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error)
}
