package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"kosthub/internal/domain"
	"kosthub/internal/pkg/midtrans"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const settlementTimeLayout = "2006-01-02 15:04:05"

type Service struct {
	payments  PaymentRepository
	bookings  BookingReader
	gateway   Gateway
	serverKey string
}

func NewService(payments PaymentRepository, bookings BookingReader, gateway Gateway, serverKey string) *Service {
	return &Service{
		payments:  payments,
		bookings:  bookings,
		gateway:   gateway,
		serverKey: serverKey,
	}
}

// CreateIntent opens a gateway transaction for a pending booking and
// persists the 1:1 payment row. Idempotent per booking: a repeat call
// returns the existing payment instead of opening a second order.
func (s *Service) CreateIntent(ctx context.Context, bookingID, actorID int64) (*domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.SeekerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrBookingNotPayable
	}

	if existing, err := s.payments.GetByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	orderID := "KOSTHUB-" + uuid.NewString()
	tx, err := s.gateway.CreateTransaction(ctx, orderID, b.TotalPrice, midtrans.Customer{
		Name:  b.GuestName,
		Email: b.GuestEmail,
		Phone: b.GuestPhone,
	})
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		BookingID:   bookingID,
		OrderID:     orderID,
		GrossAmount: b.TotalPrice,
		Status:      domain.PaymentPending,
		RedirectURL: tx.RedirectURL,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			// A concurrent intent won the booking_id unique index.
			return s.payments.GetByBookingID(ctx, bookingID)
		}
		return nil, err
	}
	return p, nil
}

// HandleNotification is the webhook entry point. The signature is checked
// before any read or write; a valid but stale or duplicate notification is
// acked without mutation via the pending-guarded update.
func (s *Service) HandleNotification(ctx context.Context, payload NotificationPayload, rawBody []byte) error {
	if !s.verifySignature(payload) {
		return ErrInvalidSignature
	}

	status, terminal := mapGatewayStatus(payload.TransactionStatus, payload.FraudStatus)
	if !terminal {
		// The gateway re-announced pending; nothing to reconcile.
		log.Printf("level=info msg=payment notification still pending order_id=%s", payload.OrderID)
		return nil
	}

	var settledAt *time.Time
	if payload.SettlementTime != "" {
		if t, err := time.Parse(settlementTimeLayout, payload.SettlementTime); err == nil {
			settledAt = &t
		}
	}

	changed, err := s.payments.ApplyStatusIfPending(ctx, payload.OrderID, status, payload.PaymentType, string(rawBody), settledAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !changed {
		log.Printf("level=info msg=stale payment notification ignored order_id=%s status=%s", payload.OrderID, status)
		return nil
	}

	log.Printf("level=info msg=payment reconciled order_id=%s status=%s type=%s", payload.OrderID, status, payload.PaymentType)
	return nil
}

// PollStatus asks the gateway for the current transaction status and
// applies it through the same forward-progress write the webhook uses.
// Safe to race with a concurrent notification for the same order.
func (s *Service) PollStatus(ctx context.Context, orderID string) (*domain.Payment, error) {
	if _, err := s.payments.GetByOrderID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	st, err := s.gateway.GetStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}

	status, terminal := mapGatewayStatus(st.TransactionStatus, "")
	if terminal {
		var settledAt *time.Time
		if st.SettlementTime != "" {
			if t, perr := time.Parse(settlementTimeLayout, st.SettlementTime); perr == nil {
				settledAt = &t
			}
		}
		raw, _ := json.Marshal(st)
		if _, err := s.payments.ApplyStatusIfPending(ctx, orderID, status, st.PaymentType, string(raw), settledAt); err != nil {
			return nil, err
		}
	}

	return s.payments.GetByOrderID(ctx, orderID)
}

func (s *Service) GetByBookingID(ctx context.Context, bookingID, actorID int64) (*domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.SeekerID != actorID {
		return nil, ErrForbidden
	}
	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// verifySignature recomputes sha512(order_id + status_code + gross_amount
// + server_key) and compares it in constant time against the payload's
// signature_key.
func (s *Service) verifySignature(payload NotificationPayload) bool {
	sum := sha512.Sum512([]byte(payload.OrderID + payload.StatusCode + payload.GrossAmount + s.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(payload.SignatureKey)) == 1
}

// mapGatewayStatus translates gateway transaction statuses into the local
// payment statuses. terminal=false means the transaction has not resolved
// yet and no write should happen.
func mapGatewayStatus(transactionStatus, fraudStatus string) (domain.PaymentStatus, bool) {
	switch transactionStatus {
	case "settlement":
		return domain.PaymentSuccess, true
	case "capture":
		if fraudStatus == "challenge" {
			return domain.PaymentPending, false
		}
		return domain.PaymentSuccess, true
	case "deny":
		return domain.PaymentDenied, true
	case "expire":
		return domain.PaymentExpired, true
	case "cancel", "failure":
		return domain.PaymentFailed, true
	default:
		return domain.PaymentPending, false
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
