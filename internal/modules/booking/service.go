package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"kosthub/internal/domain"
	"kosthub/internal/pkg/bookingcode"
	"kosthub/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const expiredUnpaidReason = "Dibatalkan otomatis: pembayaran tidak diterima dalam batas waktu"

type Service struct {
	bookings BookingRepository
	kosts    KostReader
	ledger   InventoryLedger
	payments PaymentReader
	notifs   NotificationSender
}

func NewService(
	bookings BookingRepository,
	kosts KostReader,
	ledger InventoryLedger,
	payments PaymentReader,
	notifs NotificationSender,
) *Service {
	return &Service{
		bookings: bookings,
		kosts:    kosts,
		ledger:   ledger,
		payments: payments,
		notifs:   notifs,
	}
}

// Create validates the request, computes the check-out date and total
// price once, claims one room from the ledger and persists the booking in
// pending state. The room claim is compensated if the row insert fails, so
// a failed create never leaves a ghost decrement.
func (s *Service) Create(ctx context.Context, seekerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	checkIn, err := time.Parse("2006-01-02", req.CheckInDate)
	if err != nil {
		return nil, ErrValidation
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, ErrValidation
	}
	if req.Duration < 1 {
		return nil, ErrValidation
	}
	if strings.TrimSpace(req.GuestName) == "" ||
		strings.TrimSpace(req.GuestEmail) == "" ||
		strings.TrimSpace(req.GuestPhone) == "" {
		return nil, ErrValidation
	}

	dt := domain.DurationType(req.DurationType)
	checkOut, ok := addDuration(checkIn, dt, req.Duration)
	if !ok {
		return nil, ErrValidation
	}

	k, err := s.kosts.GetByID(ctx, req.KostID)
	if err != nil {
		return nil, err
	}
	if k.Status != domain.KostApproved {
		return nil, ErrNotFound
	}

	rate, ok := k.PriceFor(dt)
	if !ok {
		return nil, ErrValidation
	}
	total := math.Round(rate*float64(req.Duration)*100) / 100

	if err := s.ledger.Reserve(ctx, req.KostID); err != nil {
		return nil, err
	}

	b := &domain.Booking{
		Code:         bookingcode.New(time.Now().UTC()),
		KostID:       req.KostID,
		SeekerID:     seekerID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		DurationType: dt,
		Duration:     req.Duration,
		TotalPrice:   total,
		Status:       domain.BookingPending,
		GuestName:    strings.TrimSpace(req.GuestName),
		GuestEmail:   strings.TrimSpace(req.GuestEmail),
		GuestPhone:   strings.TrimSpace(req.GuestPhone),
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if isUniqueViolation(err) {
			// Booking code collision; one retry with a fresh code.
			b.Code = bookingcode.New(time.Now().UTC())
			err = s.bookings.Create(ctx, b)
		}
		if err != nil {
			if rerr := s.ledger.Release(ctx, req.KostID); rerr != nil {
				log.Printf("level=error msg=failed to compensate reserve after create failure kost_id=%d err=%v", req.KostID, rerr)
			}
			return nil, err
		}
	}

	if s.notifs != nil {
		ownerID, _, err := s.bookings.GetKostOwnerForBooking(ctx, b.ID)
		if err == nil && ownerID > 0 {
			_ = s.notifs.NotifyBookingCreated(ctx, ownerID, b.ID, b.KostID)
		}
	}

	return b, nil
}

// Confirm moves pending -> confirmed. Only the kost owner may confirm, and
// only once the linked payment has reached success.
func (s *Service) Confirm(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	if err := s.authorizeOwner(ctx, bookingID, actorID); err != nil {
		return nil, err
	}

	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotComplete
		}
		return nil, err
	}
	if p.Status != domain.PaymentSuccess {
		return nil, ErrPaymentNotComplete
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, bookingID, domain.BookingPending, domain.BookingConfirmed, "")
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStatusTransition
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingConfirmed(ctx, b.SeekerID, b.ID)
	}
	return b, nil
}

// Reject moves pending -> rejected and returns the room claim to the
// ledger. A reason is mandatory; a completed payment is not (the owner may
// turn down an unpaid request).
func (s *Service) Reject(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrValidation
	}
	if err := s.authorizeOwner(ctx, bookingID, actorID); err != nil {
		return nil, err
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, bookingID, domain.BookingPending, domain.BookingRejected, reason)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStatusTransition
	}

	s.releaseForBooking(ctx, bookingID)

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingRejected(ctx, b.SeekerID, b.ID, reason)
	}
	return b, nil
}

// Cancel is the seeker-initiated exit. Permitted from pending, and from
// confirmed until the check-in date; the status guard on the update means
// a retried cancel releases inventory at most once.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrValidation
	}

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
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		return nil, ErrInvalidStatusTransition
	}
	if b.Status == domain.BookingConfirmed && !time.Now().UTC().Before(b.CheckInDate) {
		return nil, ErrInvalidStatusTransition
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, bookingID, b.Status, domain.BookingCancelled, reason)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStatusTransition
	}

	s.releaseForBooking(ctx, bookingID)

	out, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, out.SeekerID, out.ID, reason)
	}
	return out, nil
}

// ExpireUnpaid cancels a pending booking whose payment never completed.
// Idempotent: a booking that already left pending (including one a
// concurrent Confirm just won) makes the guarded update affect zero rows,
// and the call is a no-op.
func (s *Service) ExpireUnpaid(ctx context.Context, bookingID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if b.Status != domain.BookingPending {
		return nil
	}

	if p, err := s.payments.GetByBookingID(ctx, bookingID); err == nil && p.Status == domain.PaymentSuccess {
		// Paid but not yet confirmed; leave it for the owner.
		return nil
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, bookingID, domain.BookingPending, domain.BookingCancelled, expiredUnpaidReason)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	s.releaseForBooking(ctx, bookingID)

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, b.SeekerID, b.ID, expiredUnpaidReason)
	}
	return nil
}

// ExpireStale sweeps pending bookings older than ttl. Used by the
// booking_sweep binary; safe to run concurrently with user traffic.
func (s *Service) ExpireStale(ctx context.Context, ttl time.Duration, limit int) (int, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	stale, err := s.bookings.ListExpiredPending(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		if err := s.ExpireUnpaid(ctx, b.ID); err != nil {
			log.Printf("level=error msg=expire unpaid booking failed booking_id=%d err=%v", b.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// CheckIn moves confirmed -> checked_in once the check-in date is reached.
func (s *Service) CheckIn(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	if err := s.authorizeOwner(ctx, bookingID, actorID); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().Before(b.CheckInDate) {
		return nil, ErrValidation
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, bookingID, domain.BookingConfirmed, domain.BookingCheckedIn, "")
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStatusTransition
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// CheckOut moves checked_in -> checked_out. The room claim was permanent
// for the stay; the counter is not touched here, owners free rooms again
// through the manual adjustment.
func (s *Service) CheckOut(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	if err := s.authorizeOwner(ctx, bookingID, actorID); err != nil {
		return nil, err
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, bookingID, domain.BookingCheckedIn, domain.BookingCheckedOut, "")
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStatusTransition
	}
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) GetMyBookings(ctx context.Context, seekerID int64, limit, offset int) ([]repository.SeekerBookingRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListBySeeker(ctx, seekerID, limit, offset)
}

func (s *Service) GetKostBookings(ctx context.Context, kostID, actorID int64) ([]domain.Booking, error) {
	k, err := s.kosts.GetByID(ctx, kostID)
	if err != nil {
		return nil, err
	}
	if k.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByKost(ctx, kostID)
}

func (s *Service) authorizeOwner(ctx context.Context, bookingID, actorID int64) error {
	ownerID, status, err := s.bookings.GetKostOwnerForBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if ownerID == 0 && status == "" {
		return ErrNotFound
	}
	if ownerID != actorID {
		return ErrForbidden
	}
	return nil
}

// releaseForBooking returns the booking's single room claim. The ledger
// is a best-effort derived counter: failures are logged, never surfaced,
// because booking status is the source of truth.
func (s *Service) releaseForBooking(ctx context.Context, bookingID int64) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		log.Printf("level=error msg=release lookup failed booking_id=%d err=%v", bookingID, err)
		return
	}
	if err := s.ledger.Release(ctx, b.KostID); err != nil {
		log.Printf("level=error msg=inventory release failed booking_id=%d kost_id=%d err=%v", bookingID, b.KostID, err)
	}
}

func addDuration(checkIn time.Time, dt domain.DurationType, n int) (time.Time, bool) {
	switch dt {
	case domain.DurationWeekly:
		return checkIn.AddDate(0, 0, 7*n), true
	case domain.DurationMonthly:
		return checkIn.AddDate(0, n, 0), true
	case domain.DurationYearly:
		return checkIn.AddDate(n, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
