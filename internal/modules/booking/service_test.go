package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kosthub/internal/domain"
	"kosthub/internal/modules/inventory"
	"kosthub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil && args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatusIf(ctx context.Context, bookingID int64, from, to domain.BookingStatus, reason string) (bool, error) {
	args := m.Called(ctx, bookingID, from, to, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ListBySeeker(ctx context.Context, seekerID int64, limit, offset int) ([]repository.SeekerBookingRow, error) {
	args := m.Called(ctx, seekerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SeekerBookingRow), args.Error(1)
}

func (m *MockBookingRepository) ListByKost(ctx context.Context, kostID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, kostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetKostOwnerForBooking(ctx context.Context, bookingID int64) (int64, string, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

func (m *MockBookingRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockKostReader struct {
	mock.Mock
}

func (m *MockKostReader) GetByID(ctx context.Context, id int64) (*domain.Kost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Kost), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Reserve(ctx context.Context, kostID int64) error {
	args := m.Called(ctx, kostID)
	return args.Error(0)
}

func (m *MockLedger) Release(ctx context.Context, kostID int64) error {
	args := m.Called(ctx, kostID)
	return args.Error(0)
}

type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingCreated(ctx context.Context, ownerID, bookingID, kostID int64) error {
	args := m.Called(ctx, ownerID, bookingID, kostID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyBookingConfirmed(ctx context.Context, seekerID, bookingID int64) error {
	args := m.Called(ctx, seekerID, bookingID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyBookingRejected(ctx context.Context, seekerID, bookingID int64, reason string) error {
	args := m.Called(ctx, seekerID, bookingID, reason)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error {
	args := m.Called(ctx, userID, bookingID, reason)
	return args.Error(0)
}

type serviceMocks struct {
	bookings *MockBookingRepository
	kosts    *MockKostReader
	ledger   *MockLedger
	payments *MockPaymentReader
	notifs   *MockNotificationSender
}

func newServiceWithMocks() (*Service, serviceMocks) {
	m := serviceMocks{
		bookings: new(MockBookingRepository),
		kosts:    new(MockKostReader),
		ledger:   new(MockLedger),
		payments: new(MockPaymentReader),
		notifs:   new(MockNotificationSender),
	}
	return NewService(m.bookings, m.kosts, m.ledger, m.payments, m.notifs), m
}

func approvedKost() *domain.Kost {
	return &domain.Kost{
		ID:             5,
		OwnerID:        1,
		Name:           "Kost Melati",
		PriceMonthly:   1000000,
		TotalRooms:     5,
		AvailableRooms: 5,
		Status:         domain.KostApproved,
	}
}

func validCreateRequest() CreateBookingRequest {
	return CreateBookingRequest{
		KostID:       5,
		CheckInDate:  "2027-06-01",
		DurationType: "monthly",
		Duration:     2,
		GuestName:    "Budi Santoso",
		GuestEmail:   "budi@example.com",
		GuestPhone:   "+628123456789",
	}
}

func TestCreate_Success(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.kosts.On("GetByID", mock.Anything, int64(5)).Return(approvedKost(), nil)
	m.ledger.On("Reserve", mock.Anything, int64(5)).Return(nil)
	m.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(999)).Return(int64(1), "pending", nil)
	m.notifs.On("NotifyBookingCreated", mock.Anything, int64(1), int64(999), int64(5)).Return(nil)

	b, err := svc.Create(context.Background(), 42, validCreateRequest())

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 2000000.0, b.TotalPrice)
	assert.Equal(t, "2027-08-01", b.CheckOutDate.Format("2006-01-02"))
	assert.True(t, strings.HasPrefix(b.Code, "KST-"))
	assert.Equal(t, int64(42), b.SeekerID)
	m.ledger.AssertNumberOfCalls(t, "Reserve", 1)
}

func TestCreate_OutOfStock(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.kosts.On("GetByID", mock.Anything, int64(5)).Return(approvedKost(), nil)
	m.ledger.On("Reserve", mock.Anything, int64(5)).Return(inventory.ErrOutOfStock)

	_, err := svc.Create(context.Background(), 42, validCreateRequest())

	assert.ErrorIs(t, err, inventory.ErrOutOfStock)
	m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _ := newServiceWithMocks()

	past := validCreateRequest()
	past.CheckInDate = "2020-01-01"
	_, err := svc.Create(context.Background(), 42, past)
	assert.ErrorIs(t, err, ErrValidation)

	badDuration := validCreateRequest()
	badDuration.Duration = 0
	_, err = svc.Create(context.Background(), 42, badDuration)
	assert.ErrorIs(t, err, ErrValidation)

	noGuest := validCreateRequest()
	noGuest.GuestName = "   "
	_, err = svc.Create(context.Background(), 42, noGuest)
	assert.ErrorIs(t, err, ErrValidation)

	badType := validCreateRequest()
	badType.DurationType = "daily"
	_, err = svc.Create(context.Background(), 42, badType)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_WeeklyFallbackPrice(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.kosts.On("GetByID", mock.Anything, int64(5)).Return(approvedKost(), nil)
	m.ledger.On("Reserve", mock.Anything, int64(5)).Return(nil)
	m.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(999)).Return(int64(1), "pending", nil)
	m.notifs.On("NotifyBookingCreated", mock.Anything, int64(1), int64(999), int64(5)).Return(nil)

	req := validCreateRequest()
	req.DurationType = "weekly"
	req.Duration = 3

	b, err := svc.Create(context.Background(), 42, req)

	assert.NoError(t, err)
	// monthly/4 fallback: 250000 * 3
	assert.Equal(t, 750000.0, b.TotalPrice)
	assert.Equal(t, "2027-06-22", b.CheckOutDate.Format("2006-01-02"))
}

func TestCreate_CompensatesReserveOnInsertFailure(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.kosts.On("GetByID", mock.Anything, int64(5)).Return(approvedKost(), nil)
	m.ledger.On("Reserve", mock.Anything, int64(5)).Return(nil)
	m.bookings.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	m.ledger.On("Release", mock.Anything, int64(5)).Return(nil)

	_, err := svc.Create(context.Background(), 42, validCreateRequest())

	assert.Error(t, err)
	m.ledger.AssertCalled(t, "Release", mock.Anything, int64(5))
}

func TestConfirm_Success(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "pending", nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).
		Return(&domain.Payment{BookingID: 123, Status: domain.PaymentSuccess}, nil)
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingPending, domain.BookingConfirmed, "").
		Return(true, nil)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, SeekerID: 42, Status: domain.BookingConfirmed}, nil)
	m.notifs.On("NotifyBookingConfirmed", mock.Anything, int64(42), int64(123)).Return(nil)

	b, err := svc.Confirm(context.Background(), 123, 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestConfirm_NoPayment(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "pending", nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Confirm(context.Background(), 123, 1)

	assert.ErrorIs(t, err, ErrPaymentNotComplete)
	m.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_PaymentStillPending(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "pending", nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).
		Return(&domain.Payment{BookingID: 123, Status: domain.PaymentPending}, nil)

	_, err := svc.Confirm(context.Background(), 123, 1)

	assert.ErrorIs(t, err, ErrPaymentNotComplete)
}

func TestConfirm_SecondCallInvalidState(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "confirmed", nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).
		Return(&domain.Payment{BookingID: 123, Status: domain.PaymentSuccess}, nil)
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingPending, domain.BookingConfirmed, "").
		Return(false, nil)

	_, err := svc.Confirm(context.Background(), 123, 1)

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestConfirm_Forbidden(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "pending", nil)

	_, err := svc.Confirm(context.Background(), 123, 2)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReject_RequiresReason(t *testing.T) {
	svc, _ := newServiceWithMocks()

	_, err := svc.Reject(context.Background(), 123, 1, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReject_SucceedsWithoutPaymentAndReleasesInventory(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "pending", nil)
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingPending, domain.BookingRejected, "Kamar sudah terisi").
		Return(true, nil)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, SeekerID: 42, Status: domain.BookingRejected}, nil)
	m.ledger.On("Release", mock.Anything, int64(5)).Return(nil)
	m.notifs.On("NotifyBookingRejected", mock.Anything, int64(42), int64(123), "Kamar sudah terisi").Return(nil)

	b, err := svc.Reject(context.Background(), 123, 1, "Kamar sudah terisi")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingRejected, b.Status)
	m.ledger.AssertNumberOfCalls(t, "Release", 1)
}

func TestReject_RetryIsNoOpForInventory(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "rejected", nil)
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingPending, domain.BookingRejected, "retry").
		Return(false, nil)

	_, err := svc.Reject(context.Background(), 123, 1, "retry")

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	m.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCancel_ForbiddenForOtherSeeker(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, SeekerID: 42, Status: domain.BookingPending}, nil)

	_, err := svc.Cancel(context.Background(), 123, 7, "berubah pikiran")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancel_ConfirmedBeforeCheckIn(t *testing.T) {
	svc, m := newServiceWithMocks()

	checkIn := time.Now().UTC().AddDate(0, 1, 0)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, SeekerID: 42, Status: domain.BookingConfirmed, CheckInDate: checkIn}, nil).Once()
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingConfirmed, domain.BookingCancelled, "pindah kota").
		Return(true, nil)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, SeekerID: 42, Status: domain.BookingCancelled}, nil)
	m.ledger.On("Release", mock.Anything, int64(5)).Return(nil)
	m.notifs.On("NotifyBookingCancelled", mock.Anything, int64(42), int64(123), "pindah kota").Return(nil)

	b, err := svc.Cancel(context.Background(), 123, 42, "pindah kota")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	m.ledger.AssertNumberOfCalls(t, "Release", 1)
}

func TestCancel_ConfirmedAfterCheckInRejected(t *testing.T) {
	svc, m := newServiceWithMocks()

	checkIn := time.Now().UTC().AddDate(0, 0, -1)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, SeekerID: 42, Status: domain.BookingConfirmed, CheckInDate: checkIn}, nil)

	_, err := svc.Cancel(context.Background(), 123, 42, "terlambat")

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	m.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCancel_TerminalStateRejected(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, SeekerID: 42, Status: domain.BookingRejected}, nil)

	_, err := svc.Cancel(context.Background(), 123, 42, "sudah ditolak")

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestExpireUnpaid_CancelsAndReleases(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, SeekerID: 42, Status: domain.BookingPending}, nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).Return(nil, gorm.ErrRecordNotFound)
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingPending, domain.BookingCancelled, mock.Anything).
		Return(true, nil)
	m.ledger.On("Release", mock.Anything, int64(5)).Return(nil)
	m.notifs.On("NotifyBookingCancelled", mock.Anything, int64(42), int64(123), mock.Anything).Return(nil)

	err := svc.ExpireUnpaid(context.Background(), 123)

	assert.NoError(t, err)
	m.ledger.AssertNumberOfCalls(t, "Release", 1)
}

func TestExpireUnpaid_AlreadyCancelledIsNoOp(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, Status: domain.BookingCancelled}, nil)

	err := svc.ExpireUnpaid(context.Background(), 123)

	assert.NoError(t, err)
	m.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestExpireUnpaid_PaidBookingLeftForOwner(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, Status: domain.BookingPending}, nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).
		Return(&domain.Payment{BookingID: 123, Status: domain.PaymentSuccess}, nil)

	err := svc.ExpireUnpaid(context.Background(), 123)

	assert.NoError(t, err)
	m.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExpireUnpaid_LosesRaceToConfirm(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, KostID: 5, Status: domain.BookingPending}, nil)
	m.payments.On("GetByBookingID", mock.Anything, int64(123)).Return(nil, gorm.ErrRecordNotFound)
	// Concurrent confirm moved the row first; the guarded update misses.
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingPending, domain.BookingCancelled, mock.Anything).
		Return(false, nil)

	err := svc.ExpireUnpaid(context.Background(), 123)

	assert.NoError(t, err)
	m.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestExpireStale_SweepsBatch(t *testing.T) {
	svc, m := newServiceWithMocks()

	stale := []domain.Booking{{ID: 1, KostID: 5}, {ID: 2, KostID: 6}}
	m.bookings.On("ListExpiredPending", mock.Anything, mock.Anything, 100).Return(stale, nil)
	for _, b := range stale {
		m.bookings.On("GetByID", mock.Anything, b.ID).
			Return(&domain.Booking{ID: b.ID, KostID: b.KostID, SeekerID: 42, Status: domain.BookingPending}, nil)
		m.payments.On("GetByBookingID", mock.Anything, b.ID).Return(nil, gorm.ErrRecordNotFound)
		m.bookings.On("UpdateStatusIf", mock.Anything, b.ID, domain.BookingPending, domain.BookingCancelled, mock.Anything).
			Return(true, nil)
		m.ledger.On("Release", mock.Anything, b.KostID).Return(nil)
		m.notifs.On("NotifyBookingCancelled", mock.Anything, int64(42), b.ID, mock.Anything).Return(nil)
	}

	n, err := svc.ExpireStale(context.Background(), 24*time.Hour, 100)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCheckIn_BeforeDateRejected(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "confirmed", nil)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, Status: domain.BookingConfirmed, CheckInDate: time.Now().UTC().AddDate(0, 0, 5)}, nil)

	_, err := svc.CheckIn(context.Background(), 123, 1)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckOut_FromCheckedIn(t *testing.T) {
	svc, m := newServiceWithMocks()

	m.bookings.On("GetKostOwnerForBooking", mock.Anything, int64(123)).Return(int64(1), "checked_in", nil)
	m.bookings.On("UpdateStatusIf", mock.Anything, int64(123), domain.BookingCheckedIn, domain.BookingCheckedOut, "").
		Return(true, nil)
	m.bookings.On("GetByID", mock.Anything, int64(123)).
		Return(&domain.Booking{ID: 123, Status: domain.BookingCheckedOut}, nil)

	b, err := svc.CheckOut(context.Background(), 123, 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedOut, b.Status)
	m.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}
