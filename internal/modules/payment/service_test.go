package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"kosthub/internal/domain"
	"kosthub/internal/pkg/midtrans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-test-key"

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	if p != nil && args.Error(0) == nil {
		p.ID = 777
	}
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ApplyStatusIfPending(ctx context.Context, orderID string, status domain.PaymentStatus, paymentType, rawBody string, settledAt *time.Time) (bool, error) {
	args := m.Called(ctx, orderID, status, paymentType, rawBody, settledAt)
	return args.Bool(0), args.Error(1)
}

type MockBookingReader struct {
	mock.Mock
}

func (m *MockBookingReader) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, orderID string, grossAmount float64, customer midtrans.Customer) (*midtrans.Transaction, error) {
	args := m.Called(ctx, orderID, grossAmount, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*midtrans.Transaction), args.Error(1)
}

func (m *MockGateway) GetStatus(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*midtrans.TransactionStatus), args.Error(1)
}

func newPaymentService() (*Service, *MockPaymentRepository, *MockBookingReader, *MockGateway) {
	payments := new(MockPaymentRepository)
	bookings := new(MockBookingReader)
	gateway := new(MockGateway)
	return NewService(payments, bookings, gateway, testServerKey), payments, bookings, gateway
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:         123,
		SeekerID:   42,
		KostID:     5,
		TotalPrice: 2000000,
		Status:     domain.BookingPending,
		GuestName:  "Budi Santoso",
		GuestEmail: "budi@example.com",
		GuestPhone: "+628123456789",
	}
}

func signedPayload(orderID, statusCode, grossAmount, transactionStatus string) NotificationPayload {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return NotificationPayload{
		OrderID:           orderID,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      hex.EncodeToString(sum[:]),
		TransactionStatus: transactionStatus,
		PaymentType:       "bank_transfer",
	}
}

func TestCreateIntent_Success(t *testing.T) {
	svc, payments, bookings, gateway := newPaymentService()

	bookings.On("GetByID", mock.Anything, int64(123)).Return(pendingBooking(), nil)
	payments.On("GetByBookingID", mock.Anything, int64(123)).Return(nil, gorm.ErrRecordNotFound)
	gateway.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(orderID string) bool {
		return strings.HasPrefix(orderID, "KOSTHUB-")
	}), 2000000.0, mock.Anything).Return(&midtrans.Transaction{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v3/redirection/snap-token",
	}, nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.CreateIntent(context.Background(), 123, 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, 2000000.0, p.GrossAmount)
	assert.True(t, strings.HasPrefix(p.OrderID, "KOSTHUB-"))
	assert.NotEmpty(t, p.RedirectURL)
}

func TestCreateIntent_IdempotentPerBooking(t *testing.T) {
	svc, payments, bookings, gateway := newPaymentService()

	existing := &domain.Payment{ID: 777, BookingID: 123, OrderID: "KOSTHUB-abc", Status: domain.PaymentPending}
	bookings.On("GetByID", mock.Anything, int64(123)).Return(pendingBooking(), nil)
	payments.On("GetByBookingID", mock.Anything, int64(123)).Return(existing, nil)

	p, err := svc.CreateIntent(context.Background(), 123, 42)

	assert.NoError(t, err)
	assert.Equal(t, "KOSTHUB-abc", p.OrderID)
	gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateIntent_ForbiddenForOtherSeeker(t *testing.T) {
	svc, _, bookings, _ := newPaymentService()

	bookings.On("GetByID", mock.Anything, int64(123)).Return(pendingBooking(), nil)

	_, err := svc.CreateIntent(context.Background(), 123, 7)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateIntent_NotPayableAfterConfirm(t *testing.T) {
	svc, _, bookings, _ := newPaymentService()

	b := pendingBooking()
	b.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, int64(123)).Return(b, nil)

	_, err := svc.CreateIntent(context.Background(), 123, 42)

	assert.ErrorIs(t, err, ErrBookingNotPayable)
}

func TestHandleNotification_InvalidSignatureNoMutation(t *testing.T) {
	svc, payments, _, _ := newPaymentService()

	payload := signedPayload("KOSTHUB-abc", "200", "2000000.00", "settlement")
	payload.SignatureKey = "deadbeef"

	err := svc.HandleNotification(context.Background(), payload, []byte(`{}`))

	assert.ErrorIs(t, err, ErrInvalidSignature)
	payments.AssertNotCalled(t, "ApplyStatusIfPending",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNotification_SettlementAppliedOnce(t *testing.T) {
	svc, payments, _, _ := newPaymentService()

	payload := signedPayload("KOSTHUB-abc", "200", "2000000.00", "settlement")
	payload.SettlementTime = "2027-06-01 10:30:00"

	payments.On("ApplyStatusIfPending",
		mock.Anything, "KOSTHUB-abc", domain.PaymentSuccess, "bank_transfer", mock.Anything, mock.Anything).
		Return(true, nil).Once()
	payments.On("ApplyStatusIfPending",
		mock.Anything, "KOSTHUB-abc", domain.PaymentSuccess, "bank_transfer", mock.Anything, mock.Anything).
		Return(false, nil).Once()

	// Delivery and its retry both ack; only the first changes the row.
	assert.NoError(t, svc.HandleNotification(context.Background(), payload, []byte(`{}`)))
	assert.NoError(t, svc.HandleNotification(context.Background(), payload, []byte(`{}`)))
	payments.AssertNumberOfCalls(t, "ApplyStatusIfPending", 2)
}

func TestHandleNotification_PendingStatusIsNoOp(t *testing.T) {
	svc, payments, _, _ := newPaymentService()

	payload := signedPayload("KOSTHUB-abc", "201", "2000000.00", "pending")

	err := svc.HandleNotification(context.Background(), payload, []byte(`{}`))

	assert.NoError(t, err)
	payments.AssertNotCalled(t, "ApplyStatusIfPending",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNotification_CaptureChallengeIsNoOp(t *testing.T) {
	svc, payments, _, _ := newPaymentService()

	payload := signedPayload("KOSTHUB-abc", "200", "2000000.00", "capture")
	payload.FraudStatus = "challenge"

	err := svc.HandleNotification(context.Background(), payload, []byte(`{}`))

	assert.NoError(t, err)
	payments.AssertNotCalled(t, "ApplyStatusIfPending",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNotification_DenyMapsToDenied(t *testing.T) {
	svc, payments, _, _ := newPaymentService()

	payload := signedPayload("KOSTHUB-abc", "202", "2000000.00", "deny")

	payments.On("ApplyStatusIfPending",
		mock.Anything, "KOSTHUB-abc", domain.PaymentDenied, "bank_transfer", mock.Anything, mock.Anything).
		Return(true, nil)

	assert.NoError(t, svc.HandleNotification(context.Background(), payload, []byte(`{}`)))
}

func TestHandleNotification_UnknownOrder(t *testing.T) {
	svc, payments, _, _ := newPaymentService()

	payload := signedPayload("KOSTHUB-missing", "200", "100.00", "settlement")

	payments.On("ApplyStatusIfPending",
		mock.Anything, "KOSTHUB-missing", domain.PaymentSuccess, "bank_transfer", mock.Anything, mock.Anything).
		Return(false, gorm.ErrRecordNotFound)

	err := svc.HandleNotification(context.Background(), payload, []byte(`{}`))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPollStatus_AppliesTerminalStatus(t *testing.T) {
	svc, payments, _, gateway := newPaymentService()

	pending := &domain.Payment{ID: 777, OrderID: "KOSTHUB-abc", Status: domain.PaymentPending}
	settled := &domain.Payment{ID: 777, OrderID: "KOSTHUB-abc", Status: domain.PaymentSuccess}

	payments.On("GetByOrderID", mock.Anything, "KOSTHUB-abc").Return(pending, nil).Once()
	gateway.On("GetStatus", mock.Anything, "KOSTHUB-abc").Return(&midtrans.TransactionStatus{
		OrderID:           "KOSTHUB-abc",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "2000000.00",
		PaymentType:       "qris",
		SettlementTime:    "2027-06-01 10:30:00",
	}, nil)
	payments.On("ApplyStatusIfPending",
		mock.Anything, "KOSTHUB-abc", domain.PaymentSuccess, "qris", mock.Anything, mock.Anything).
		Return(true, nil)
	payments.On("GetByOrderID", mock.Anything, "KOSTHUB-abc").Return(settled, nil)

	p, err := svc.PollStatus(context.Background(), "KOSTHUB-abc")

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, p.Status)
}

func TestPollStatus_PendingLeavesRowAlone(t *testing.T) {
	svc, payments, _, gateway := newPaymentService()

	pending := &domain.Payment{ID: 777, OrderID: "KOSTHUB-abc", Status: domain.PaymentPending}
	payments.On("GetByOrderID", mock.Anything, "KOSTHUB-abc").Return(pending, nil)
	gateway.On("GetStatus", mock.Anything, "KOSTHUB-abc").Return(&midtrans.TransactionStatus{
		OrderID:           "KOSTHUB-abc",
		TransactionStatus: "pending",
	}, nil)

	p, err := svc.PollStatus(context.Background(), "KOSTHUB-abc")

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	payments.AssertNotCalled(t, "ApplyStatusIfPending",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
