package repository

import (
	"context"
	"time"

	"kosthub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyStatusIfPending advances a payment to a terminal status exactly
// once. The row is locked and the update guarded on status = 'pending',
// so a duplicate or out-of-order notification (and a concurrent PollStatus
// for the same order) can never overwrite a terminal status. changed=false
// means the notification was stale and must be acked without mutation.
func (r *PaymentRepository) ApplyStatusIfPending(ctx context.Context, orderID string, status domain.PaymentStatus, paymentType, rawBody string, settledAt *time.Time) (changed bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).First(&p).Error; err != nil {
			return err
		}
		if p.Status.IsTerminal() {
			changed = false
			return nil
		}

		updates := map[string]interface{}{
			"status":   string(status),
			"raw_body": rawBody,
		}
		if paymentType != "" {
			updates["payment_type"] = paymentType
		}
		if settledAt != nil {
			updates["settled_at"] = *settledAt
		}

		res := tx.Model(&domain.Payment{}).
			Where("order_id = ? AND status = ?", orderID, string(domain.PaymentPending)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected > 0
		return nil
	})
	return changed, err
}
