package admin

import (
	"context"

	"kosthub/internal/domain"
)

type KostModerationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Kost, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.Kost, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.KostStatus, reason string) error
}

type NotificationSender interface {
	NotifyKostApproved(ctx context.Context, ownerID, kostID int64) error
	NotifyKostRejected(ctx context.Context, ownerID, kostID int64, reason string) error
}
