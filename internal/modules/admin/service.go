package admin

import (
	"context"
	"errors"
	"strings"

	"kosthub/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	kosts  KostModerationRepository
	notifs NotificationSender
}

func NewService(kosts KostModerationRepository, notifs NotificationSender) *Service {
	return &Service{kosts: kosts, notifs: notifs}
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]domain.Kost, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.kosts.ListPending(ctx, limit, offset)
}

// Approve moves a pending kost into search visibility.
func (s *Service) Approve(ctx context.Context, kostID int64) (*domain.Kost, error) {
	return s.moderate(ctx, kostID, domain.KostApproved, "")
}

// Reject returns a kost to its owner with a mandatory reason.
func (s *Service) Reject(ctx context.Context, kostID int64, reason string) (*domain.Kost, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrValidation
	}
	return s.moderate(ctx, kostID, domain.KostRejected, reason)
}

func (s *Service) moderate(ctx context.Context, kostID int64, to domain.KostStatus, reason string) (*domain.Kost, error) {
	k, err := s.kosts.GetByID(ctx, kostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if k.Status != domain.KostPending {
		return nil, ErrInvalidState
	}

	if err := s.kosts.UpdateStatus(ctx, kostID, to, reason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.notifs != nil {
		switch to {
		case domain.KostApproved:
			_ = s.notifs.NotifyKostApproved(ctx, k.OwnerID, k.ID)
		case domain.KostRejected:
			_ = s.notifs.NotifyKostRejected(ctx, k.OwnerID, k.ID, reason)
		}
	}

	return s.kosts.GetByID(ctx, kostID)
}
