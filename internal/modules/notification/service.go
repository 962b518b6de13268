package notification

import (
	"context"
	"fmt"

	"kosthub/internal/domain"
)

// Service fans user-facing events out to the in-app notification feed.
// It satisfies the sender interfaces the booking and admin modules
// consume; a failed insert is the caller's to log, never to fail on.
type Service struct {
	notifs NotificationRepository
}

func NewService(notifs NotificationRepository) *Service {
	return &Service{notifs: notifs}
}

func (s *Service) NotifyBookingCreated(ctx context.Context, ownerID, bookingID, kostID int64) error {
	return s.notifs.Create(ctx, &domain.Notification{
		UserID:  ownerID,
		Type:    domain.NotifBookingCreated,
		Title:   "Permintaan booking baru",
		Message: fmt.Sprintf("Booking #%d menunggu konfirmasi Anda.", bookingID),
	})
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, seekerID, bookingID int64) error {
	return s.notifs.Create(ctx, &domain.Notification{
		UserID:  seekerID,
		Type:    domain.NotifBookingConfirmed,
		Title:   "Booking dikonfirmasi",
		Message: fmt.Sprintf("Booking #%d telah dikonfirmasi pemilik kost.", bookingID),
	})
}

func (s *Service) NotifyBookingRejected(ctx context.Context, seekerID, bookingID int64, reason string) error {
	return s.notifs.Create(ctx, &domain.Notification{
		UserID:  seekerID,
		Type:    domain.NotifBookingRejected,
		Title:   "Booking ditolak",
		Message: fmt.Sprintf("Booking #%d ditolak: %s", bookingID, reason),
	})
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error {
	return s.notifs.Create(ctx, &domain.Notification{
		UserID:  userID,
		Type:    domain.NotifBookingCancelled,
		Title:   "Booking dibatalkan",
		Message: fmt.Sprintf("Booking #%d dibatalkan: %s", bookingID, reason),
	})
}

func (s *Service) NotifyKostApproved(ctx context.Context, ownerID, kostID int64) error {
	return s.notifs.Create(ctx, &domain.Notification{
		UserID:  ownerID,
		Type:    domain.NotifKostApproved,
		Title:   "Kost disetujui",
		Message: fmt.Sprintf("Kost #%d telah disetujui dan tampil di pencarian.", kostID),
	})
}

func (s *Service) NotifyKostRejected(ctx context.Context, ownerID, kostID int64, reason string) error {
	return s.notifs.Create(ctx, &domain.Notification{
		UserID:  ownerID,
		Type:    domain.NotifKostRejected,
		Title:   "Kost ditolak",
		Message: fmt.Sprintf("Kost #%d ditolak: %s", kostID, reason),
	})
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifs.ListByUser(ctx, userID, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notifs.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notifs.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notifs.MarkAllAsRead(ctx, userID)
}
