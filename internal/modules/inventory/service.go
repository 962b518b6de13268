package inventory

import (
	"context"
	"log"

	"kosthub/internal/domain"
)

// Service serializes every mutation of a kost's available_rooms counter
// through the repository's conditional updates. It holds no in-process
// state, so it is safe with any number of server instances: the storage
// layer is the only arbiter.
type Service struct {
	kosts KostInventoryRepository
}

func NewService(kosts KostInventoryRepository) *Service {
	return &Service{kosts: kosts}
}

// Reserve claims one room. Under concurrent calls for the last room,
// exactly one caller succeeds; the rest get ErrOutOfStock.
func (s *Service) Reserve(ctx context.Context, kostID int64) error {
	ok, err := s.kosts.ReserveRoom(ctx, kostID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOutOfStock
	}
	return nil
}

// Release returns one room. A release beyond total_rooms is a programmer
// error upstream; it is logged and clamped rather than surfaced, because
// it must never block a cancellation or rejection.
func (s *Service) Release(ctx context.Context, kostID int64) error {
	clamped, err := s.kosts.ReleaseRoom(ctx, kostID)
	if err != nil {
		return err
	}
	if clamped {
		log.Printf("level=warn msg=inventory release clamped at capacity kost_id=%d", kostID)
	}
	return nil
}

// Adjust applies an owner-initiated delta (e.g. taking a room offline for
// maintenance). Ownership is verified first; the bounds check itself
// happens inside the conditional update.
func (s *Service) Adjust(ctx context.Context, kostID, actorID int64, delta int) (*domain.Kost, error) {
	k, err := s.kosts.GetByID(ctx, kostID)
	if err != nil {
		return nil, err
	}
	if k.OwnerID != actorID {
		return nil, ErrForbidden
	}

	ok, err := s.kosts.AdjustRooms(ctx, kostID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBoundsViolation
	}

	return s.kosts.GetByID(ctx, kostID)
}
