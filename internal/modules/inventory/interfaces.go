package inventory

import (
	"context"

	"kosthub/internal/domain"
)

// KostInventoryRepository is the storage contract for the room counter.
// Every mutation must be a single atomic conditional update; the boolean
// result reports whether the predicate matched.
type KostInventoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Kost, error)
	ReserveRoom(ctx context.Context, kostID int64) (bool, error)
	ReleaseRoom(ctx context.Context, kostID int64) (clamped bool, err error)
	AdjustRooms(ctx context.Context, kostID int64, delta int) (bool, error)
}
