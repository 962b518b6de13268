package listing

import (
	"context"

	"kosthub/internal/domain"
	"kosthub/internal/repository"
)

type KostRepository interface {
	Create(ctx context.Context, k *domain.Kost) error
	GetByID(ctx context.Context, id int64) (*domain.Kost, error)
	Search(ctx context.Context, f repository.KostFilter) ([]domain.Kost, int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Kost, error)
	SoftDelete(ctx context.Context, id int64) (hasActive bool, err error)
}
