package listing

import (
	"context"
	"errors"
	"strings"

	"kosthub/internal/domain"
	"kosthub/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	kosts KostRepository
}

func NewService(kosts KostRepository) *Service {
	return &Service{kosts: kosts}
}

// Create registers a new kost for moderation. Listings start pending and
// invisible to search until an admin approves them; the room counter
// starts full.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateKostRequest) (*domain.Kost, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	city := strings.TrimSpace(req.City)
	if name == "" || address == "" || city == "" {
		return nil, ErrValidation
	}
	if req.PriceMonthly <= 0 || req.TotalRooms < 1 {
		return nil, ErrValidation
	}

	k := &domain.Kost{
		OwnerID:        ownerID,
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		Address:        address,
		City:           city,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		PriceWeekly:    req.PriceWeekly,
		PriceMonthly:   req.PriceMonthly,
		PriceYearly:    req.PriceYearly,
		TotalRooms:     req.TotalRooms,
		AvailableRooms: req.TotalRooms,
		Status:         domain.KostPending,
	}
	if err := s.kosts.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

// Search lists approved kosts only.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]domain.Kost, int64, error) {
	return s.kosts.Search(ctx, repository.KostFilter{
		City:     strings.TrimSpace(q.City),
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		OnlyFree: q.OnlyFree,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
}

// GetDetail returns a kost. Unapproved listings are visible only to their
// owner and to admins; everyone else sees not found rather than a
// moderation state.
func (s *Service) GetDetail(ctx context.Context, id, actorID int64, role domain.UserRole) (*domain.Kost, error) {
	k, err := s.kosts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if k.Status != domain.KostApproved && k.OwnerID != actorID && role != domain.RoleAdmin {
		return nil, ErrNotFound
	}
	return k, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64) ([]domain.Kost, error) {
	return s.kosts.ListByOwner(ctx, ownerID)
}

// Delete archives a kost. Refused while pending, confirmed or checked-in
// bookings still reference it.
func (s *Service) Delete(ctx context.Context, id, actorID int64, role domain.UserRole) error {
	k, err := s.kosts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if k.OwnerID != actorID && role != domain.RoleAdmin {
		return ErrForbidden
	}

	hasActive, err := s.kosts.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if hasActive {
		return ErrHasActiveBookings
	}
	return nil
}
