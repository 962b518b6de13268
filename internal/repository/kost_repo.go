package repository

import (
	"context"
	"time"

	"kosthub/internal/domain"

	"gorm.io/gorm"
)

type KostRepository struct {
	db *gorm.DB
}

func NewKostRepository(db *gorm.DB) *KostRepository {
	return &KostRepository{db: db}
}

func (r *KostRepository) DB() *gorm.DB {
	return r.db
}

type kostModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	OwnerID        int64      `gorm:"column:owner_id;index"`
	Name           string     `gorm:"column:name"`
	Description    *string    `gorm:"column:description"`
	Address        string     `gorm:"column:address"`
	City           string     `gorm:"column:city;index"`
	Latitude       *float64   `gorm:"column:latitude"`
	Longitude      *float64   `gorm:"column:longitude"`
	PriceWeekly    *float64   `gorm:"column:price_weekly"`
	PriceMonthly   float64    `gorm:"column:price_monthly"`
	PriceYearly    *float64   `gorm:"column:price_yearly"`
	TotalRooms     int        `gorm:"column:total_rooms"`
	AvailableRooms int        `gorm:"column:available_rooms"`
	Status         string     `gorm:"column:status;index"`
	RejectedReason *string    `gorm:"column:rejected_reason"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	DeletedAt      *time.Time `gorm:"column:deleted_at;index"`
}

func (kostModel) TableName() string { return "kosts" }

func toDomainKost(m kostModel) *domain.Kost {
	var desc, reason string
	if m.Description != nil {
		desc = *m.Description
	}
	if m.RejectedReason != nil {
		reason = *m.RejectedReason
	}

	return &domain.Kost{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		Description:    desc,
		Address:        m.Address,
		City:           m.City,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		PriceWeekly:    m.PriceWeekly,
		PriceMonthly:   m.PriceMonthly,
		PriceYearly:    m.PriceYearly,
		TotalRooms:     m.TotalRooms,
		AvailableRooms: m.AvailableRooms,
		Status:         domain.KostStatus(m.Status),
		RejectedReason: reason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      m.DeletedAt,
	}
}

func toKostModel(k *domain.Kost) kostModel {
	var desc, reason *string
	if k.Description != "" {
		v := k.Description
		desc = &v
	}
	if k.RejectedReason != "" {
		v := k.RejectedReason
		reason = &v
	}

	return kostModel{
		ID:             k.ID,
		OwnerID:        k.OwnerID,
		Name:           k.Name,
		Description:    desc,
		Address:        k.Address,
		City:           k.City,
		Latitude:       k.Latitude,
		Longitude:      k.Longitude,
		PriceWeekly:    k.PriceWeekly,
		PriceMonthly:   k.PriceMonthly,
		PriceYearly:    k.PriceYearly,
		TotalRooms:     k.TotalRooms,
		AvailableRooms: k.AvailableRooms,
		Status:         string(k.Status),
		RejectedReason: reason,
		CreatedAt:      k.CreatedAt,
		UpdatedAt:      k.UpdatedAt,
		DeletedAt:      k.DeletedAt,
	}
}

func (r *KostRepository) Create(ctx context.Context, k *domain.Kost) error {
	m := toKostModel(k)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*k = *toDomainKost(m)
	return nil
}

func (r *KostRepository) GetByID(ctx context.Context, id int64) (*domain.Kost, error) {
	var m kostModel
	tx := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainKost(m), nil
}

type KostFilter struct {
	City     string
	PriceMin *float64
	PriceMax *float64
	OnlyFree bool
	Limit    int
	Offset   int
}

// Search lists approved kosts matching the filter, newest first.
func (r *KostRepository) Search(ctx context.Context, f KostFilter) ([]domain.Kost, int64, error) {
	q := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("status = ? AND deleted_at IS NULL", string(domain.KostApproved))

	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.PriceMin != nil {
		q = q.Where("price_monthly >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price_monthly <= ?", *f.PriceMax)
	}
	if f.OnlyFree {
		q = q.Where("available_rooms > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []kostModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Kost, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainKost(m))
	}
	return out, total, nil
}

func (r *KostRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Kost, error) {
	var rows []kostModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Kost, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainKost(m))
	}
	return out, nil
}

func (r *KostRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.Kost, int64, error) {
	q := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("status = ? AND deleted_at IS NULL", string(domain.KostPending))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []kostModel
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Kost, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainKost(m))
	}
	return out, total, nil
}

func (r *KostRepository) UpdateStatus(ctx context.Context, id int64, status domain.KostStatus, reason string) error {
	updates := map[string]interface{}{"status": string(status)}
	if reason != "" {
		updates["rejected_reason"] = reason
	}
	res := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete archives a kost. Deletion is refused while active bookings
// still reference it; hasActive is reported so the caller can map the
// refusal to a client error.
func (r *KostRepository) SoftDelete(ctx context.Context, id int64) (hasActive bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Table("bookings").
			Where("kost_id = ? AND status IN ?", id,
				[]string{string(domain.BookingPending), string(domain.BookingConfirmed), string(domain.BookingCheckedIn)}).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			hasActive = true
			return nil
		}

		res := tx.Model(&kostModel{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", time.Now().UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return hasActive, err
}

// ReserveRoom claims one room with a single conditional decrement. The
// WHERE available_rooms > 0 predicate is what makes two racing reserves
// for the last room resolve to exactly one winner, even across multiple
// server processes.
func (r *KostRepository) ReserveRoom(ctx context.Context, kostID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("id = ? AND deleted_at IS NULL AND available_rooms > 0", kostID).
		Update("available_rooms", gorm.Expr("available_rooms - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseRoom returns one room, capped at total_rooms. A release that
// would exceed capacity affects zero rows; clamped=true lets the caller
// log it without failing the user-facing flow.
func (r *KostRepository) ReleaseRoom(ctx context.Context, kostID int64) (clamped bool, err error) {
	res := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("id = ? AND deleted_at IS NULL AND available_rooms < total_rooms", kostID).
		Update("available_rooms", gorm.Expr("available_rooms + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	var cnt int64
	if err := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("id = ? AND deleted_at IS NULL", kostID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return true, nil
}

// AdjustRooms applies an owner-initiated delta. The bounds live in the
// WHERE clause so a delta that would leave the counter outside
// [0, total_rooms] affects zero rows and nothing is partially applied.
func (r *KostRepository) AdjustRooms(ctx context.Context, kostID int64, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&kostModel{}).
		Where("id = ? AND deleted_at IS NULL AND available_rooms + ? >= 0 AND available_rooms + ? <= total_rooms",
			kostID, delta, delta).
		Update("available_rooms", gorm.Expr("available_rooms + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
