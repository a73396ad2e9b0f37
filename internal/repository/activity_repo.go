package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type ActivityFilter struct {
	ContactID int64
	DealID    int64
	UserID    int64
	Type      string
	Limit     int
	Offset    int
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	var a domain.Activity
	tx := r.db.WithContext(ctx).First(&a, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &a, nil
}

func (r *ActivityRepository) List(ctx context.Context, f ActivityFilter) ([]domain.Activity, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Activity{})
	if f.ContactID != 0 {
		q = q.Where("contact_id = ?", f.ContactID)
	}
	if f.DealID != 0 {
		q = q.Where("deal_id = ?", f.DealID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var activities []domain.Activity
	if err := q.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	a.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Activity{}, id).Error
}

func (r *ActivityRepository) MarkDone(ctx context.Context, id int64, done bool) error {
	res := r.db.WithContext(ctx).Model(&domain.Activity{}).
		Where("id = ?", id).
		Updates(map[string]any{"done": done, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	var activities []domain.Activity
	tx := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&activities)
	return activities, tx.Error
}
