package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	var c domain.Contact
	tx := r.db.WithContext(ctx).Preload("Company").First(&c, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *ContactRepository) List(ctx context.Context, search string, companyID int64, limit, offset int) ([]domain.Contact, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Contact{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if companyID != 0 {
		q = q.Where("company_id = ?", companyID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []domain.Contact
	if err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	c.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, id).Error
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&domain.Contact{}).Count(&cnt)
	return cnt, tx.Error
}

func (r *ContactRepository) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	var c domain.Contact
	tx := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}
