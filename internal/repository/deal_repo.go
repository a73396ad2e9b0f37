package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

type dealModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	Title             string     `gorm:"column:title"`
	Value             float64    `gorm:"column:value"`
	Stage             string     `gorm:"column:stage;index"`
	PipelineID        int64      `gorm:"column:pipeline_id;index"`
	ContactID         *int64     `gorm:"column:contact_id"`
	CompanyID         *int64     `gorm:"column:company_id"`
	OwnerID           int64      `gorm:"column:owner_id"`
	ExpectedCloseDate *time.Time `gorm:"column:expected_close_date"`
	Description       *string    `gorm:"column:description"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (dealModel) TableName() string { return "deals" }

func toDomainDeal(m dealModel) domain.Deal {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return domain.Deal{
		ID:                m.ID,
		Title:             m.Title,
		Value:             m.Value,
		Stage:             m.Stage,
		PipelineID:        m.PipelineID,
		ContactID:         m.ContactID,
		CompanyID:         m.CompanyID,
		OwnerID:           m.OwnerID,
		ExpectedCloseDate: m.ExpectedCloseDate,
		Description:       desc,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toDealModel(d *domain.Deal) dealModel {
	var desc *string
	if d.Description != "" {
		v := d.Description
		desc = &v
	}
	return dealModel{
		ID:                d.ID,
		Title:             d.Title,
		Value:             d.Value,
		Stage:             d.Stage,
		PipelineID:        d.PipelineID,
		ContactID:         d.ContactID,
		CompanyID:         d.CompanyID,
		OwnerID:           d.OwnerID,
		ExpectedCloseDate: d.ExpectedCloseDate,
		Description:       desc,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (r *DealRepository) Create(ctx context.Context, d *domain.Deal) error {
	m := toDealModel(d)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = toDomainDeal(m)
	return nil
}

func (r *DealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	var m dealModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	d := toDomainDeal(m)
	return &d, nil
}

// DealFilter narrows List; zero values mean "no filter".
type DealFilter struct {
	PipelineID int64
	Stage      string
	OwnerID    int64
	Search     string
	Limit      int
	Offset     int
}

func (r *DealRepository) List(ctx context.Context, f DealFilter) ([]domain.Deal, int64, error) {
	q := r.db.WithContext(ctx).Model(&dealModel{})
	if f.PipelineID != 0 {
		q = q.Where("pipeline_id = ?", f.PipelineID)
	}
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Search != "" {
		q = q.Where("title LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var models []dealModel
	if err := q.Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Deal, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainDeal(m))
	}
	return out, total, nil
}

// ListByPipeline returns every deal of a pipeline in creation order,
// the working set for the by-stage board aggregation.
func (r *DealRepository) ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	deals, _, err := r.List(ctx, DealFilter{PipelineID: pipelineID})
	return deals, err
}

func (r *DealRepository) Update(ctx context.Context, d *domain.Deal) error {
	m := toDealModel(d)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&m).Error
}

// UpdateStage overwrites the stage label. The label is not checked
// against pipeline_stages here; an unknown label orphans the deal off
// the board by design of the data model.
func (r *DealRepository) UpdateStage(ctx context.Context, id int64, stage string) error {
	res := r.db.WithContext(ctx).Model(&dealModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"stage": stage, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&dealModel{}, id).Error
}

func (r *DealRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&dealModel{}).Count(&cnt)
	return cnt, tx.Error
}

// SumValueByStages sums deal values over a set of stage labels within
// a pipeline. Used for the open-pipeline dashboard number.
func (r *DealRepository) SumValueByStages(ctx context.Context, pipelineID int64, stages []string) (float64, error) {
	var sum *float64
	q := `SELECT SUM(value) FROM deals WHERE pipeline_id = ? AND stage IN ?`
	tx := r.db.WithContext(ctx).Raw(q, pipelineID, stages).Scan(&sum)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// SumValueByStageSince sums deal values for one label updated after the
// cutoff, e.g. deals moved to "Won" this month.
func (r *DealRepository) SumValueByStageSince(ctx context.Context, stage string, since time.Time) (float64, error) {
	var sum *float64
	q := `SELECT SUM(value) FROM deals WHERE stage = ? AND updated_at >= ?`
	tx := r.db.WithContext(ctx).Raw(q, stage, since).Scan(&sum)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
