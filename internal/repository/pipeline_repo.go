package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type PipelineRepository struct {
	db *gorm.DB
}

func NewPipelineRepository(db *gorm.DB) *PipelineRepository {
	return &PipelineRepository{db: db}
}

type pipelineModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (pipelineModel) TableName() string { return "pipelines" }

type stageModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	PipelineID int64     `gorm:"column:pipeline_id;index"`
	Title      string    `gorm:"column:title"`
	Position   int       `gorm:"column:position"`
	Color      *string   `gorm:"column:color"`
	IsDefault  bool      `gorm:"column:is_default"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (stageModel) TableName() string { return "pipeline_stages" }

func toDomainPipeline(m pipelineModel) *domain.Pipeline {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Pipeline{
		ID:          m.ID,
		Name:        m.Name,
		Description: desc,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPipelineModel(p *domain.Pipeline) pipelineModel {
	var desc *string
	if p.Description != "" {
		v := p.Description
		desc = &v
	}
	return pipelineModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: desc,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDomainStage(m stageModel) domain.PipelineStage {
	var color string
	if m.Color != nil {
		color = *m.Color
	}
	return domain.PipelineStage{
		ID:         m.ID,
		PipelineID: m.PipelineID,
		Title:      m.Title,
		Position:   m.Position,
		Color:      color,
		IsDefault:  m.IsDefault,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toStageModel(s *domain.PipelineStage) stageModel {
	var color *string
	if s.Color != "" {
		v := s.Color
		color = &v
	}
	return stageModel{
		ID:         s.ID,
		PipelineID: s.PipelineID,
		Title:      s.Title,
		Position:   s.Position,
		Color:      color,
		IsDefault:  s.IsDefault,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (r *PipelineRepository) Create(ctx context.Context, p *domain.Pipeline) error {
	m := toPipelineModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPipeline(m)
	return nil
}

func (r *PipelineRepository) GetByID(ctx context.Context, id int64) (*domain.Pipeline, error) {
	var m pipelineModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	p := toDomainPipeline(m)

	stages, err := r.ListStages(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Stages = stages
	return p, nil
}

func (r *PipelineRepository) List(ctx context.Context) ([]domain.Pipeline, error) {
	var models []pipelineModel
	tx := r.db.WithContext(ctx).Order("id ASC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Pipeline, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainPipeline(m))
	}
	return out, nil
}

func (r *PipelineRepository) Update(ctx context.Context, p *domain.Pipeline) error {
	m := toPipelineModel(p)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&m).Error
}

// Delete removes a pipeline and all of its stages in one transaction.
// Stages are deleted explicitly so the cascade holds on SQLite too,
// where foreign keys may not be enforced.
func (r *PipelineRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pipeline_id = ?", id).Delete(&stageModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pipelineModel{}, id).Error
	})
}

func (r *PipelineRepository) CreateStage(ctx context.Context, s *domain.PipelineStage) error {
	m := toStageModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = toDomainStage(m)
	return nil
}

func (r *PipelineRepository) GetStage(ctx context.Context, id int64) (*domain.PipelineStage, error) {
	var m stageModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	s := toDomainStage(m)
	return &s, nil
}

func (r *PipelineRepository) ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error) {
	var models []stageModel
	tx := r.db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("position ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.PipelineStage, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainStage(m))
	}
	return out, nil
}

func (r *PipelineRepository) CountStages(ctx context.Context, pipelineID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&stageModel{}).
		Where("pipeline_id = ?", pipelineID).
		Count(&cnt)
	return cnt, tx.Error
}

func (r *PipelineRepository) MaxStagePosition(ctx context.Context, pipelineID int64) (int, bool, error) {
	var max *int
	tx := r.db.WithContext(ctx).Model(&stageModel{}).
		Where("pipeline_id = ?", pipelineID).
		Select("MAX(position)").
		Scan(&max)
	if tx.Error != nil {
		return 0, false, tx.Error
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (r *PipelineRepository) UpdateStage(ctx context.Context, s *domain.PipelineStage) error {
	m := toStageModel(s)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *PipelineRepository) DeleteStage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&stageModel{}, id).Error
}

// ClearDefault drops the is_default flag from every stage of a
// pipeline; used before promoting another stage to default.
func (r *PipelineRepository) ClearDefault(ctx context.Context, pipelineID int64) error {
	return r.db.WithContext(ctx).Model(&stageModel{}).
		Where("pipeline_id = ?", pipelineID).
		Update("is_default", false).Error
}

// UpdatePositions rewrites every submitted stage position inside a
// single transaction, so a crash never leaves the board half-reordered.
func (r *PipelineRepository) UpdatePositions(ctx context.Context, positions map[int64]int) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			res := tx.Model(&stageModel{}).
				Where("id = ?", id).
				Updates(map[string]any{"position": pos, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
