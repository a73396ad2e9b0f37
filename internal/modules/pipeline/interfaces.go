package pipeline

import (
	"context"

	"salescrm/internal/domain"
)

// Repository defines pipeline and stage data access used by the service
type Repository interface {
	Create(ctx context.Context, p *domain.Pipeline) error
	GetByID(ctx context.Context, id int64) (*domain.Pipeline, error)
	List(ctx context.Context) ([]domain.Pipeline, error)
	Update(ctx context.Context, p *domain.Pipeline) error
	Delete(ctx context.Context, id int64) error

	CreateStage(ctx context.Context, s *domain.PipelineStage) error
	GetStage(ctx context.Context, id int64) (*domain.PipelineStage, error)
	ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error)
	CountStages(ctx context.Context, pipelineID int64) (int64, error)
	MaxStagePosition(ctx context.Context, pipelineID int64) (int, bool, error)
	UpdateStage(ctx context.Context, s *domain.PipelineStage) error
	DeleteStage(ctx context.Context, id int64) error
	ClearDefault(ctx context.Context, pipelineID int64) error
	UpdatePositions(ctx context.Context, positions map[int64]int) error
}
