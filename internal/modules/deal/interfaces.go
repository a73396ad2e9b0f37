package deal

import (
	"context"

	"salescrm/internal/domain"
	"salescrm/internal/repository"
)

// DealRepository defines the deal data access used by the service
type DealRepository interface {
	Create(ctx context.Context, d *domain.Deal) error
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	List(ctx context.Context, f repository.DealFilter) ([]domain.Deal, int64, error)
	ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error)
	Update(ctx context.Context, d *domain.Deal) error
	UpdateStage(ctx context.Context, id int64, stage string) error
	Delete(ctx context.Context, id int64) error
}

// StageReader exposes the stage list of a pipeline for bucketing and
// default-stage resolution.
type StageReader interface {
	ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error)
}

// ActivityRecorder journals stage moves into the activity feed.
type ActivityRecorder interface {
	Create(ctx context.Context, a *domain.Activity) error
}

// BoardNotifier pushes best-effort board refresh events to connected
// kanban clients.
type BoardNotifier interface {
	DealMoved(pipelineID, dealID int64, stage string)
}
