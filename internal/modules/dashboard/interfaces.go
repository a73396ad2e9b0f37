package dashboard

import (
	"context"
	"time"

	"salescrm/internal/domain"
)

type ContactCounter interface {
	Count(ctx context.Context) (int64, error)
}

type CompanyCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DealMetrics is the slice of the deal repository the dashboard reads.
type DealMetrics interface {
	Count(ctx context.Context) (int64, error)
	ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error)
	SumValueByStages(ctx context.Context, pipelineID int64, stages []string) (float64, error)
	SumValueByStageSince(ctx context.Context, stage string, since time.Time) (float64, error)
}

type PipelineReader interface {
	List(ctx context.Context) ([]domain.Pipeline, error)
	ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error)
}

type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)
}
