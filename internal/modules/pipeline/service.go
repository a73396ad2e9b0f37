package pipeline

import (
	"context"
	"strings"

	"salescrm/internal/domain"
	"salescrm/internal/repository"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePipeline(ctx context.Context, req CreatePipelineRequest) (*domain.Pipeline, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrValidation
	}

	p := &domain.Pipeline{
		Name:        name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPipeline(ctx context.Context, id int64) (*domain.Pipeline, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdatePipeline(ctx context.Context, id int64, req UpdatePipelineRequest) (*domain.Pipeline, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		p.Description = req.Description
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePipeline removes the pipeline and its stages. Deals keep their
// pipeline_id and stage label; they simply stop appearing on any board.
func (s *Service) DeletePipeline(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrPipelineNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CreateStage appends a stage at max(position)+1. A pipeline is capped
// at MaxStagesPerPipeline stages.
func (s *Service) CreateStage(ctx context.Context, req CreateStageRequest) (*domain.PipelineStage, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrValidation
	}

	if _, err := s.repo.GetByID(ctx, req.PipelineID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}

	count, err := s.repo.CountStages(ctx, req.PipelineID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxStagesPerPipeline {
		return nil, ErrStageLimit
	}

	position := 0
	if max, ok, err := s.repo.MaxStagePosition(ctx, req.PipelineID); err != nil {
		return nil, err
	} else if ok {
		position = max + 1
	}

	if req.IsDefault {
		if err := s.repo.ClearDefault(ctx, req.PipelineID); err != nil {
			return nil, err
		}
	}

	stage := &domain.PipelineStage{
		PipelineID: req.PipelineID,
		Title:      title,
		Position:   position,
		Color:      req.Color,
		IsDefault:  req.IsDefault,
	}
	if err := s.repo.CreateStage(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *Service) ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error) {
	if _, err := s.repo.GetByID(ctx, pipelineID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}
	return s.repo.ListStages(ctx, pipelineID)
}

func (s *Service) UpdateStage(ctx context.Context, id int64, req UpdateStageRequest) (*domain.PipelineStage, error) {
	stage, err := s.repo.GetStage(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		stage.Title = strings.TrimSpace(req.Title)
	}
	if req.Color != "" {
		stage.Color = req.Color
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !stage.IsDefault {
			if err := s.repo.ClearDefault(ctx, stage.PipelineID); err != nil {
				return nil, err
			}
		}
		stage.IsDefault = *req.IsDefault
	}

	if err := s.repo.UpdateStage(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *Service) DeleteStage(ctx context.Context, id int64) error {
	if _, err := s.repo.GetStage(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrStageNotFound
		}
		return err
	}
	return s.repo.DeleteStage(ctx, id)
}

// ReorderStages applies a full permutation of one pipeline's stages.
// The submitted set must match the pipeline's stage set exactly; all
// positions are rewritten in one transaction.
func (s *Service) ReorderStages(ctx context.Context, req ReorderStagesRequest) ([]domain.PipelineStage, error) {
	if len(req.Stages) == 0 {
		return nil, ErrValidation
	}

	first, err := s.repo.GetStage(ctx, req.Stages[0].ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	existing, err := s.repo.ListStages(ctx, first.PipelineID)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(req.Stages) {
		return nil, ErrStageSetMismatch
	}

	known := make(map[int64]bool, len(existing))
	for _, st := range existing {
		known[st.ID] = true
	}

	positions := make(map[int64]int, len(req.Stages))
	for _, sp := range req.Stages {
		if !known[sp.ID] {
			return nil, ErrStageSetMismatch
		}
		if _, dup := positions[sp.ID]; dup {
			return nil, ErrStageSetMismatch
		}
		positions[sp.ID] = sp.Position
	}

	if err := s.repo.UpdatePositions(ctx, positions); err != nil {
		return nil, err
	}

	return s.repo.ListStages(ctx, first.PipelineID)
}
