package activity

import (
	"context"
	"strings"

	"salescrm/internal/domain"
	"salescrm/internal/repository"
)

type Service struct {
	activities *repository.ActivityRepository
}

func NewService(activities *repository.ActivityRepository) *Service {
	return &Service{activities: activities}
}

// CreateActivity records a manual feed entry. Stage moves are journaled
// by the deal service with type stage_changed; that type is not
// accepted here.
func (s *Service) CreateActivity(ctx context.Context, req CreateActivityRequest, userID int64) (*domain.Activity, error) {
	a := &domain.Activity{
		Type:      domain.ActivityType(req.Type),
		Title:     strings.TrimSpace(req.Title),
		Notes:     req.Notes,
		ContactID: req.ContactID,
		DealID:    req.DealID,
		UserID:    userID,
		DueAt:     req.DueAt,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) ListActivities(ctx context.Context, f repository.ActivityFilter) ([]domain.Activity, int64, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return s.activities.List(ctx, f)
}

func (s *Service) UpdateActivity(ctx context.Context, id int64, req UpdateActivityRequest) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		a.Title = strings.TrimSpace(req.Title)
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	if req.DueAt != nil {
		a.DueAt = req.DueAt
	}
	if req.Done != nil {
		a.Done = *req.Done
	}

	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) MarkDone(ctx context.Context, id int64, done bool) error {
	if err := s.activities.MarkDone(ctx, id, done); err != nil {
		if repository.IsNotFound(err) {
			return ErrActivityNotFound
		}
		return err
	}
	return nil
}

func (s *Service) DeleteActivity(ctx context.Context, id int64) error {
	if _, err := s.activities.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrActivityNotFound
		}
		return err
	}
	return s.activities.Delete(ctx, id)
}
