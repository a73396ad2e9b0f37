package deal

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"salescrm/internal/domain"
	"salescrm/internal/repository"
)

// fallbackStages is the board shown when no pipeline id is given:
// a fixed four-column layout with no backing stage rows.
var fallbackStages = []string{"Prospecting", "Qualified", "Proposal", "Closed"}

type Service struct {
	deals      DealRepository
	stages     StageReader
	activities ActivityRecorder
	board      BoardNotifier
}

func NewService(deals DealRepository, stages StageReader, activities ActivityRecorder, board BoardNotifier) *Service {
	return &Service{
		deals:      deals,
		stages:     stages,
		activities: activities,
		board:      board,
	}
}

// CreateDeal places a new deal in the requested stage, or in the
// pipeline's default stage (lowest position when none is flagged).
func (s *Service) CreateDeal(ctx context.Context, req CreateDealRequest, ownerID int64) (*domain.Deal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Value < 0 {
		return nil, ErrValidation
	}

	stageLabel := req.Stage
	if stageLabel == "" {
		stages, err := s.stages.ListStages(ctx, req.PipelineID)
		if err != nil {
			return nil, err
		}
		for _, st := range stages {
			if st.IsDefault {
				stageLabel = st.Title
				break
			}
		}
		if stageLabel == "" && len(stages) > 0 {
			stageLabel = stages[0].Title
		}
	}

	d := &domain.Deal{
		Title:             title,
		Value:             roundCents(req.Value),
		Stage:             stageLabel,
		PipelineID:        req.PipelineID,
		ContactID:         req.ContactID,
		CompanyID:         req.CompanyID,
		OwnerID:           ownerID,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Description:       req.Description,
	}

	if err := s.deals.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDeal(ctx context.Context, id int64) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDeals(ctx context.Context, f repository.DealFilter) ([]domain.Deal, int64, error) {
	return s.deals.List(ctx, f)
}

// UpdateDeal applies a partial update. A stage value in the body is
// written as-is: labels are not validated against pipeline stages, so
// an unknown label leaves the deal off every board bucket.
func (s *Service) UpdateDeal(ctx context.Context, id int64, req UpdateDealRequest) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	previousStage := d.Stage

	if req.Title != "" {
		d.Title = strings.TrimSpace(req.Title)
	}
	if req.Value != nil {
		if *req.Value < 0 {
			return nil, ErrValidation
		}
		d.Value = roundCents(*req.Value)
	}
	if req.Stage != nil {
		d.Stage = *req.Stage
	}
	if req.ContactID != nil {
		d.ContactID = req.ContactID
	}
	if req.CompanyID != nil {
		d.CompanyID = req.CompanyID
	}
	if req.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = req.ExpectedCloseDate
	}
	if req.Description != "" {
		d.Description = req.Description
	}

	if err := s.deals.Update(ctx, d); err != nil {
		return nil, err
	}

	if d.Stage != previousStage && s.board != nil {
		s.board.DealMoved(d.PipelineID, d.ID, d.Stage)
	}

	return d, nil
}

// MoveDeal overwrites the deal's stage label and journals the move as
// a stage_changed activity. The destination label is not validated.
func (s *Service) MoveDeal(ctx context.Context, id int64, req MoveDealRequest, actorID int64) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	from := d.Stage
	if err := s.deals.UpdateStage(ctx, id, req.Stage); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	d.Stage = req.Stage

	if s.activities != nil {
		dealID := d.ID
		journalErr := s.activities.Create(ctx, &domain.Activity{
			Type:      domain.ActivityStageChanged,
			Title:     fmt.Sprintf("Deal %q moved from %q to %q", d.Title, from, req.Stage),
			DealID:    &dealID,
			ContactID: d.ContactID,
			UserID:    actorID,
			Done:      true,
		})
		// The move itself already committed; a failed journal entry must
		// not roll it back, but it has to show up in the logs.
		if journalErr != nil {
			log.Printf("deal move journal failed deal_id=%d error=%q", d.ID, journalErr)
		}
	}

	if s.board != nil {
		s.board.DealMoved(d.PipelineID, d.ID, d.Stage)
	}

	return d, nil
}

func (s *Service) DeleteDeal(ctx context.Context, id int64) error {
	if _, err := s.deals.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrDealNotFound
		}
		return err
	}
	return s.deals.Delete(ctx, id)
}

// DealsByStage groups a pipeline's deals into board buckets by exact
// title match. Deals whose label matches no stage title appear in no
// bucket. Without a pipeline id a fixed four-column fallback board over
// all deals is returned.
func (s *Service) DealsByStage(ctx context.Context, pipelineID int64) ([]domain.StageBucket, error) {
	if pipelineID == 0 {
		deals, _, err := s.deals.List(ctx, repository.DealFilter{})
		if err != nil {
			return nil, err
		}
		buckets := make([]domain.StageBucket, 0, len(fallbackStages))
		for i, title := range fallbackStages {
			buckets = append(buckets, fillBucket(domain.StageBucket{Title: title, Position: i}, deals))
		}
		return buckets, nil
	}

	stages, err := s.stages.ListStages(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	deals, err := s.deals.ListByPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	buckets := make([]domain.StageBucket, 0, len(stages))
	for _, st := range stages {
		buckets = append(buckets, fillBucket(domain.StageBucket{
			StageID:  st.ID,
			Title:    st.Title,
			Position: st.Position,
			Color:    st.Color,
		}, deals))
	}
	return buckets, nil
}

func fillBucket(b domain.StageBucket, deals []domain.Deal) domain.StageBucket {
	b.Deals = make([]domain.Deal, 0)
	for _, d := range deals {
		if d.Stage == b.Title {
			b.Deals = append(b.Deals, d)
			b.TotalValue += d.Value
		}
	}
	b.Count = len(b.Deals)
	b.TotalValue = roundCents(b.TotalValue)
	return b
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
