package dashboard

import (
	"context"
	"time"

	"salescrm/internal/domain"
)

// wonStageLabel is the label SumValueByStageSince matches for the
// monthly won number. Labels are compared verbatim.
const wonStageLabel = "Won"

const recentActivityLimit = 10

type Service struct {
	contacts   ContactCounter
	companies  CompanyCounter
	deals      DealMetrics
	pipelines  PipelineReader
	activities ActivityReader
	now        func() time.Time
}

func NewService(contacts ContactCounter, companies CompanyCounter, deals DealMetrics, pipelines PipelineReader, activities ActivityReader) *Service {
	return &Service{
		contacts:   contacts,
		companies:  companies,
		deals:      deals,
		pipelines:  pipelines,
		activities: activities,
		now:        time.Now,
	}
}

// Metrics assembles the dashboard in one pass: plain counts and sums,
// no derived business logic. Per-stage counts and the open value cover
// the first pipeline; open means every stage label except Won and Lost.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	m := &Metrics{
		DealsPerStage:    []StageCount{},
		RecentActivities: []domain.Activity{},
	}

	var err error
	if m.TotalContacts, err = s.contacts.Count(ctx); err != nil {
		return nil, err
	}
	if m.TotalCompanies, err = s.companies.Count(ctx); err != nil {
		return nil, err
	}
	if m.TotalDeals, err = s.deals.Count(ctx); err != nil {
		return nil, err
	}

	pipelines, err := s.pipelines.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(pipelines) > 0 {
		if err := s.fillPipelineMetrics(ctx, pipelines[0].ID, m); err != nil {
			return nil, err
		}
	}

	monthStart := s.monthStart()
	if m.WonValueThisMonth, err = s.deals.SumValueByStageSince(ctx, wonStageLabel, monthStart); err != nil {
		return nil, err
	}

	if m.RecentActivities, err = s.activities.Recent(ctx, recentActivityLimit); err != nil {
		return nil, err
	}
	if m.RecentActivities == nil {
		m.RecentActivities = []domain.Activity{}
	}

	return m, nil
}

func (s *Service) fillPipelineMetrics(ctx context.Context, pipelineID int64, m *Metrics) error {
	stages, err := s.pipelines.ListStages(ctx, pipelineID)
	if err != nil {
		return err
	}

	deals, err := s.deals.ListByPipeline(ctx, pipelineID)
	if err != nil {
		return err
	}

	open := make([]string, 0, len(stages))
	for _, st := range stages {
		count := 0
		for _, d := range deals {
			if d.Stage == st.Title {
				count++
			}
		}
		m.DealsPerStage = append(m.DealsPerStage, StageCount{Stage: st.Title, Count: count})

		if st.Title != wonStageLabel && st.Title != "Lost" {
			open = append(open, st.Title)
		}
	}

	if len(open) > 0 {
		m.OpenPipelineValue, err = s.deals.SumValueByStages(ctx, pipelineID, open)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) monthStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
