package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"salescrm/internal/domain"
)

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockDealMetrics struct {
	mock.Mock
}

func (m *MockDealMetrics) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealMetrics) ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	args := m.Called(ctx, pipelineID)
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealMetrics) SumValueByStages(ctx context.Context, pipelineID int64, stages []string) (float64, error) {
	args := m.Called(ctx, pipelineID, stages)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDealMetrics) SumValueByStageSince(ctx context.Context, stage string, since time.Time) (float64, error) {
	args := m.Called(ctx, stage, since)
	return args.Get(0).(float64), args.Error(1)
}

type MockPipelineReader struct {
	mock.Mock
}

func (m *MockPipelineReader) List(ctx context.Context) ([]domain.Pipeline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Pipeline), args.Error(1)
}

func (m *MockPipelineReader) ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error) {
	args := m.Called(ctx, pipelineID)
	return args.Get(0).([]domain.PipelineStage), args.Error(1)
}

type MockActivityReader struct {
	mock.Mock
}

func (m *MockActivityReader) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func metricsFixture() (*MockCounter, *MockCounter, *MockDealMetrics, *MockPipelineReader, *MockActivityReader, *Service) {
	contacts := new(MockCounter)
	companies := new(MockCounter)
	deals := new(MockDealMetrics)
	pipelines := new(MockPipelineReader)
	activities := new(MockActivityReader)
	svc := NewService(contacts, companies, deals, pipelines, activities)
	return contacts, companies, deals, pipelines, activities, svc
}

func TestMetrics_AssemblesCountsAndSums(t *testing.T) {
	contacts, companies, deals, pipelines, activities, svc := metricsFixture()

	contacts.On("Count", mock.Anything).Return(int64(12), nil)
	companies.On("Count", mock.Anything).Return(int64(4), nil)
	deals.On("Count", mock.Anything).Return(int64(9), nil)

	pipelines.On("List", mock.Anything).Return([]domain.Pipeline{{ID: 1, Name: "Sales"}}, nil)
	pipelines.On("ListStages", mock.Anything, int64(1)).Return([]domain.PipelineStage{
		{ID: 10, PipelineID: 1, Title: "Prospecting", Position: 0},
		{ID: 11, PipelineID: 1, Title: "Won", Position: 1},
		{ID: 12, PipelineID: 1, Title: "Lost", Position: 2},
	}, nil)
	deals.On("ListByPipeline", mock.Anything, int64(1)).Return([]domain.Deal{
		{ID: 1, Stage: "Prospecting", Value: 100},
		{ID: 2, Stage: "Prospecting", Value: 200},
		{ID: 3, Stage: "Won", Value: 500},
	}, nil)

	// Won and Lost are excluded from the open number.
	deals.On("SumValueByStages", mock.Anything, int64(1), []string{"Prospecting"}).Return(300.0, nil)
	deals.On("SumValueByStageSince", mock.Anything, "Won", mock.AnythingOfType("time.Time")).Return(500.0, nil)

	activities.On("Recent", mock.Anything, recentActivityLimit).Return([]domain.Activity{{ID: 1, Title: "Call"}}, nil)

	m, err := svc.Metrics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), m.TotalContacts)
	assert.Equal(t, int64(4), m.TotalCompanies)
	assert.Equal(t, int64(9), m.TotalDeals)
	assert.Equal(t, 300.0, m.OpenPipelineValue)
	assert.Equal(t, 500.0, m.WonValueThisMonth)
	assert.Len(t, m.RecentActivities, 1)

	assert.Equal(t, []StageCount{
		{Stage: "Prospecting", Count: 2},
		{Stage: "Won", Count: 1},
		{Stage: "Lost", Count: 0},
	}, m.DealsPerStage)

	deals.AssertExpectations(t)
}

func TestMetrics_NoPipelines(t *testing.T) {
	contacts, companies, deals, pipelines, activities, svc := metricsFixture()

	contacts.On("Count", mock.Anything).Return(int64(0), nil)
	companies.On("Count", mock.Anything).Return(int64(0), nil)
	deals.On("Count", mock.Anything).Return(int64(0), nil)
	pipelines.On("List", mock.Anything).Return([]domain.Pipeline{}, nil)
	deals.On("SumValueByStageSince", mock.Anything, "Won", mock.AnythingOfType("time.Time")).Return(0.0, nil)
	activities.On("Recent", mock.Anything, recentActivityLimit).Return([]domain.Activity{}, nil)

	m, err := svc.Metrics(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, m.OpenPipelineValue)
	assert.Empty(t, m.DealsPerStage)
	assert.NotNil(t, m.RecentActivities)
	deals.AssertNotCalled(t, "SumValueByStages", mock.Anything, mock.Anything, mock.Anything)
}

func TestMetrics_MonthWindowStartsOnFirstDay(t *testing.T) {
	contacts, companies, deals, pipelines, activities, svc := metricsFixture()
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 17, 15, 4, 5, 0, time.UTC)
	}

	contacts.On("Count", mock.Anything).Return(int64(0), nil)
	companies.On("Count", mock.Anything).Return(int64(0), nil)
	deals.On("Count", mock.Anything).Return(int64(0), nil)
	pipelines.On("List", mock.Anything).Return([]domain.Pipeline{}, nil)
	deals.On("SumValueByStageSince", mock.Anything, "Won",
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)).Return(0.0, nil)
	activities.On("Recent", mock.Anything, recentActivityLimit).Return([]domain.Activity{}, nil)

	_, err := svc.Metrics(context.Background())

	assert.NoError(t, err)
	deals.AssertExpectations(t)
}
