package mocks

import (
	"context"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAnalysisRepository is a mock implementation of repository.AnalysisRepository
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Upsert(ctx context.Context, analysis models.ProblemAnalysis) (int64, error) {
	args := m.Called(ctx, analysis)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalysisRepository) GetBySlug(ctx context.Context, profileID int64, titleSlug string) (*models.ProblemAnalysis, error) {
	args := m.Called(ctx, profileID, titleSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProblemAnalysis), args.Error(1)
}

func (m *MockAnalysisRepository) List(ctx context.Context, filter models.AnalysisFilter) ([]models.ProblemAnalysis, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProblemAnalysis), args.Error(1)
}

func (m *MockAnalysisRepository) Count(ctx context.Context, profileID int64) (int, error) {
	args := m.Called(ctx, profileID)
	return args.Int(0), args.Error(1)
}
