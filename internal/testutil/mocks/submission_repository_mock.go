package mocks

import (
	"context"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSubmissionRepository is a mock implementation of repository.SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) InsertBatch(ctx context.Context, submissions []models.Submission) (int, error) {
	args := m.Called(ctx, submissions)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Count(ctx context.Context, filter models.SubmissionFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionRepository) Pending(ctx context.Context, profileID int64, limit int) ([]models.Submission, error) {
	args := m.Called(ctx, profileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, ids []int64, status string) error {
	args := m.Called(ctx, ids, status)
	return args.Error(0)
}
