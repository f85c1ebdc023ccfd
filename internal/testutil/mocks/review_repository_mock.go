package mocks

import (
	"context"
	"time"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockConceptReviewRepository is a mock implementation of repository.ConceptReviewRepository
type MockConceptReviewRepository struct {
	mock.Mock
}

func (m *MockConceptReviewRepository) Get(ctx context.Context, id int64, profileID int64) (*models.ConceptReview, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConceptReview), args.Error(1)
}

func (m *MockConceptReviewRepository) List(ctx context.Context, filter models.ConceptReviewFilter) ([]models.ConceptReview, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConceptReview), args.Error(1)
}

func (m *MockConceptReviewRepository) Count(ctx context.Context, filter models.ConceptReviewFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockConceptReviewRepository) Seed(ctx context.Context, review models.ConceptReview) (*models.ConceptReview, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConceptReview), args.Error(1)
}

func (m *MockConceptReviewRepository) ApplyReview(ctx context.Context, review models.ConceptReview, entry models.ReviewHistory) error {
	args := m.Called(ctx, review, entry)
	return args.Error(0)
}

func (m *MockConceptReviewRepository) History(ctx context.Context, reviewID int64, limit int) ([]models.ReviewHistory, error) {
	args := m.Called(ctx, reviewID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewHistory), args.Error(1)
}

func (m *MockConceptReviewRepository) Counts(ctx context.Context, profileID int64, now time.Time) (*models.ReviewCounts, error) {
	args := m.Called(ctx, profileID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewCounts), args.Error(1)
}
