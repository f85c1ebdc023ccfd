package mocks

import (
	"context"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotRepository is a mock implementation of repository.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snapshot models.ProfileSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Get(ctx context.Context, profileID int64) (*models.ProfileSnapshot, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileSnapshot), args.Error(1)
}
