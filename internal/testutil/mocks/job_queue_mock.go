package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSync(profileID int64, refresh bool) error {
	args := m.Called(profileID, refresh)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueAnalysis(profileID int64) error {
	args := m.Called(profileID)
	return args.Error(0)
}
