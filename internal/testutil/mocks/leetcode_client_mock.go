package mocks

import (
	"context"

	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/stretchr/testify/mock"
)

// MockLeetCodeClient is a mock implementation of leetcode.CachingClient
type MockLeetCodeClient struct {
	mock.Mock
}

func (m *MockLeetCodeClient) FetchUserData(ctx context.Context, username string) (*leetcode.UserData, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leetcode.UserData), args.Error(1)
}

func (m *MockLeetCodeClient) Invalidate(username string) {
	m.Called(username)
}

func (m *MockLeetCodeClient) QuestionDifficulties(ctx context.Context, slugs []string) (map[string]string, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
