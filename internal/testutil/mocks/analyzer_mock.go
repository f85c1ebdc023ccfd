package mocks

import (
	"context"

	"github.com/leetloop/leetloop/internal/analysis"
	"github.com/stretchr/testify/mock"
)

// MockAnalyzer is a mock implementation of analysis.Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, inputs []analysis.SubmissionInput) ([]analysis.Result, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analysis.Result), args.Error(1)
}
