package repository

import (
	"context"

	"github.com/leetloop/leetloop/internal/models"
)

// SubmissionRepository handles accepted-submission data access
type SubmissionRepository interface {
	// InsertBatch stores submissions not seen before and returns how many were new.
	InsertBatch(ctx context.Context, submissions []models.Submission) (int, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error)
	Count(ctx context.Context, filter models.SubmissionFilter) (int, error)
	Pending(ctx context.Context, profileID int64, limit int) ([]models.Submission, error)
	UpdateStatus(ctx context.Context, ids []int64, status string) error
}
