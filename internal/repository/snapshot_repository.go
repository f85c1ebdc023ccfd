package repository

import (
	"context"

	"github.com/leetloop/leetloop/internal/models"
)

// SnapshotRepository stores the latest raw LeetCode data per profile
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot models.ProfileSnapshot) error
	Get(ctx context.Context, profileID int64) (*models.ProfileSnapshot, error)
}
