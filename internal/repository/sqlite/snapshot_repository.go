package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository implementation
func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Upsert(ctx context.Context, s models.ProfileSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("storing snapshot: profile_id=%d, bytes=%d", s.ProfileID, len(s.Data))

	_, err := r.db.ExecContext(ctx, `
INSERT INTO profile_snapshots (profile_id, data, fetched_at)
VALUES (?, ?, ?)
ON CONFLICT(profile_id) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at
`, s.ProfileID, string(s.Data), s.FetchedAt.UTC())
	if err != nil {
		log.Error("failed to store snapshot: %v", err)
	}
	return err
}

func (r *snapshotRepository) Get(ctx context.Context, profileID int64) (*models.ProfileSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")

	var (
		s    models.ProfileSnapshot
		data string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT profile_id, data, fetched_at FROM profile_snapshots WHERE profile_id = ?
`, profileID).Scan(&s.ProfileID, &data, &s.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no snapshot for profile %d", profileID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get snapshot: %v", err)
		return nil, err
	}
	s.Data = []byte(data)
	return &s, nil
}
