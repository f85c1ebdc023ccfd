package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, username, created_at, last_sync_at`

func (r *profileRepository) Upsert(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("upserting profile for username: %s", username)

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (username)
VALUES (?)
ON CONFLICT(username) DO NOTHING
`, username); err != nil {
		log.Error("failed to upsert profile: %v", err)
		return nil, err
	}

	p, err := r.getOne(ctx, log, `SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, sql.ErrNoRows
	}
	log.Debug("profile upserted: id=%d", p.ID)
	return p, nil
}

func (r *profileRepository) UpdateSync(ctx context.Context, id int64, t time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile sync time: profile_id=%d", id)

	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET last_sync_at = ? WHERE id = ?`, t.UTC(), id)
	if err != nil {
		log.Error("failed to update profile sync: %v", err)
	}
	return err
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC, id ASC`)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.CreatedAt, &p.LastSyncAt); err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		profiles = append(profiles, p)
	}

	log.Debug("found %d profiles", len(profiles))
	return profiles, rows.Err()
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%d", id)

	return r.getOne(ctx, log, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: username=%s", username)

	return r.getOne(ctx, log, `SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username)
}

func (r *profileRepository) getOne(ctx context.Context, log *logger.Logger, query string, arg any) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Username, &p.CreatedAt, &p.LastSyncAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: %v", arg)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

// Delete removes the profile. Dependent rows go with it through ON DELETE CASCADE.
func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile and related data: id=%d", id)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		log.Error("failed to delete profile %d: %v", id, err)
		return err
	}
	return nil
}
