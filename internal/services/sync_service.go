package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

// SyncResult summarises one LeetCode sync.
type SyncResult struct {
	ProfileID      int64     `json:"profile_id"`
	Username       string    `json:"username"`
	Fetched        int       `json:"fetched"`
	NewSubmissions int       `json:"new_submissions"`
	FailedSections []string  `json:"failed_sections,omitempty"`
	SyncedAt       time.Time `json:"synced_at"`
}

// SyncService pulls LeetCode data for a profile and stores it
type SyncService interface {
	Sync(ctx context.Context, profile models.Profile) (*SyncResult, error)
	// Refresh drops cached LeetCode data before syncing.
	Refresh(ctx context.Context, profile models.Profile) (*SyncResult, error)
	// SyncProfile syncs by id and reports how many submissions were new.
	// With refresh set it behaves like Refresh.
	SyncProfile(ctx context.Context, profileID int64, refresh bool) (int, error)
}

type syncService struct {
	client         leetcode.CachingClient
	profileRepo    repository.ProfileRepository
	submissionRepo repository.SubmissionRepository
	snapshotRepo   repository.SnapshotRepository
	running        *inflight
	now            func() time.Time
}

// NewSyncService creates a new SyncService
func NewSyncService(
	client leetcode.CachingClient,
	profileRepo repository.ProfileRepository,
	submissionRepo repository.SubmissionRepository,
	snapshotRepo repository.SnapshotRepository,
) SyncService {
	return &syncService{
		client:         client,
		profileRepo:    profileRepo,
		submissionRepo: submissionRepo,
		snapshotRepo:   snapshotRepo,
		running:        newInflight(),
		now:            time.Now,
	}
}

func (s *syncService) Refresh(ctx context.Context, profile models.Profile) (*SyncResult, error) {
	s.client.Invalidate(profile.Username)
	return s.Sync(ctx, profile)
}

func (s *syncService) SyncProfile(ctx context.Context, profileID int64, refresh bool) (int, error) {
	profile, err := s.profileRepo.Get(ctx, profileID)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if profile == nil {
		return 0, errors.NewNotFoundError("profile", profileID)
	}
	run := s.Sync
	if refresh {
		run = s.Refresh
	}
	res, err := run(ctx, *profile)
	if err != nil {
		return 0, err
	}
	return res.NewSubmissions, nil
}

func (s *syncService) Sync(ctx context.Context, profile models.Profile) (*SyncResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"username":   profile.Username,
		"profile_id": profile.ID,
	})

	if !s.running.acquire(profile.ID) {
		return nil, errors.NewConflictError(fmt.Sprintf("sync already running for profile %d", profile.ID))
	}
	defer s.running.release(profile.ID)

	log.Info("starting sync")
	data, err := s.client.FetchUserData(ctx, profile.Username)
	if err != nil {
		switch {
		case stderrors.Is(err, leetcode.ErrUserNotFound):
			log.Warn("leetcode user not found: %v", err)
			return nil, errors.NewNotFoundError("leetcode user", profile.Username)
		case ctx.Err() != nil:
			return nil, errors.NewInternalError(ctx.Err())
		default:
			log.Error("failed to fetch leetcode data: %v", err)
			return nil, errors.NewUpstreamError("leetcode", err)
		}
	}
	if len(data.Failed) > 0 {
		log.Warn("partial leetcode data, failed sections: %v", data.Failed)
	}

	if err := s.storeSnapshot(ctx, profile.ID, data); err != nil {
		log.Error("failed to store snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}

	submissions := toSubmissions(log, profile.ID, data.RecentSubmissions)
	s.fillDifficulties(ctx, log, submissions)
	added, err := s.submissionRepo.InsertBatch(ctx, submissions)
	if err != nil {
		log.Error("failed to store submissions: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now().UTC()
	if err := s.profileRepo.UpdateSync(ctx, profile.ID, now); err != nil {
		log.Warn("failed to update profile sync time: %v", err)
	}

	log.Info("sync finished: %d fetched, %d new", len(submissions), added)
	return &SyncResult{
		ProfileID:      profile.ID,
		Username:       profile.Username,
		Fetched:        len(submissions),
		NewSubmissions: added,
		FailedSections: data.Failed,
		SyncedAt:       now,
	}, nil
}

// storeSnapshot persists data, filling sections that failed this time from
// the previous snapshot.
func (s *syncService) storeSnapshot(ctx context.Context, profileID int64, data *leetcode.UserData) error {
	merged := *data
	if !data.Complete() {
		prev, err := s.snapshotRepo.Get(ctx, profileID)
		if err != nil {
			return err
		}
		if prev != nil {
			var old leetcode.UserData
			if err := json.Unmarshal(prev.Data, &old); err == nil {
				fillMissing(&merged, &old)
			}
		}
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return s.snapshotRepo.Upsert(ctx, models.ProfileSnapshot{
		ProfileID: profileID,
		Data:      raw,
		FetchedAt: data.FetchedAt,
	})
}

func fillMissing(dst, old *leetcode.UserData) {
	if dst.Progress == nil {
		dst.Progress = old.Progress
	}
	if dst.Calendar == nil {
		dst.Calendar = old.Calendar
	}
	if dst.SubmissionStats == nil {
		dst.SubmissionStats = old.SubmissionStats
	}
	if dst.SkillStats == nil {
		dst.SkillStats = old.SkillStats
	}
	if dst.LanguageStats == nil {
		dst.LanguageStats = old.LanguageStats
	}
	if dst.AllQuestionsCount == nil {
		dst.AllQuestionsCount = old.AllQuestionsCount
	}
}

// fillDifficulties sets each submission's difficulty. A failed lookup leaves it
// blank and the analyzers treat the problem as Medium.
func (s *syncService) fillDifficulties(ctx context.Context, log *logger.Logger, submissions []models.Submission) {
	if len(submissions) == 0 {
		return
	}
	slugs := make([]string, 0, len(submissions))
	seen := make(map[string]bool, len(submissions))
	for _, sub := range submissions {
		if !seen[sub.TitleSlug] {
			seen[sub.TitleSlug] = true
			slugs = append(slugs, sub.TitleSlug)
		}
	}

	difficulties, err := s.client.QuestionDifficulties(ctx, slugs)
	if err != nil {
		log.Warn("failed to look up problem difficulties: %v", err)
		return
	}
	for i := range submissions {
		submissions[i].Difficulty = difficulties[submissions[i].TitleSlug]
	}
}

func toSubmissions(log *logger.Logger, profileID int64, recent []leetcode.RecentSubmission) []models.Submission {
	out := make([]models.Submission, 0, len(recent))
	for _, r := range recent {
		submittedAt, err := r.SubmittedAt()
		if err != nil {
			log.Warn("skipping submission %s with bad timestamp %q", r.ID, r.Timestamp)
			continue
		}
		out = append(out, models.Submission{
			ProfileID:      profileID,
			LeetCodeID:     r.ID,
			Title:          r.Title,
			TitleSlug:      r.TitleSlug,
			Lang:           r.Lang,
			SubmittedAt:    submittedAt,
			AnalysisStatus: models.AnalysisStatusPending,
		})
	}
	return out
}
