package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileService_CreateProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Upsert", ctx, "neal_wu").Return(&models.Profile{ID: 1, Username: "neal_wu"}, nil)

	svc := NewProfileService(repo)
	p, err := svc.CreateProfile(ctx, "  neal_wu ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	repo.AssertExpectations(t)
}

func TestProfileService_CreateProfile_InvalidUsername(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	svc := NewProfileService(repo)

	for _, name := range []string{"", "   ", "has space", "semi;colon", "0123456789012345678901234567890123456789x"} {
		_, err := svc.CreateProfile(context.Background(), name)
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidation), "username %q", name)
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", ctx, int64(9)).Return(nil, nil)

	_, err := NewProfileService(repo).GetProfile(ctx, 9)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestProfileService_GetProfile_RepoError(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", ctx, int64(9)).Return(nil, stderrors.New("disk"))

	_, err := NewProfileService(repo).GetProfile(ctx, 9)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestProfileService_DeleteProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", ctx, int64(3)).Return(&models.Profile{ID: 3}, nil)
		repo.On("Delete", ctx, int64(3)).Return(nil)

		require.NoError(t, NewProfileService(repo).DeleteProfile(ctx, 3))
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", ctx, int64(3)).Return(nil, nil)

		err := NewProfileService(repo).DeleteProfile(ctx, 3)
		assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
