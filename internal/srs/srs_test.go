package srs_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/leetloop/leetloop/internal/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestCalculateNextReview_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		interval     int
		ease         float64
		rating       int
		wantInterval int
		wantEase     float64
	}{
		{"first success", 0, 2.5, 4, 1, 2.5},
		{"second success", 1, 2.5, 5, 6, 2.6},
		{"geometric growth", 6, 2.5, 5, 15, 2.6},
		{"failed recall", 10, 2.5, 1, 1, 1.96},
		{"clamped ease", 10, 1.35, 0, 1, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := srs.CalculateNextReview(tt.interval, tt.ease, tt.rating)
			assert.Equal(t, tt.wantInterval, got.NewInterval)
			assert.InDelta(t, tt.wantEase, got.NewEaseFactor, eps)
		})
	}
}

func TestCalculateNextReview_SuccessIntervals(t *testing.T) {
	eases := []float64{1.3, 1.7, 2.5, 3.1}
	for rating := 3; rating <= 5; rating++ {
		for _, ef := range eases {
			assert.Equal(t, 1, srs.CalculateNextReview(0, ef, rating).NewInterval)
			assert.Equal(t, 6, srs.CalculateNextReview(1, ef, rating).NewInterval)
			for _, prev := range []int{2, 6, 15, 41} {
				want := int(math.Floor(float64(prev)*ef + 0.5))
				assert.Equal(t, want, srs.CalculateNextReview(prev, ef, rating).NewInterval,
					"prev=%d ef=%.1f rating=%d", prev, ef, rating)
			}
		}
	}
}

func TestCalculateNextReview_RoundsHalfUp(t *testing.T) {
	// 3 * 2.5 = 7.5
	assert.Equal(t, 8, srs.CalculateNextReview(3, 2.5, 4).NewInterval)
	// 5 * 1.3 = 6.5
	assert.Equal(t, 7, srs.CalculateNextReview(5, 1.3, 3).NewInterval)
}

func TestCalculateNextReview_FailureResets(t *testing.T) {
	for rating := 0; rating < 3; rating++ {
		for _, prev := range []int{0, 1, 6, 120} {
			got := srs.CalculateNextReview(prev, 2.5, rating)
			assert.Equal(t, 1, got.NewInterval, "prev=%d rating=%d", prev, rating)
		}
	}
}

func TestCalculateNextReview_EaseNeverBelowFloor(t *testing.T) {
	for rating := 0; rating <= 5; rating++ {
		for _, ef := range []float64{1.3, 1.31, 1.5, 2.0, 2.5} {
			got := srs.CalculateNextReview(3, ef, rating)
			assert.GreaterOrEqual(t, got.NewEaseFactor, srs.MinEaseFactor)
		}
	}
}

func TestCalculateNextReview_EaseIncreasesWithRating(t *testing.T) {
	// Start high enough that no rating hits the floor.
	const ef = 3.0
	prev := srs.CalculateNextReview(4, ef, 0).NewEaseFactor
	for rating := 1; rating <= 5; rating++ {
		cur := srs.CalculateNextReview(4, ef, rating).NewEaseFactor
		assert.Greater(t, cur, prev, "rating=%d", rating)
		prev = cur
	}
}

func TestCalculateNextReview_Permissive(t *testing.T) {
	assert.NotPanics(t, func() {
		srs.CalculateNextReview(-4, 0.5, 9)
		srs.CalculateNextReview(7, 2.5, -3)
	})
	got := srs.CalculateNextReview(7, 2.5, -3)
	assert.Equal(t, 1, got.NewInterval)
	assert.Equal(t, srs.MinEaseFactor, got.NewEaseFactor)
}

func TestUpdateDifficulty(t *testing.T) {
	assert.Equal(t, 5, srs.UpdateDifficulty(5, true))
	assert.Equal(t, 0, srs.UpdateDifficulty(0, false))
	assert.Equal(t, 3, srs.UpdateDifficulty(2, true))
	assert.Equal(t, 1, srs.UpdateDifficulty(2, false))

	for d := 0; d <= 5; d++ {
		assert.LessOrEqual(t, srs.UpdateDifficulty(d, true), 5)
		assert.GreaterOrEqual(t, srs.UpdateDifficulty(d, false), 0)
	}
}

func TestReview_AppliesBothCalculators(t *testing.T) {
	state := srs.NewReviewState()
	require.Equal(t, 0, state.Interval)
	require.Equal(t, srs.InitialEaseFactor, state.EaseFactor)

	state, err := srs.Review(state, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Interval)
	assert.InDelta(t, 2.6, state.EaseFactor, eps)
	assert.Equal(t, 1, state.Difficulty)

	state, err = srs.Review(state, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Interval)
	assert.Equal(t, 0, state.Difficulty)
}

func TestReview_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		state  srs.ReviewState
		rating int
	}{
		{"rating too high", srs.NewReviewState(), 6},
		{"rating negative", srs.NewReviewState(), -1},
		{"ease below floor", srs.ReviewState{Interval: 3, EaseFactor: 1.2}, 4},
		{"negative interval", srs.ReviewState{Interval: -1, EaseFactor: 2.5}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := srs.Review(tt.state, tt.rating)
			require.Error(t, err)
			assert.ErrorIs(t, err, srs.ErrInvalidArgument)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestReview_CapsInterval(t *testing.T) {
	state, err := srs.Review(srs.ReviewState{Interval: 30000, EaseFactor: 2.5}, 5)
	require.NoError(t, err)
	assert.Equal(t, srs.MaxInterval, state.Interval)

	// Intervals stored before the cap existed are capped too.
	state, err = srs.Review(srs.ReviewState{Interval: 1_000_000, EaseFactor: 2.5}, 4)
	require.NoError(t, err)
	assert.Equal(t, srs.MaxInterval, state.Interval)
}

func TestReview_RejectsNaNEase(t *testing.T) {
	_, err := srs.Review(srs.ReviewState{Interval: 3, EaseFactor: math.NaN()}, 4)
	assert.ErrorIs(t, err, srs.ErrInvalidArgument)
}

func TestDueAt(t *testing.T) {
	from := time.Date(2026, 3, 10, 22, 45, 0, 0, time.FixedZone("x", -5*3600))
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), srs.DueAt(from, 6))
}

func TestCalculateNextReview_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := srs.CalculateNextReview(6, 2.5, 5)
			assert.Equal(t, 15, got.NewInterval)
		}()
	}
	wg.Wait()
}
