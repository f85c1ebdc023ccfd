// Package srs implements the SM-2 style review scheduler used for concept reviews.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// InitialEaseFactor is the ease factor of a never-reviewed item.
	InitialEaseFactor = 2.5
	// MinEaseFactor is the floor applied after every ease update.
	MinEaseFactor = 1.3
	// MaxEaseFactor bounds ease factors accepted from API callers.
	MaxEaseFactor = 10.0
	// MaxInterval is the longest interval, in days, a review is scheduled out.
	MaxInterval = 36500

	MinRating = 0
	MaxRating = 5
	// PassingRating is the lowest rating counted as successful recall.
	PassingRating = 3

	MinDifficulty = 0
	MaxDifficulty = 5
)

// ErrInvalidArgument is returned by Review for out-of-range input.
var ErrInvalidArgument = errors.New("srs: invalid argument")

// NextReview is the outcome of one review event.
type NextReview struct {
	NewInterval   int     `json:"new_interval"`
	NewEaseFactor float64 `json:"new_ease_factor"`
}

// ReviewState is the scheduling state tracked per concept.
type ReviewState struct {
	Interval   int     `json:"interval"`
	EaseFactor float64 `json:"ease_factor"`
	Difficulty int     `json:"difficulty"`
}

// NewReviewState returns the state of an item that has just been solved for the first time.
func NewReviewState() ReviewState {
	return ReviewState{EaseFactor: InitialEaseFactor}
}

// CalculateNextReview computes the next interval (days) and ease factor.
// Inputs are not validated; see Review for the checked variant.
func CalculateNextReview(previousInterval int, previousEaseFactor float64, rating int) NextReview {
	interval := 1
	if rating >= PassingRating {
		switch previousInterval {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = roundHalfUp(float64(previousInterval) * previousEaseFactor)
		}
	}

	q := float64(MaxRating - rating)
	ef := previousEaseFactor + (0.1 - q*(0.08+q*0.02))

	return NextReview{
		NewInterval:   interval,
		NewEaseFactor: math.Max(MinEaseFactor, ef),
	}
}

// UpdateDifficulty moves the difficulty score one step up or down within [0, 5].
func UpdateDifficulty(currentDifficulty int, wasCorrect bool) int {
	if wasCorrect {
		return min(currentDifficulty+1, MaxDifficulty)
	}
	return max(currentDifficulty-1, MinDifficulty)
}

// Review validates state and rating, then applies both calculators. The new
// interval is capped at MaxInterval.
func Review(state ReviewState, rating int) (ReviewState, error) {
	if err := ValidateRating(rating); err != nil {
		return state, err
	}
	if state.Interval < 0 {
		return state, fmt.Errorf("%w: interval %d is negative", ErrInvalidArgument, state.Interval)
	}
	if math.IsNaN(state.EaseFactor) || state.EaseFactor < MinEaseFactor {
		return state, fmt.Errorf("%w: ease factor %.2f is below %.1f", ErrInvalidArgument, state.EaseFactor, MinEaseFactor)
	}

	next := CalculateNextReview(min(state.Interval, MaxInterval), state.EaseFactor, rating)
	return ReviewState{
		Interval:   min(next.NewInterval, MaxInterval),
		EaseFactor: next.NewEaseFactor,
		Difficulty: UpdateDifficulty(clampDifficulty(state.Difficulty), rating >= PassingRating),
	}, nil
}

// ValidateRating reports ErrInvalidArgument when rating is outside [0, 5].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating %d outside [%d, %d]", ErrInvalidArgument, rating, MinRating, MaxRating)
	}
	return nil
}

// DueAt returns the start of the UTC day interval days after from.
func DueAt(from time.Time, interval int) time.Time {
	day := from.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, interval)
}

func clampDifficulty(d int) int {
	return min(max(d, MinDifficulty), MaxDifficulty)
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
