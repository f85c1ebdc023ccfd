package main

import (
	"fmt"
	"time"

	"github.com/leetloop/leetloop/internal/services"
	"github.com/leetloop/leetloop/internal/srs"
	"github.com/spf13/cobra"
)

var nextReviewCmd = &cobra.Command{
	Use:   "next-review",
	Short: "Compute the next SM-2 interval and ease factor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetInt("interval")
		ease, _ := cmd.Flags().GetFloat64("ease")
		rating, _ := cmd.Flags().GetInt("rating")

		// Preview only validates and calculates; it needs no repository.
		next, err := services.NewReviewService(nil).PreviewNextReview(interval, ease, rating)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "interval:    %d days\nease factor: %.2f\ndue:         %s\n",
			next.NewInterval, next.NewEaseFactor, srs.DueAt(time.Now(), next.NewInterval).Format(time.DateOnly))
		return nil
	},
}

var difficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Move a difficulty score one step after an attempt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetInt("current")
		correct, _ := cmd.Flags().GetBool("correct")

		d, err := services.NewReviewService(nil).AdjustDifficulty(current, correct)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "difficulty: %d\n", d)
		return nil
	},
}

func init() {
	nextReviewCmd.Flags().Int("interval", 0, "Previous interval in days")
	nextReviewCmd.Flags().Float64("ease", srs.InitialEaseFactor, "Previous ease factor")
	nextReviewCmd.Flags().Int("rating", 0, "Recall rating from 0 to 5")
	_ = nextReviewCmd.MarkFlagRequired("rating")

	difficultyCmd.Flags().Int("current", 0, "Current difficulty from 0 to 5")
	difficultyCmd.Flags().Bool("correct", false, "Whether the attempt was correct")
	_ = difficultyCmd.MarkFlagRequired("current")
}
