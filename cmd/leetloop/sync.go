package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// maxAnalysisPasses bounds how many batches one sync command analyzes.
const maxAnalysisPasses = 20

var syncCmd = &cobra.Command{
	Use:   "sync <username>",
	Short: "Sync a LeetCode user and analyze new submissions",
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().Bool("refresh", false, "Ignore cached LeetCode data")
	syncCmd.Flags().Bool("skip-analysis", false, "Only fetch and store submissions")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	profile, err := a.profiles.CreateProfile(ctx, args[0])
	if err != nil {
		return err
	}

	refresh, _ := cmd.Flags().GetBool("refresh")
	syncFn := a.sync.Sync
	if refresh {
		syncFn = a.sync.Refresh
	}
	res, err := syncFn(ctx, *profile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Synced %s: %d recent submissions, %d new\n", res.Username, res.Fetched, res.NewSubmissions)
	if len(res.FailedSections) > 0 {
		fmt.Fprintf(out, "Sections unavailable: %s\n", strings.Join(res.FailedSections, ", "))
	}

	if skip, _ := cmd.Flags().GetBool("skip-analysis"); skip {
		return nil
	}

	var analyzed, reused, fallback, seeded int
	for pass := 0; pass < maxAnalysisPasses; pass++ {
		r, err := a.analysis.AnalyzePending(ctx, profile.ID)
		if err != nil {
			return err
		}
		analyzed += r.Analyzed
		reused += r.Reused
		fallback += r.Fallback
		seeded += r.ReviewsSeeded
		if r.Pending == 0 || r.Analyzed+r.Reused+r.Fallback == 0 {
			break
		}
	}
	fmt.Fprintf(out, "Analyzed %d problems (%d reused, %d fallback), %d concept reviews scheduled\n",
		analyzed, reused, fallback, seeded)
	return nil
}
