package main

import (
	"github.com/leetloop/leetloop/internal/config"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "leetloop",
	Short:         "Spaced repetition for the LeetCode problems you have solved",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(nextReviewCmd)
	rootCmd.AddCommand(difficultyCmd)
}

// loadConfig reads the environment, applies persistent flag overrides and
// installs the default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	))
	return cfg, nil
}
