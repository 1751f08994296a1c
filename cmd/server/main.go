package main

import (
	"os"

	"github.com/actuallystonmai/cf-recommender/internal/config"
	"github.com/actuallystonmai/cf-recommender/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// main relies on cobra to print the returned error to stderr.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cf-recommender",
		Short:        "User-based collaborative-filtering movie recommender",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newEvaluateCmd())
	return root
}

// loadConfig loads configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}
