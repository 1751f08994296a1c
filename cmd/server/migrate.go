package main

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/cf-recommender/migrations"
	"github.com/actuallystonmai/cf-recommender/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or drop the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
					if err := migrations.Up(ctx, pool); err != nil {
						return err
					}
					log.Info().Msg("migrations applied successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
					if err := migrations.Down(ctx, pool); err != nil {
						return err
					}
					log.Info().Msg("migrations dropped successfully")
					return nil
				})
			},
		},
	)
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the deterministic demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrations.Up(ctx, pool); err != nil {
					return err
				}
				return seeds.Setup(ctx, pool)
			})
		},
	}
}

func withDB(ctx context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool)
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		log.Info().Int("users", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool)
}
