package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/actuallystonmai/cf-recommender/internal/config"
	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/ratings"
	"github.com/actuallystonmai/cf-recommender/internal/repository"
	"github.com/actuallystonmai/cf-recommender/internal/service"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type evaluateFlags struct {
	ratingsPath string
	moviesPath  string
	testRatio   float64
	seed        int64
	threshold   float64
	k           int
	n           int
	metric      string
}

func newEvaluateCmd() *cobra.Command {
	var f evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the recommender on a held-out split",
		Long: `Split the ratings into train and test sets, build an engine on the
training part and report MAE, RMSE, coverage, Precision@K, Recall@K, F1@K,
catalog coverage and diversity as JSON.

Ratings come from Postgres unless --ratings points at a MovieLens-style CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.ratingsPath, "ratings", "", "ratings CSV (userId,movieId,rating[,timestamp])")
	flags.StringVar(&f.moviesPath, "movies", "", "movies CSV (movieId,title,genres[,year])")
	flags.Float64Var(&f.testRatio, "test-ratio", 0, "share of each user's ratings held out (default from config)")
	flags.Int64Var(&f.seed, "seed", 0, "split seed (default from config)")
	flags.Float64Var(&f.threshold, "threshold", 0, "minimum rating counted as relevant (default from config)")
	flags.IntVarP(&f.k, "neighbors", "k", 0, "neighborhood size (default from config)")
	flags.IntVarP(&f.n, "top", "n", 0, "recommendation list length (default from config)")
	flags.StringVar(&f.metric, "metric", "", "cosine or pearson (default from config)")
	return cmd
}

func runEvaluate(ctx context.Context, out io.Writer, f evaluateFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var metric domain.Metric
	if f.metric != "" {
		if metric, err = domain.ParseMetric(f.metric); err != nil {
			return err
		}
	}

	var svc *service.Service
	if f.ratingsPath != "" {
		svc, err = csvService(cfg, f.ratingsPath, f.moviesPath)
		if err != nil {
			return err
		}
	} else {
		pool, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		if svc, err = dbService(ctx, cfg, pool); err != nil {
			return err
		}
	}

	res, err := svc.Evaluate(ctx, service.EvaluateRequest{
		TestRatio:          f.testRatio,
		Seed:               f.seed,
		RelevanceThreshold: f.threshold,
		K:                  f.k,
		N:                  f.n,
		Metric:             metric,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func dbService(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*service.Service, error) {
	svc := service.NewService(repository.New(pool), nil, serviceOptions(cfg))
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// csvService builds a service over an in-memory snapshot; it has no
// repository or cache and only serves read operations.
func csvService(cfg *config.Config, ratingsPath, moviesPath string) (*service.Service, error) {
	rs, err := readCSV(ratingsPath, ratings.ParseRatingsCSV)
	if err != nil {
		return nil, err
	}
	var movies []domain.Movie
	if moviesPath != "" {
		if movies, err = readCSV(moviesPath, ratings.ParseMoviesCSV); err != nil {
			return nil, err
		}
	}

	svc := service.NewService(nil, nil, serviceOptions(cfg))
	if err := svc.LoadSnapshot(rs, movies, nil); err != nil {
		return nil, err
	}
	return svc, nil
}

func readCSV[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
