package service

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/evaluation"
	"github.com/actuallystonmai/cf-recommender/internal/metrics"
	"github.com/actuallystonmai/cf-recommender/internal/model"
)

type EvaluateRequest struct {
	TestRatio          float64
	Seed               int64
	RelevanceThreshold float64
	K                  int
	N                  int
	Metric             domain.Metric
}

// Evaluate splits the active snapshot into train/test and scores an engine
// built on the training part. A zero seed uses the configured seed.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (domain.EvaluationResult, error) {
	st, err := s.state()
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	d := s.opts.Defaults
	if req.TestRatio == 0 {
		req.TestRatio = d.TestRatio
	}
	if req.Seed == 0 {
		req.Seed = d.Seed
	}
	if req.RelevanceThreshold == 0 {
		req.RelevanceThreshold = d.RelevanceThreshold
	}
	q := s.resolve(Query{Limit: req.N, K: req.K, Metric: req.Metric})

	start := time.Now()
	train, test, err := st.engine.Store().Split(req.TestRatio, req.Seed)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	engine, err := model.NewEngine(train, s.opts.MemoSize)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("build training engine: %w", err)
	}

	res, err := evaluation.Evaluate(ctx, engine, test, evaluation.Params{
		Metric:             q.Metric,
		Neighbors:          q.K,
		TopN:               q.Limit,
		RelevanceThreshold: req.RelevanceThreshold,
	})
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	metrics.EvaluationRuns.Inc()
	s.log.Info().
		Str("metric", q.Metric.String()).
		Int("k", q.K).
		Int("n", q.Limit).
		Float64("mae", res.MAE).
		Float64("rmse", res.RMSE).
		Float64("precision", res.PrecisionAtK).
		Dur("took", time.Since(start)).
		Msg("evaluation finished")
	return res, nil
}
