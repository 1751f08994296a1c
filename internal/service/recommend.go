package service

import (
	"context"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/cache"
	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/metrics"
)

// Query carries per-request overrides; zero values fall back to Defaults.
type Query struct {
	Limit  int
	K      int
	Metric domain.Metric
}

func (s *Service) resolve(q Query) Query {
	if q.Limit == 0 {
		q.Limit = s.opts.Defaults.TopN
	}
	if q.K == 0 {
		q.K = s.opts.Defaults.Neighbors
	}
	if q.Metric == "" {
		q.Metric = s.opts.Defaults.Metric
	}
	return q
}

// Resolved reports the parameters a query will run with.
func (s *Service) Resolved(q Query) Query {
	return s.resolve(q)
}

func (s *Service) GetRecommendations(ctx context.Context, userID int64, q Query) (*domain.RecommendationResult, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	q = s.resolve(q)
	key := cache.Key{Version: st.version, UserID: userID, Limit: q.Limit, K: q.K, Metric: q.Metric}

	// Check Cache
	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("get").Inc()
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("cache get error")
	}

	if found {
		metrics.RecommendationRequests.WithLabelValues("hit").Inc()
		return &domain.RecommendationResult{
			Recommendations: cached,
			CacheHit:        true,
		}, nil
	}

	// Cache miss -> generate recommendations
	start := time.Now()
	recs, err := st.engine.Recommend(userID, q.Limit, q.K, q.Metric)
	if err != nil {
		metrics.RecommendationRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RecommendationDuration.WithLabelValues(q.Metric.String()).Observe(time.Since(start).Seconds())
	metrics.RecommendationRequests.WithLabelValues("miss").Inc()

	if cacheErr := s.cache.Set(ctx, key, recs); cacheErr != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		s.log.Warn().Err(cacheErr).Int64("user_id", userID).Msg("cache set error")
	}

	return &domain.RecommendationResult{
		Recommendations: recs,
		CacheHit:        false,
	}, nil
}

func (s *Service) Similarity(userA, userB int64, metric domain.Metric) (domain.SimilarityScore, error) {
	st, err := s.state()
	if err != nil {
		return domain.SimilarityScore{}, err
	}
	return st.engine.Similarity(userA, userB, s.resolve(Query{Metric: metric}).Metric)
}

func (s *Service) Predict(userID, movieID int64, q Query) (domain.Prediction, error) {
	st, err := s.state()
	if err != nil {
		return domain.Prediction{}, err
	}
	q = s.resolve(q)
	p, err := st.engine.PredictRating(userID, movieID, q.K, q.Metric)
	if err != nil {
		return domain.Prediction{}, err
	}
	if p.Available {
		metrics.Predictions.WithLabelValues("true").Inc()
	} else {
		metrics.Predictions.WithLabelValues("false").Inc()
	}
	return p, nil
}

func (s *Service) Neighbors(userID int64, q Query) ([]domain.Neighbor, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	q = s.resolve(q)
	return st.engine.Neighbors(userID, q.K, q.Metric)
}
