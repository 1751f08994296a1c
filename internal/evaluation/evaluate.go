// Package evaluation scores a collaborative-filtering engine against held-out
// ratings.
package evaluation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/model"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Params configures one evaluation run. Neighbors is the neighborhood size
// K, TopN the list length N at which precision and recall are measured.
type Params struct {
	Metric             domain.Metric
	Neighbors          int
	TopN               int
	RelevanceThreshold float64
	// Workers bounds parallel per-user ranking; 0 means GOMAXPROCS.
	Workers int
}

func (p Params) validate(scale domain.RatingScale) error {
	if err := domain.RequirePositive("neighborhood size", p.Neighbors); err != nil {
		return err
	}
	if err := domain.RequirePositive("top n", p.TopN); err != nil {
		return err
	}
	if !p.Metric.Valid() {
		return &domain.ConfigError{Field: "metric", Value: string(p.Metric), Reason: "must be cosine or pearson"}
	}
	if math.IsNaN(p.RelevanceThreshold) || !scale.Contains(p.RelevanceThreshold) {
		return &domain.ConfigError{
			Field:  "relevance threshold",
			Value:  p.RelevanceThreshold,
			Reason: fmt.Sprintf("must be within [%v, %v]", scale.Min, scale.Max),
		}
	}
	if p.Workers < 0 {
		return &domain.ConfigError{Field: "workers", Value: p.Workers, Reason: "must not be negative"}
	}
	return nil
}

type userRanking struct {
	recommended []int64
	relevant    map[int64]struct{}
}

// Evaluate scores engine, which must be built on the training split, against
// the held-out test ratings.
//
// Test users unknown to the training data and users without a relevant
// held-out movie are left out of the precision and recall averages and
// counted in UsersExcluded.
func Evaluate(ctx context.Context, engine *model.Engine, test []domain.Rating, p Params) (domain.EvaluationResult, error) {
	store := engine.Store()
	if err := p.validate(store.Scale()); err != nil {
		return domain.EvaluationResult{}, err
	}

	res := domain.EvaluationResult{TestRatings: len(test)}

	var actual, predicted []float64
	byUser := make(map[int64][]domain.Rating)
	for _, t := range test {
		byUser[t.UserID] = append(byUser[t.UserID], t)

		if !store.HasUser(t.UserID) || !store.HasMovie(t.MovieID) {
			continue
		}
		pred, err := engine.PredictRating(t.UserID, t.MovieID, p.Neighbors, p.Metric)
		if err != nil {
			return domain.EvaluationResult{}, fmt.Errorf("predict user %d movie %d: %w", t.UserID, t.MovieID, err)
		}
		if !pred.Available {
			continue
		}
		actual = append(actual, t.Value)
		predicted = append(predicted, pred.Score)
	}

	res.Predicted = len(actual)
	res.MAE = MAE(actual, predicted)
	res.RMSE = RMSE(actual, predicted)
	if len(test) > 0 {
		res.Coverage = float64(len(actual)) / float64(len(test))
	}

	users := make([]int64, 0, len(byUser))
	for u := range byUser {
		if store.HasUser(u) {
			users = append(users, u)
		} else {
			res.UsersExcluded++
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	rankings, err := rankUsers(ctx, engine, users, byUser, p)
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	var precisions, recalls []float64
	lists := make([][]int64, 0, len(rankings))
	for _, rk := range rankings {
		lists = append(lists, rk.recommended)
		if len(rk.relevant) == 0 {
			res.UsersExcluded++
			continue
		}
		precisions = append(precisions, PrecisionAtK(rk.recommended, rk.relevant, p.TopN))
		recalls = append(recalls, RecallAtK(rk.recommended, rk.relevant, p.TopN))
	}

	res.UsersRanked = len(rankings)
	res.PrecisionAtK = mean(precisions)
	res.RecallAtK = mean(recalls)
	res.F1AtK = F1(res.PrecisionAtK, res.RecallAtK)
	res.CatalogCoverage = CatalogCoverage(lists, len(store.Catalog()))
	res.Diversity = Diversity(lists, store.Genre)

	return res, nil
}

// rankUsers builds each user's top-N list in parallel. Results land in the
// slot of the user's index, so the output order never depends on scheduling.
func rankUsers(ctx context.Context, engine *model.Engine, users []int64, byUser map[int64][]domain.Rating, p Params) ([]userRanking, error) {
	out := make([]userRanking, len(users))

	workers := p.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, u := range users {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := engine.Recommend(u, p.TopN, p.Neighbors, p.Metric)
			if err != nil {
				return fmt.Errorf("recommend user %d: %w", u, err)
			}
			ids := make([]int64, len(recs))
			for j, rec := range recs {
				ids[j] = rec.MovieID
			}
			relevant := make(map[int64]struct{})
			for _, t := range byUser[u] {
				if t.Value >= p.RelevanceThreshold {
					relevant[t.MovieID] = struct{}{}
				}
			}
			out[i] = userRanking{recommended: ids, relevant: relevant}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
