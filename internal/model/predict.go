package model

import (
	"math"
	"sort"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

// PredictRating estimates how userID would rate movieID from the k most
// similar users who rated it:
//
//	score = sum(sim_i * r_i) / sum(|sim_i|)
//
// The result is unavailable when the user already rated the movie or when no
// selected neighbor has positive similarity.
func (e *Engine) PredictRating(userID, movieID int64, k int, metric domain.Metric) (domain.Prediction, error) {
	if err := domain.RequirePositive("neighborhood size", k); err != nil {
		return domain.Prediction{}, err
	}
	if err := requireMetric(metric); err != nil {
		return domain.Prediction{}, err
	}
	if err := e.requireUser(userID); err != nil {
		return domain.Prediction{}, err
	}
	if err := e.requireMovie(movieID); err != nil {
		return domain.Prediction{}, err
	}

	if _, rated := e.store.Rating(userID, movieID); rated {
		return domain.Prediction{UserID: userID, MovieID: movieID}, nil
	}

	sim := func(other int64) float64 {
		return e.similarity(userID, other, metric).Score
	}
	return e.predict(userID, movieID, k, sim), nil
}

// Neighbors returns the user's k most similar users over the whole store,
// skipping zero-similarity pairs.
func (e *Engine) Neighbors(userID int64, k int, metric domain.Metric) ([]domain.Neighbor, error) {
	if err := domain.RequirePositive("neighborhood size", k); err != nil {
		return nil, err
	}
	if err := requireMetric(metric); err != nil {
		return nil, err
	}
	if err := e.requireUser(userID); err != nil {
		return nil, err
	}

	sim := func(other int64) float64 {
		return e.similarity(userID, other, metric).Score
	}
	return selectNeighbors(userID, e.store.Users(), k, sim), nil
}

func (e *Engine) predict(userID, movieID int64, k int, sim func(int64) float64) domain.Prediction {
	p := domain.Prediction{UserID: userID, MovieID: movieID}

	neighbors := selectNeighbors(userID, e.store.RatersOf(movieID), k, sim)
	if len(neighbors) == 0 || neighbors[0].Similarity <= 0 {
		return p
	}

	var num, den float64
	for _, n := range neighbors {
		r, _ := e.store.Rating(n.UserID, movieID)
		num += n.Similarity * r
		den += math.Abs(n.Similarity)
	}
	if den == 0 {
		return p
	}

	p.Score = num / den
	p.Available = true
	p.Neighbors = len(neighbors)
	return p
}

// selectNeighbors ranks candidates by similarity descending, then user id
// ascending, and keeps at most k. The target and zero-similarity candidates
// are never selected.
func selectNeighbors(userID int64, candidates []int64, k int, sim func(int64) float64) []domain.Neighbor {
	out := make([]domain.Neighbor, 0, len(candidates))
	for _, c := range candidates {
		if c == userID {
			continue
		}
		s := sim(c)
		if s == 0 {
			continue
		}
		out = append(out, domain.Neighbor{UserID: c, Similarity: s})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}
