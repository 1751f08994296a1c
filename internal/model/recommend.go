package model

import (
	"sort"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

// Recommend predicts every movie the user has not rated and returns the topN
// highest, ties broken by movie id. A user with no viable predictions gets an
// empty list, not an error.
func (e *Engine) Recommend(userID int64, topN, k int, metric domain.Metric) ([]domain.Recommendation, error) {
	if err := domain.RequirePositive("top n", topN); err != nil {
		return nil, err
	}
	if err := domain.RequirePositive("neighborhood size", k); err != nil {
		return nil, err
	}
	if err := requireMetric(metric); err != nil {
		return nil, err
	}
	if err := e.requireUser(userID); err != nil {
		return nil, err
	}

	recs := []domain.Recommendation{}
	if e.store.ProfileSize(userID) == 0 {
		return recs, nil
	}

	// One similarity per other user for the whole request.
	sims := make(map[int64]float64)
	for _, other := range e.store.Users() {
		if other != userID {
			sims[other] = e.similarity(userID, other, metric).Score
		}
	}
	sim := func(other int64) float64 { return sims[other] }

	for _, movieID := range e.store.Catalog() {
		if _, rated := e.store.Rating(userID, movieID); rated {
			continue
		}
		p := e.predict(userID, movieID, k, sim)
		if !p.Available {
			continue
		}
		recs = append(recs, domain.Recommendation{MovieID: movieID, Score: p.Score})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].MovieID < recs[j].MovieID
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}

	for i := range recs {
		recs[i].Rank = i + 1
		if m, ok := e.store.Movie(recs[i].MovieID); ok {
			recs[i].Title = m.Title
			recs[i].Genre = m.Genre
		}
	}
	return recs, nil
}
