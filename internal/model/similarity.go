package model

import (
	"math"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Similarity scores two users over the movies both have rated. A pair with
// no usable overlap scores 0.
func (e *Engine) Similarity(userA, userB int64, metric domain.Metric) (domain.SimilarityScore, error) {
	if err := requireMetric(metric); err != nil {
		return domain.SimilarityScore{}, err
	}
	if err := e.requireUser(userA); err != nil {
		return domain.SimilarityScore{}, err
	}
	if err := e.requireUser(userB); err != nil {
		return domain.SimilarityScore{}, err
	}

	s := e.similarity(userA, userB, metric)
	s.UserA, s.UserB = userA, userB
	return s, nil
}

// similarity assumes both users exist and the metric is valid.
func (e *Engine) similarity(a, b int64, metric domain.Metric) domain.SimilarityScore {
	key := pairKey{lo: min(a, b), hi: max(a, b), metric: metric}
	if e.memo != nil {
		if s, ok := e.memo.Get(key); ok {
			return s
		}
	}

	// Always compute in (lo, hi) order so memoized and fresh results agree
	// bit for bit.
	var xs, ys []float64
	e.store.CoRated(key.lo, key.hi, func(_ int64, ra, rb float64) {
		xs = append(xs, ra)
		ys = append(ys, rb)
	})

	var score float64
	switch metric {
	case domain.MetricCosine:
		score = cosine(xs, ys)
	case domain.MetricPearson:
		score = pearson(xs, ys)
	}

	s := domain.SimilarityScore{
		UserA:      key.lo,
		UserB:      key.hi,
		Metric:     metric,
		Score:      score,
		SampleSize: len(xs),
	}
	if e.memo != nil {
		e.memo.Add(key, s)
	}
	return s
}

func cosine(xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	na, nb := floats.Norm(xs, 2), floats.Norm(ys, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(floats.Dot(xs, ys) / (na * nb))
}

// pearson centers each side on its mean over the co-rated subset only.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	meanA, meanB := stat.Mean(xs, nil), stat.Mean(ys, nil)

	var num, denA, denB float64
	for i := range xs {
		da, db := xs[i]-meanA, ys[i]-meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		return 0
	}
	return clamp(num / (math.Sqrt(denA) * math.Sqrt(denB)))
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
