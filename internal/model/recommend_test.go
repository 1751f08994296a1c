package model

import (
	"testing"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenMovieEngine has a 10-movie catalog; user 1 rated movies 1-8.
func tenMovieEngine(t *testing.T) *Engine {
	var rs []domain.Rating
	for m := int64(1); m <= 10; m++ {
		if m <= 8 {
			rs = append(rs, r(1, m, float64(m%5)+1))
		}
		rs = append(rs, r(2, m, float64(m%5)+0.5))
		rs = append(rs, r(3, m, float64((m+2)%5)+1))
	}
	movies := make([]domain.Movie, 0, 10)
	for m := int64(1); m <= 10; m++ {
		movies = append(movies, domain.Movie{ID: m, Title: "Movie", Genre: "drama"})
	}
	return newEngine(t, rs, movies, ratings.WithUsers(4))
}

func TestRecommendExcludesRatedMovies(t *testing.T) {
	e := tenMovieEngine(t)

	recs, err := e.Recommend(1, 5, 10, domain.MetricCosine)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	for i, rec := range recs {
		_, rated := e.Store().Rating(1, rec.MovieID)
		assert.False(t, rated)
		assert.Equal(t, i+1, rec.Rank)
		assert.Equal(t, "drama", rec.Genre)
	}
	assert.GreaterOrEqual(t, recs[0].Score, recs[1].Score)
}

func TestRecommendTruncatesAndSorts(t *testing.T) {
	e := predictionFixture(t)
	// add a user with nothing but movie 1 so everything else is a candidate
	store, err := ratings.New(domain.DefaultScale(), append(e.Store().Ratings(), r(4, 1, 4)), e.Store().Movies())
	require.NoError(t, err)
	e, err = NewEngine(store, 0)
	require.NoError(t, err)

	recs, err := e.Recommend(4, 1, 10, domain.MetricCosine)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = e.Recommend(4, 10, 10, domain.MetricCosine)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.GreaterOrEqual(t, recs[0].Score, recs[1].Score)
}

func TestRecommendIsIdempotent(t *testing.T) {
	e := tenMovieEngine(t)

	first, err := e.Recommend(1, 5, 2, domain.MetricPearson)
	require.NoError(t, err)
	second, err := e.Recommend(1, 5, 2, domain.MetricPearson)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommendColdStartIsEmpty(t *testing.T) {
	e := tenMovieEngine(t)

	recs, err := e.Recommend(4, 5, 10, domain.MetricCosine)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendTieBreaksByMovieID(t *testing.T) {
	e := newEngine(t, []domain.Rating{
		r(1, 1, 4),
		r(2, 1, 4), r(2, 5, 3), r(2, 3, 3), r(2, 4, 5),
	}, nil)

	recs, err := e.Recommend(1, 3, 5, domain.MetricCosine)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{4, 3, 5}, []int64{recs[0].MovieID, recs[1].MovieID, recs[2].MovieID})
}

func TestRecommendErrors(t *testing.T) {
	e := tenMovieEngine(t)

	_, err := e.Recommend(1, 0, 10, domain.MetricCosine)
	assert.True(t, domain.IsConfigError(err))
	_, err = e.Recommend(1, 5, -1, domain.MetricCosine)
	assert.True(t, domain.IsConfigError(err))
	_, err = e.Recommend(1, 5, 10, domain.Metric("euclid"))
	assert.True(t, domain.IsConfigError(err))
	_, err = e.Recommend(99, 5, 10, domain.MetricCosine)
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}
