package evaluation

import (
	"context"
	"testing"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/model"
	"github.com/actuallystonmai/cf-recommender/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingEngine(t *testing.T) *model.Engine {
	t.Helper()
	rs := []domain.Rating{
		{UserID: 1, MovieID: 1, Value: 5}, {UserID: 1, MovieID: 2, Value: 3},
		{UserID: 2, MovieID: 1, Value: 5}, {UserID: 2, MovieID: 2, Value: 3},
		{UserID: 2, MovieID: 3, Value: 4}, {UserID: 2, MovieID: 4, Value: 5},
		{UserID: 3, MovieID: 1, Value: 3}, {UserID: 3, MovieID: 2, Value: 5},
		{UserID: 3, MovieID: 3, Value: 2}, {UserID: 3, MovieID: 4, Value: 1},
	}
	movies := []domain.Movie{
		{ID: 1, Genre: "action"}, {ID: 2, Genre: "drama"},
		{ID: 3, Genre: "sci-fi"}, {ID: 4, Genre: "comedy"},
	}
	store, err := ratings.New(domain.DefaultScale(), rs, movies)
	require.NoError(t, err)
	e, err := model.NewEngine(store, 256)
	require.NoError(t, err)
	return e
}

func TestEvaluate(t *testing.T) {
	e := trainingEngine(t)
	test := []domain.Rating{
		{UserID: 1, MovieID: 3, Value: 4.5},
		{UserID: 1, MovieID: 4, Value: 2},
		{UserID: 9, MovieID: 1, Value: 3},
	}

	res, err := Evaluate(context.Background(), e, test, Params{
		Metric:             domain.MetricCosine,
		Neighbors:          10,
		TopN:               2,
		RelevanceThreshold: 4,
	})
	require.NoError(t, err)

	// predictions: movie 3 -> 98/32, movie 4 -> 100/32
	assert.Equal(t, 3, res.TestRatings)
	assert.Equal(t, 2, res.Predicted)
	assert.InDelta(t, 2.0/3, res.Coverage, 1e-9)
	assert.InDelta(t, 1.28125, res.MAE, 1e-9)
	assert.InDelta(t, 1.2907423, res.RMSE, 1e-6)

	assert.Equal(t, 1, res.UsersRanked)
	assert.Equal(t, 1, res.UsersExcluded)
	assert.InDelta(t, 0.5, res.PrecisionAtK, 1e-9)
	assert.InDelta(t, 1.0, res.RecallAtK, 1e-9)
	assert.InDelta(t, 2.0/3, res.F1AtK, 1e-9)
	assert.InDelta(t, 0.5, res.CatalogCoverage, 1e-9)
	assert.InDelta(t, 1.0, res.Diversity, 1e-9)
}

func TestEvaluateExcludesUsersWithoutRelevantItems(t *testing.T) {
	e := trainingEngine(t)
	test := []domain.Rating{
		{UserID: 1, MovieID: 3, Value: 4.5},
		{UserID: 1, MovieID: 4, Value: 2},
		// User 2 is ranked but has nothing at or above the threshold.
		{UserID: 2, MovieID: 1, Value: 2},
	}

	res, err := Evaluate(context.Background(), e, test, Params{
		Metric:             domain.MetricCosine,
		Neighbors:          10,
		TopN:               2,
		RelevanceThreshold: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.UsersRanked)
	assert.Equal(t, 1, res.UsersExcluded)
	// Only user 1 enters the averages.
	assert.InDelta(t, 0.5, res.PrecisionAtK, 1e-9)
	assert.InDelta(t, 1.0, res.RecallAtK, 1e-9)
	assert.InDelta(t, 2.0/3, res.F1AtK, 1e-9)
}

func TestEvaluateIsDeterministicAcrossWorkerCounts(t *testing.T) {
	e := trainingEngine(t)
	test := []domain.Rating{
		{UserID: 1, MovieID: 3, Value: 4.5},
		{UserID: 1, MovieID: 4, Value: 2},
	}
	base := Params{Metric: domain.MetricPearson, Neighbors: 2, TopN: 3, RelevanceThreshold: 3.5}

	serial := base
	serial.Workers = 1
	a, err := Evaluate(context.Background(), e, test, serial)
	require.NoError(t, err)

	parallel := base
	parallel.Workers = 8
	b, err := Evaluate(context.Background(), e, test, parallel)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEvaluateOnSplitSnapshot(t *testing.T) {
	full := trainingEngine(t).Store()
	train, test, err := full.Split(0.5, 42)
	require.NoError(t, err)
	e, err := model.NewEngine(train, 0)
	require.NoError(t, err)

	res, err := Evaluate(context.Background(), e, test, Params{
		Metric: domain.MetricCosine, Neighbors: 5, TopN: 2, RelevanceThreshold: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, len(test), res.TestRatings)
	assert.LessOrEqual(t, res.Predicted, res.TestRatings)
	assert.GreaterOrEqual(t, res.Coverage, 0.0)
	assert.LessOrEqual(t, res.Coverage, 1.0)
}

func TestEvaluateRejectsBadParams(t *testing.T) {
	e := trainingEngine(t)
	valid := Params{Metric: domain.MetricCosine, Neighbors: 5, TopN: 5, RelevanceThreshold: 4}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero neighbors", func(p *Params) { p.Neighbors = 0 }},
		{"zero top n", func(p *Params) { p.TopN = 0 }},
		{"unknown metric", func(p *Params) { p.Metric = "manhattan" }},
		{"threshold above scale", func(p *Params) { p.RelevanceThreshold = 6 }},
		{"threshold below scale", func(p *Params) { p.RelevanceThreshold = 0.1 }},
		{"negative workers", func(p *Params) { p.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			_, err := Evaluate(context.Background(), e, nil, p)
			assert.True(t, domain.IsConfigError(err), "got %v", err)
		})
	}
}
