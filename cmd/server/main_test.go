package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/actuallystonmai/cf-recommender/internal/config"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "evaluate"} {
		assert.True(t, names[want], "missing %s command", want)
	}

	migrate, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "down", migrate.Name())
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestEvaluateFromCSV(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))

	ratingsPath := writeFile(t, dir, "ratings.csv", `userId,movieId,rating,timestamp
1,1,5,0
1,2,4,0
1,3,1,0
1,4,4.5,0
2,1,4.5,0
2,2,4,0
2,3,1.5,0
2,5,5,0
3,1,1,0
3,3,5,0
3,4,2,0
3,5,1,0
4,2,4,0
4,4,5,0
4,5,4.5,0
`)
	moviesPath := writeFile(t, dir, "movies.csv", `movieId,title,genres
1,Alien (1979),Sci-Fi|Horror
2,Heat (1995),Action|Crime
3,Big (1988),Comedy
4,Dune (2021),Sci-Fi
5,Fargo (1996),Thriller
`)

	run := func() map[string]any {
		var out bytes.Buffer
		err := runEvaluate(context.Background(), &out, evaluateFlags{
			ratingsPath: ratingsPath,
			moviesPath:  moviesPath,
			testRatio:   0.25,
			seed:        3,
			k:           3,
			n:           2,
			metric:      "pearson",
		})
		require.NoError(t, err)

		var res map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		return res
	}

	first := run()
	assert.Equal(t, float64(4), first["test_ratings"])
	assert.Contains(t, first, "rmse")
	assert.Equal(t, first, run())
}

func TestEvaluateRejectsUnknownMetric(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))

	err := runEvaluate(context.Background(), &bytes.Buffer{}, evaluateFlags{
		ratingsPath: writeFile(t, dir, "ratings.csv", "userId,movieId,rating\n1,1,5\n"),
		metric:      "jaccard",
	})
	assert.Error(t, err)
}

func TestCommandErrorsArePrinted(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	ratingsPath := writeFile(t, dir, "ratings.csv", "userId,movieId,rating\n1,1,5\n1,2,4\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown metric", []string{"evaluate", "--ratings", ratingsPath, "--metric", "jaccard"}, "invalid metric"},
		{"missing file", []string{"evaluate", "--ratings", filepath.Join(dir, "nope.csv")}, "nope.csv"},
		{"bad ratio", []string{"evaluate", "--ratings", ratingsPath, "--test-ratio", "2"}, "invalid test ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			root := newRootCmd()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&stderr)

			require.Error(t, root.Execute())
			assert.Contains(t, stderr.String(), "Error: ")
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestEvaluateMissingFile(t *testing.T) {
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	err := runEvaluate(context.Background(), &bytes.Buffer{}, evaluateFlags{ratingsPath: "/nonexistent/ratings.csv"})
	assert.ErrorContains(t, err, "open /nonexistent/ratings.csv")
}
