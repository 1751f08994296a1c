package ratings

import (
	"strings"
	"testing"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRatings() []domain.Rating {
	return []domain.Rating{
		{UserID: 1, MovieID: 10, Value: 5},
		{UserID: 1, MovieID: 11, Value: 3},
		{UserID: 2, MovieID: 10, Value: 4},
		{UserID: 2, MovieID: 12, Value: 2.5},
		{UserID: 3, MovieID: 11, Value: 1},
	}
}

func TestNewBuildsIndexes(t *testing.T) {
	movies := []domain.Movie{{ID: 10, Title: "Alien", Genre: "sci-fi"}, {ID: 99, Title: "Unrated", Genre: "drama"}}
	s, err := New(domain.DefaultScale(), sampleRatings(), movies, WithUsers(4))
	require.NoError(t, err)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []int64{1, 2, 3, 4}, s.Users())
	assert.Equal(t, []int64{10, 11, 12, 99}, s.Catalog())
	assert.Equal(t, []int64{1, 2}, s.RatersOf(10))
	assert.True(t, s.HasUser(4))
	assert.Zero(t, s.ProfileSize(4))
	assert.True(t, s.HasMovie(99))
	assert.False(t, s.HasMovie(100))

	v, ok := s.Rating(2, 12)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	assert.Equal(t, "sci-fi", s.Genre(10))
	assert.Equal(t, domain.UnknownGenre, s.Genre(11))
}

func TestProfileIsACopy(t *testing.T) {
	s, err := New(domain.DefaultScale(), sampleRatings(), nil)
	require.NoError(t, err)

	p := s.Profile(1)
	p[10] = 0.5
	delete(p, 11)

	v, _ := s.Rating(1, 10)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, 2, s.ProfileSize(1))
	assert.Nil(t, s.Profile(42))
}

func TestNewRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		ratings []domain.Rating
		want    error
	}{
		{"out of scale", []domain.Rating{{UserID: 1, MovieID: 1, Value: 5.5}}, ErrInvalidRating},
		{"below scale", []domain.Rating{{UserID: 1, MovieID: 1, Value: 0}}, ErrInvalidRating},
		{"bad user", []domain.Rating{{UserID: 0, MovieID: 1, Value: 3}}, ErrInvalidRating},
		{"bad movie", []domain.Rating{{UserID: 1, MovieID: -2, Value: 3}}, ErrInvalidRating},
		{"duplicate", []domain.Rating{{UserID: 1, MovieID: 1, Value: 3}, {UserID: 1, MovieID: 1, Value: 4}}, ErrDuplicateRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(domain.DefaultScale(), tt.ratings, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewRejectsBadMovies(t *testing.T) {
	_, err := New(domain.DefaultScale(), nil, []domain.Movie{{ID: 0, Title: "Untitled"}})
	assert.ErrorIs(t, err, ErrInvalidMovie)
	assert.NotErrorIs(t, err, ErrInvalidRating)

	_, err = New(domain.DefaultScale(), nil, []domain.Movie{
		{ID: 3, Title: "Heat", Genre: "action"},
		{ID: 3, Title: "Heat (1995)", Genre: "crime"},
	})
	require.ErrorIs(t, err, ErrDuplicateMovie)
	assert.Contains(t, err.Error(), "movie 1 (id 3)")
}

func TestNewRejectsInvertedScale(t *testing.T) {
	_, err := New(domain.RatingScale{Min: 5, Max: 1}, nil, nil)
	assert.True(t, domain.IsConfigError(err))
}

func TestCoRatedKeepsArgumentOrder(t *testing.T) {
	s, err := New(domain.DefaultScale(), sampleRatings(), nil)
	require.NoError(t, err)

	var got [][3]float64
	s.CoRated(2, 1, func(id int64, a, b float64) {
		got = append(got, [3]float64{float64(id), a, b})
	})
	assert.Equal(t, [][3]float64{{10, 4, 5}}, got)
}

func TestRatingsRoundTrip(t *testing.T) {
	s, err := New(domain.DefaultScale(), sampleRatings(), nil)
	require.NoError(t, err)
	assert.Equal(t, sampleRatings(), s.Ratings())
}

func TestParseRatingsCSV(t *testing.T) {
	in := "userId,movieId,rating,timestamp\n1,10,4.5,964982703\n2,11,3,964982224\n"
	rs, err := ParseRatingsCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.Rating{
		{UserID: 1, MovieID: 10, Value: 4.5},
		{UserID: 2, MovieID: 11, Value: 3},
	}, rs)
}

func TestParseRatingsCSVFailsFast(t *testing.T) {
	in := "userId,movieId,rating\n1,10,4.5\n2,abc,3\n"
	_, err := ParseRatingsCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, err = ParseRatingsCSV(strings.NewReader("userId,movieId,rating\n1,10\n"))
	assert.Error(t, err)
}

func TestParseMoviesCSV(t *testing.T) {
	in := "movieId,title,genres\n1,Toy Story (1995),Adventure|Animation\n2,\"Heat, The\",Crime\n"
	ms, err := ParseMoviesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, domain.Movie{ID: 1, Title: "Toy Story (1995)", Genre: "Adventure", Year: 1995}, ms[0])
	assert.Equal(t, "Heat, The", ms[1].Title)
	assert.Zero(t, ms[1].Year)
}
