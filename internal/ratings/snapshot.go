// Package ratings holds the immutable in-memory rating store that the
// collaborative-filtering engine reads from.
package ratings

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

var (
	ErrInvalidRating   = errors.New("invalid rating")
	ErrDuplicateRating = errors.New("duplicate rating")
	ErrInvalidMovie    = errors.New("invalid movie")
	ErrDuplicateMovie  = errors.New("duplicate movie")
)

// Snapshot is a read-only view of all ratings and movie metadata. It is safe
// for concurrent use because nothing mutates it after New returns.
type Snapshot struct {
	scale   domain.RatingScale
	byUser  map[int64]map[int64]float64
	byMovie map[int64][]int64 // sorted rater ids
	movies  map[int64]domain.Movie
	users   []int64
	catalog []int64
	count   int
}

type Option func(*options)

type options struct {
	users []int64
}

// WithUsers registers users that may have no ratings yet.
func WithUsers(ids ...int64) Option {
	return func(o *options) {
		o.users = append(o.users, ids...)
	}
}

// New validates every rating and movie and builds a snapshot. The first bad
// row aborts construction.
func New(scale domain.RatingScale, rs []domain.Rating, movies []domain.Movie, opts ...Option) (*Snapshot, error) {
	if math.IsNaN(scale.Min) || math.IsNaN(scale.Max) || scale.Min >= scale.Max {
		return nil, &domain.ConfigError{Field: "rating scale", Value: scale, Reason: "min must be below max"}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Snapshot{
		scale:   scale,
		byUser:  make(map[int64]map[int64]float64),
		byMovie: make(map[int64][]int64),
		movies:  make(map[int64]domain.Movie, len(movies)),
	}

	for i, m := range movies {
		if m.ID <= 0 {
			return nil, fmt.Errorf("movie %d (id %d): %w: id must be positive", i, m.ID, ErrInvalidMovie)
		}
		if _, dup := s.movies[m.ID]; dup {
			return nil, fmt.Errorf("movie %d (id %d): %w", i, m.ID, ErrDuplicateMovie)
		}
		s.movies[m.ID] = m
	}

	for _, id := range o.users {
		if id <= 0 {
			return nil, fmt.Errorf("user id %d: %w: id must be positive", id, ErrInvalidRating)
		}
		if _, ok := s.byUser[id]; !ok {
			s.byUser[id] = make(map[int64]float64)
		}
	}

	for i, r := range rs {
		if err := s.validate(r); err != nil {
			return nil, fmt.Errorf("rating %d (user %d, movie %d): %w", i, r.UserID, r.MovieID, err)
		}
		profile, ok := s.byUser[r.UserID]
		if !ok {
			profile = make(map[int64]float64)
			s.byUser[r.UserID] = profile
		}
		if _, dup := profile[r.MovieID]; dup {
			return nil, fmt.Errorf("rating %d (user %d, movie %d): %w", i, r.UserID, r.MovieID, ErrDuplicateRating)
		}
		profile[r.MovieID] = r.Value
		s.byMovie[r.MovieID] = append(s.byMovie[r.MovieID], r.UserID)
		s.count++
	}

	for _, raters := range s.byMovie {
		sort.Slice(raters, func(i, j int) bool { return raters[i] < raters[j] })
	}

	s.users = make([]int64, 0, len(s.byUser))
	for id := range s.byUser {
		s.users = append(s.users, id)
	}
	sort.Slice(s.users, func(i, j int) bool { return s.users[i] < s.users[j] })

	seen := make(map[int64]struct{}, len(s.movies)+len(s.byMovie))
	for id := range s.movies {
		seen[id] = struct{}{}
	}
	for id := range s.byMovie {
		seen[id] = struct{}{}
	}
	s.catalog = make([]int64, 0, len(seen))
	for id := range seen {
		s.catalog = append(s.catalog, id)
	}
	sort.Slice(s.catalog, func(i, j int) bool { return s.catalog[i] < s.catalog[j] })

	return s, nil
}

func (s *Snapshot) validate(r domain.Rating) error {
	switch {
	case r.UserID <= 0:
		return fmt.Errorf("%w: user id must be positive", ErrInvalidRating)
	case r.MovieID <= 0:
		return fmt.Errorf("%w: movie id must be positive", ErrInvalidRating)
	case math.IsNaN(r.Value) || !s.scale.Contains(r.Value):
		return fmt.Errorf("%w: value %v outside [%v, %v]", ErrInvalidRating, r.Value, s.scale.Min, s.scale.Max)
	}
	return nil
}

func (s *Snapshot) Scale() domain.RatingScale { return s.scale }

// Len is the number of ratings.
func (s *Snapshot) Len() int { return s.count }

func (s *Snapshot) HasUser(id int64) bool {
	_, ok := s.byUser[id]
	return ok
}

func (s *Snapshot) HasMovie(id int64) bool {
	if _, ok := s.movies[id]; ok {
		return true
	}
	_, ok := s.byMovie[id]
	return ok
}

// Profile returns a copy of the user's ratings, or nil if the user is unknown.
func (s *Snapshot) Profile(userID int64) domain.Profile {
	src, ok := s.byUser[userID]
	if !ok {
		return nil
	}
	out := make(domain.Profile, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func (s *Snapshot) Rating(userID, movieID int64) (float64, bool) {
	v, ok := s.byUser[userID][movieID]
	return v, ok
}

// ProfileSize is the number of movies the user has rated.
func (s *Snapshot) ProfileSize(userID int64) int {
	return len(s.byUser[userID])
}

// Users returns all known user ids in ascending order.
func (s *Snapshot) Users() []int64 {
	return append([]int64(nil), s.users...)
}

// Catalog returns every movie id that has metadata or at least one rating,
// ascending.
func (s *Snapshot) Catalog() []int64 {
	return append([]int64(nil), s.catalog...)
}

// RatersOf returns the ids of users who rated the movie, ascending.
func (s *Snapshot) RatersOf(movieID int64) []int64 {
	return append([]int64(nil), s.byMovie[movieID]...)
}

func (s *Snapshot) Movie(id int64) (domain.Movie, bool) {
	m, ok := s.movies[id]
	return m, ok
}

// Genre returns the movie's genre, or domain.UnknownGenre without metadata.
func (s *Snapshot) Genre(id int64) string {
	if m, ok := s.movies[id]; ok && m.Genre != "" {
		return m.Genre
	}
	return domain.UnknownGenre
}

// CoRated calls fn for every movie both users rated, in ascending movie order.
func (s *Snapshot) CoRated(a, b int64, fn func(movieID int64, ra, rb float64)) {
	pa, pb := s.byUser[a], s.byUser[b]
	small, large := pa, pb
	if len(pb) < len(pa) {
		small, large = pb, pa
	}
	ids := make([]int64, 0, len(small))
	for id := range small {
		if _, ok := large[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, pa[id], pb[id])
	}
}

// Ratings returns every rating ordered by user then movie.
func (s *Snapshot) Ratings() []domain.Rating {
	out := make([]domain.Rating, 0, s.count)
	for _, u := range s.users {
		profile := s.byUser[u]
		ids := make([]int64, 0, len(profile))
		for id := range profile {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			out = append(out, domain.Rating{UserID: u, MovieID: id, Value: profile[id]})
		}
	}
	return out
}

// Movies returns all movie metadata ordered by id.
func (s *Snapshot) Movies() []domain.Movie {
	out := make([]domain.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
