package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/cache"
	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/logging"
	"github.com/actuallystonmai/cf-recommender/internal/metrics"
	"github.com/actuallystonmai/cf-recommender/internal/model"
	"github.com/actuallystonmai/cf-recommender/internal/ratings"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNotReady is returned until the first snapshot has been loaded.
var ErrNotReady = errors.New("rating snapshot not loaded")

type Repository interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	ListRatings(ctx context.Context) ([]domain.Rating, error)
	GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error)
	CountUsers(ctx context.Context) (int, error)
	UpsertRating(ctx context.Context, r domain.Rating) error
}

type Cache interface {
	Get(ctx context.Context, k cache.Key) ([]domain.Recommendation, bool, error)
	Set(ctx context.Context, k cache.Key, recs []domain.Recommendation) error
	ClearUserCache(ctx context.Context, userID int64) error
}

// Defaults fill in request parameters left at their zero value.
type Defaults struct {
	Neighbors          int
	TopN               int
	Metric             domain.Metric
	RelevanceThreshold float64
	TestRatio          float64
	Seed               int64
}

type Options struct {
	Scale            domain.RatingScale
	Defaults         Defaults
	MemoSize         int
	BatchConcurrency int
}

type snapshotState struct {
	version int64
	engine  *model.Engine
}

type Service struct {
	repo  Repository
	cache Cache
	opts  Options

	// reloadMu spans the repository reads and the swap, so a snapshot read
	// earlier can never replace one read later.
	reloadMu sync.Mutex
	current  atomic.Pointer[snapshotState]

	log zerolog.Logger
}

func NewService(repo Repository, c Cache, opts Options) *Service {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 10
	}
	return &Service{
		repo:  repo,
		cache: c,
		opts:  opts,
		log:   logging.Component("service"),
	}
}

// Reload rebuilds the rating snapshot from the repository and swaps it in.
// Readers keep using the previous snapshot until the swap. Concurrent
// reloads run one at a time.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()

	var (
		userIDs []int64
		movies  []domain.Movie
		rs      []domain.Rating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		userIDs, err = s.repo.ListUserIDs(gctx)
		return err
	})
	g.Go(func() (err error) {
		movies, err = s.repo.ListMovies(gctx)
		return err
	})
	g.Go(func() (err error) {
		rs, err = s.repo.ListRatings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load snapshot data: %w", err)
	}

	if err := s.install(rs, movies, userIDs); err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		return err
	}

	metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	s.log.Info().
		Int("users", len(userIDs)).
		Int("movies", len(movies)).
		Int("ratings", len(rs)).
		Dur("took", time.Since(start)).
		Msg("snapshot loaded")
	return nil
}

// LoadSnapshot installs a snapshot built from in-memory data.
func (s *Service) LoadSnapshot(rs []domain.Rating, movies []domain.Movie, userIDs []int64) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.install(rs, movies, userIDs)
}

// install must be called with reloadMu held.
func (s *Service) install(rs []domain.Rating, movies []domain.Movie, userIDs []int64) error {
	store, err := ratings.New(s.opts.Scale, rs, movies, ratings.WithUsers(userIDs...))
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	engine, err := model.NewEngine(store, s.opts.MemoSize)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	version := time.Now().UnixNano()
	if prev := s.current.Load(); prev != nil && version <= prev.version {
		version = prev.version + 1
	}
	s.current.Store(&snapshotState{version: version, engine: engine})

	metrics.SnapshotRatings.Set(float64(store.Len()))
	metrics.SnapshotUsers.Set(float64(len(store.Users())))
	return nil
}

func (s *Service) state() (*snapshotState, error) {
	st := s.current.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	return st, nil
}

// Engine returns the engine bound to the active snapshot.
func (s *Service) Engine() (*model.Engine, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return st.engine, nil
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// AddRating validates and stores a rating, drops the user's cached lists and
// reloads the snapshot so the new rating takes effect.
func (s *Service) AddRating(ctx context.Context, r domain.Rating) error {
	if !s.opts.Scale.Contains(r.Value) {
		return &domain.ConfigError{
			Field:  "rating",
			Value:  r.Value,
			Reason: fmt.Sprintf("must be within [%v, %v]", s.opts.Scale.Min, s.opts.Scale.Max),
		}
	}
	if err := s.repo.UpsertRating(ctx, r); err != nil {
		return err
	}
	if err := s.cache.ClearUserCache(ctx, r.UserID); err != nil {
		metrics.CacheErrors.WithLabelValues("clear").Inc()
		s.log.Warn().Err(err).Int64("user_id", r.UserID).Msg("cache invalidation error")
	}
	return s.Reload(ctx)
}
