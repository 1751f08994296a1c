// Package model implements user-based collaborative filtering over a rating
// snapshot: user-user similarity, neighborhood rating prediction and top-N
// recommendation.
package model

import (
	"fmt"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/ratings"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultMemoSize = 100_000

type pairKey struct {
	lo, hi int64
	metric domain.Metric
}

// Engine answers similarity, prediction and recommendation queries against
// one immutable snapshot. It is safe for concurrent use.
type Engine struct {
	store *ratings.Snapshot
	memo  *lru.Cache[pairKey, domain.SimilarityScore]
}

// NewEngine binds an engine to store. memoSize bounds the similarity memo;
// zero or less disables it.
func NewEngine(store *ratings.Snapshot, memoSize int) (*Engine, error) {
	e := &Engine{store: store}
	if memoSize > 0 {
		memo, err := lru.New[pairKey, domain.SimilarityScore](memoSize)
		if err != nil {
			return nil, fmt.Errorf("create similarity memo: %w", err)
		}
		e.memo = memo
	}
	return e, nil
}

func (e *Engine) Store() *ratings.Snapshot {
	return e.store
}

func (e *Engine) requireUser(id int64) error {
	if !e.store.HasUser(id) {
		return fmt.Errorf("user %d: %w", id, domain.ErrUnknownUser)
	}
	return nil
}

func (e *Engine) requireMovie(id int64) error {
	if !e.store.HasMovie(id) {
		return fmt.Errorf("movie %d: %w", id, domain.ErrUnknownItem)
	}
	return nil
}

func requireMetric(m domain.Metric) error {
	if !m.Valid() {
		return &domain.ConfigError{Field: "metric", Value: string(m), Reason: "must be cosine or pearson"}
	}
	return nil
}
