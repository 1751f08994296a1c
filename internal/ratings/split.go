package ratings

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

// Split holds out a fraction of every user's ratings as a test set and
// returns a training snapshot built from the rest. Users with fewer than two
// ratings are kept entirely in training; every other user keeps at least one
// training rating and gives up at least one. The same seed always yields the
// same partition.
func (s *Snapshot) Split(testRatio float64, seed int64) (*Snapshot, []domain.Rating, error) {
	if math.IsNaN(testRatio) || testRatio <= 0 || testRatio >= 1 {
		return nil, nil, &domain.ConfigError{Field: "test ratio", Value: testRatio, Reason: "must be in (0, 1)"}
	}

	rng := rand.New(rand.NewSource(seed))
	var train, test []domain.Rating

	for _, u := range s.users {
		profile := s.byUser[u]
		ids := make([]int64, 0, len(profile))
		for id := range profile {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		holdout := 0
		if len(ids) >= 2 {
			holdout = int(math.Floor(float64(len(ids)) * testRatio))
			holdout = max(1, min(holdout, len(ids)-1))
		}

		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		for i, id := range ids {
			r := domain.Rating{UserID: u, MovieID: id, Value: profile[id]}
			if i < holdout {
				test = append(test, r)
			} else {
				train = append(train, r)
			}
		}
	}

	sort.Slice(test, func(i, j int) bool {
		if test[i].UserID != test[j].UserID {
			return test[i].UserID < test[j].UserID
		}
		return test[i].MovieID < test[j].MovieID
	})

	trainSnap, err := New(s.scale, train, s.Movies(), WithUsers(s.users...))
	if err != nil {
		return nil, nil, fmt.Errorf("build training snapshot: %w", err)
	}
	return trainSnap, test, nil
}
