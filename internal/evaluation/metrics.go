package evaluation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MAE is the mean absolute error of paired values; 0 for empty input.
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	errs := make([]float64, len(actual))
	for i := range actual {
		errs[i] = math.Abs(actual[i] - predicted[i])
	}
	return stat.Mean(errs, nil)
}

// RMSE is the root mean squared error of paired values; 0 for empty input.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sq := make([]float64, len(actual))
	for i := range actual {
		d := actual[i] - predicted[i]
		sq[i] = d * d
	}
	return math.Sqrt(stat.Mean(sq, nil))
}

// PrecisionAtK is the number of relevant items among the first k
// recommendations, divided by k.
func PrecisionAtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits(recommended, relevant, k)) / float64(k)
}

// RecallAtK is the fraction of relevant items found in the first k
// recommendations. It is 0 when nothing is relevant; callers that average
// recall should leave such users out instead.
func RecallAtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	if k <= 0 || len(relevant) == 0 {
		return 0
	}
	return float64(hits(recommended, relevant, k)) / float64(len(relevant))
}

// F1 is the harmonic mean of precision and recall.
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// CatalogCoverage is the share of the catalog that appears in at least one
// list.
func CatalogCoverage(lists [][]int64, catalogSize int) float64 {
	if catalogSize <= 0 {
		return 0
	}
	seen := make(map[int64]struct{})
	for _, l := range lists {
		for _, id := range l {
			seen[id] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(catalogSize)
}

// Diversity averages, over non-empty lists, the number of distinct genres in
// a list divided by its length.
func Diversity(lists [][]int64, genreOf func(int64) string) float64 {
	var per []float64
	for _, l := range lists {
		if len(l) == 0 {
			continue
		}
		genres := make(map[string]struct{}, len(l))
		for _, id := range l {
			genres[genreOf(id)] = struct{}{}
		}
		per = append(per, float64(len(genres))/float64(len(l)))
	}
	if len(per) == 0 {
		return 0
	}
	return stat.Mean(per, nil)
}

func hits(recommended []int64, relevant map[int64]struct{}, k int) int {
	n := min(k, len(recommended))
	found := 0
	for _, id := range recommended[:n] {
		if _, ok := relevant[id]; ok {
			found++
		}
	}
	return found
}
