package domain

// EvaluationResult aggregates accuracy and ranking metrics over one
// train/test partition. PrecisionAtK and RecallAtK are measured at the
// recommendation list length N.
type EvaluationResult struct {
	MAE             float64 `json:"mae"`
	RMSE            float64 `json:"rmse"`
	Coverage        float64 `json:"coverage"`
	PrecisionAtK    float64 `json:"precision_at_k"`
	RecallAtK       float64 `json:"recall_at_k"`
	F1AtK           float64 `json:"f1_at_k"`
	CatalogCoverage float64 `json:"catalog_coverage"`
	Diversity       float64 `json:"diversity"`

	TestRatings   int `json:"test_ratings"`
	Predicted     int `json:"predicted"`
	UsersRanked   int `json:"users_ranked"`
	UsersExcluded int `json:"users_excluded"`
}
