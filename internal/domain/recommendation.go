package domain

type SimilarityScore struct {
	UserA      int64   `json:"user_a"`
	UserB      int64   `json:"user_b"`
	Metric     Metric  `json:"metric"`
	Score      float64 `json:"score"`
	SampleSize int     `json:"sample_size"`
}

// Neighbor is one entry of a user's similarity-ranked neighborhood.
type Neighbor struct {
	UserID     int64   `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// Prediction is the outcome of a rating prediction. Available is false when
// no neighbor gives a basis for a score; Score is meaningless in that case.
type Prediction struct {
	UserID    int64   `json:"user_id"`
	MovieID   int64   `json:"movie_id"`
	Score     float64 `json:"score"`
	Available bool    `json:"available"`
	Neighbors int     `json:"neighbors"`
}

type Recommendation struct {
	MovieID int64   `json:"movie_id"`
	Title   string  `json:"title,omitempty"`
	Genre   string  `json:"genre,omitempty"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
	Metric      Metric `json:"metric"`
	Neighbors   int    `json:"neighbors"`
}

type RecommendationResult struct {
	Recommendations []Recommendation
	CacheHit        bool
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type BatchUserResult struct {
	UserID          int64            `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Status          string           `json:"status"`
	Error           string           `json:"error,omitempty"`
	Message         string           `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}
