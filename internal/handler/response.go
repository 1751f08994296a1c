package handler

import "github.com/actuallystonmai/cf-recommender/internal/domain"

type RecommendationResponse struct {
	UserID          int64                     `json:"user_id"`
	Recommendations []domain.Recommendation   `json:"recommendations"`
	Metadata        domain.RecommendationMeta `json:"metadata"`
}

type NeighborsResponse struct {
	UserID    int64             `json:"user_id"`
	Metric    domain.Metric     `json:"metric"`
	Neighbors []domain.Neighbor `json:"neighbors"`
}

type RatingRequest struct {
	MovieID int64   `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

type EvaluationRequest struct {
	TestRatio          float64 `json:"test_ratio"`
	Seed               int64   `json:"seed"`
	RelevanceThreshold float64 `json:"relevance_threshold"`
	K                  int     `json:"k"`
	N                  int     `json:"n"`
	Metric             string  `json:"metric"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
