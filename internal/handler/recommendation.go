package handler

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

// GET /users/{userID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	q, err := parseQuery(r, 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), userID, q)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resolved := h.service.Resolved(q)
	resp := RecommendationResponse{
		UserID:          userID,
		Recommendations: result.Recommendations,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Recommendations),
			Metric:      resolved.Metric,
			Neighbors:   resolved.K,
		},
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /users/{userID}/neighbors
func (h *Handler) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}
	q, err := parseQuery(r, 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	neighbors, err := h.service.Neighbors(userID, q)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NeighborsResponse{
		UserID:    userID,
		Metric:    h.service.Resolved(q).Metric,
		Neighbors: neighbors,
	})
}

// GET /users/{userID}/similarity/{otherID}
func (h *Handler) GetSimilarity(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}
	otherID, err := pathID(r, "otherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid other_id parameter")
		return
	}
	q, err := parseQuery(r, 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	score, err := h.service.Similarity(userID, otherID, q.Metric)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// GET /users/{userID}/predictions/{movieID}
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}
	movieID, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie_id parameter")
		return
	}
	q, err := parseQuery(r, 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	p, err := h.service.Predict(userID, movieID, q)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /users/{userID}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
