package handler

import (
	"net/http"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/goccy/go-json"
)

// POST /users/{userID}/ratings
func (h *Handler) PostRating(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid request body")
		return
	}
	if req.MovieID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie_id")
		return
	}

	rt := domain.Rating{UserID: userID, MovieID: req.MovieID, Value: req.Rating}
	if err := h.service.AddRating(r.Context(), rt); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}
