package handler

import "net/http"

const (
	maxBatchPage  = 10000
	maxBatchLimit = 100
)

// GET /recommendations/batch
func (h *Handler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1, 1, maxBatchPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	limit, err := intParam(r, "limit", 20, 1, maxBatchLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	result, err := h.service.GetBatchRecommendations(r.Context(), page, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
