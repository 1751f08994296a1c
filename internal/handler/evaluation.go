package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/service"
	"github.com/goccy/go-json"
)

// POST /evaluations
func (h *Handler) PostEvaluation(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest
	// An empty body runs with the configured defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid request body")
		return
	}

	var metric domain.Metric
	if req.Metric != "" {
		m, err := domain.ParseMetric(req.Metric)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		metric = m
	}

	res, err := h.service.Evaluate(r.Context(), service.EvaluateRequest{
		TestRatio:          req.TestRatio,
		Seed:               req.Seed,
		RelevanceThreshold: req.RelevanceThreshold,
		K:                  req.K,
		N:                  req.N,
		Metric:             metric,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /admin/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
