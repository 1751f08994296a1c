package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/logging"
	"github.com/actuallystonmai/cf-recommender/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type Handler struct {
	service *service.Service
	log     zerolog.Logger
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc, log: logging.Component("handler")}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// writeServiceError maps service errors onto status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, "invalid_parameter", cfgErr.Error())
	case errors.Is(err, domain.ErrUnknownUser):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, domain.ErrUnknownItem):
		writeError(w, http.StatusNotFound, "movie_not_found", err.Error())
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready",
			"Rating snapshot is not loaded yet")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout",
			"Request timed out, please try again")
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// pathID parses a positive id from the named URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// intParam reads an optional integer query parameter within [lo, hi].
// Absent values yield def.
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("Invalid %s parameter", name)
	}
	return v, nil
}

// parseQuery reads the optional limit, k and metric parameters. Absent
// values stay zero so the service applies its defaults.
func parseQuery(r *http.Request, maxLimit int) (service.Query, error) {
	var (
		q   service.Query
		err error
	)
	if q.Limit, err = intParam(r, "limit", 0, 1, maxLimit); err != nil {
		return q, err
	}
	if q.K, err = intParam(r, "k", 0, 1, math.MaxInt32); err != nil {
		return q, err
	}
	if s := r.URL.Query().Get("metric"); s != "" {
		m, err := domain.ParseMetric(s)
		if err != nil {
			return q, errors.New("Invalid metric parameter")
		}
		q.Metric = m
	}
	return q, nil
}
