package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	// RequestsPerMinute caps requests per client IP; 0 disables the limit.
	RequestsPerMinute int
	Timeout           time.Duration
}

func Setup(h *handler.Handler, opts Options) http.Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))

	r.Get("/health", healthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// Routes
	r.Group(func(r chi.Router) {
		if opts.RequestsPerMinute > 0 {
			r.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
		}

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Get("/recommendations", h.GetRecommendations)
			r.Get("/neighbors", h.GetNeighbors)
			r.Get("/similarity/{otherID}", h.GetSimilarity)
			r.Get("/predictions/{movieID}", h.GetPrediction)
			r.Post("/ratings", h.PostRating)
		})
		r.Get("/recommendations/batch", h.GetBatchRecommendations)
		r.Post("/evaluations", h.PostEvaluation)
		r.Post("/admin/reload", h.Reload)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
