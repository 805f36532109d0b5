package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
)

func NewRouter(svc *ranking.Service, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	upload := NewUploadHandler(svc, cfg.MaxUploadBytes)
	rankings := NewRankingsHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/topsis", upload.Upload)

		r.Post("/rankings", rankings.Create)
		r.Get("/rankings", rankings.List)
		r.Get("/rankings/{id}", rankings.Get)
		r.Get("/rankings/{id}/result.csv", rankings.Download)
		r.Get("/rankings/{id}/explain", rankings.Explain)
	})

	return r
}

// NewMetricsRouter serves health and Prometheus metrics gathered from g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
