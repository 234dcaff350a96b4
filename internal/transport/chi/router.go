package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/albumdex/internal/metrics"
)

// NewRouter wires the middleware stack and routes.
func NewRouter(s *Server, apiKeys []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(CanonicalLog(logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/state", s.GetState)
	r.Route("/query", func(r chi.Router) {
		r.Put("/", s.PutQuery)
		r.Delete("/", s.DeleteQuery)
		r.Get("/parse", s.ParseQuery)
	})
	r.Put("/order", s.PutOrder)
	r.Get("/orders", s.ListOrders)
	r.Get("/matches", s.GetMatches)
	r.Put("/albums", s.PutAlbums)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}
