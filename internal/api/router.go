// Package api exposes the HTTP surface: dataset upload and CRUD, AI analysis
// and query, and share management. Handlers receive their collaborators via
// explicit dependency passing; there is no ambient global state.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/datalens-io/datalens/internal/ai"
	"github.com/datalens-io/datalens/internal/store"
)

func NewRouter(s *store.Store, analyst *ai.Analyst, log *zap.SugaredLogger) http.Handler {
	h := &handler{store: s, analyst: analyst, log: log}

	r := chi.NewRouter()
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/upload", h.uploadDataset)
			r.Get("/", h.listDatasets)
			r.Get("/{id}", h.getDataset)
			r.Delete("/{id}", h.deleteDataset)
			r.Get("/{id}/insights", h.listInsights)
			r.Post("/{id}/analyze", h.analyzeDataset)
			r.Post("/{id}/query", h.queryDataset)
		})
		r.Route("/shares", func(r chi.Router) {
			r.Post("/", h.createShare)
			r.Get("/token/{token}", h.getShareByToken)
		})
	})

	return r
}
