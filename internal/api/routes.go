package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/practice/sync", s.handleSyncPractice)
		r.Post("/reviews/complete", s.handleCompleteReview)
		r.Post("/reviews/detach-dict", s.handleDetachDict)
		r.Get("/reviews/due", s.handleDueWords)
		r.Get("/plan", s.handleDailyPlan)
		r.Get("/stats", s.handleStats)
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
		r.Post("/config/preset/{name}", s.handleApplyPreset)
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)
	})

	return r
}
