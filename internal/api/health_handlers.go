package api

import (
	"net/http"

	"wordflash/internal/logger"
)

// handleHealth is a liveness probe; it reports nothing beyond "the
// process is up".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleReady checks whether the server can actually serve traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.DB.PingContext(r.Context()); err != nil {
		log.Warn("readiness check failed: %v", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"pendingJobs":  s.Pool.Pending(),
	})
}
