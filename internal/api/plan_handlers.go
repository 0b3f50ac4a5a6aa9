package api

import (
	"net/http"
	"time"

	"wordflash/internal/errors"
)

func (s *Server) handleDailyPlan(w http.ResponseWriter, r *http.Request) {
	at := time.Time{}
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			handleError(w, r, errors.NewValidationError("date", "must be YYYY-MM-DD"))
			return
		}
		at = parsed
	}

	plan, err := s.Plans.GenerateDailyPlan(r.Context(), at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}
