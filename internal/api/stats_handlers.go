package api

import (
	"net/http"
	"time"

	"wordflash/internal/errors"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start")
	if err != nil {
		handleError(w, r, err)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		handleError(w, r, err)
		return
	}
	// The end date is inclusive: stretch it to the last instant of that
	// day so reviews from the end day itself land inside the range.
	if !end.IsZero() {
		end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	stats, err := s.Stats.GetReviewStatistics(r.Context(), start, end)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, errors.NewValidationError(name, "must be YYYY-MM-DD")
	}
	return parsed, nil
}
