package api

import (
	"net/http"
	"strconv"
	"time"

	"wordflash/internal/errors"
	"wordflash/internal/models"
	"wordflash/internal/services"
)

type syncPracticeRequest struct {
	Word         string    `json:"word"`
	Dict         string    `json:"dict"`
	IsCorrect    bool      `json:"isCorrect"`
	ResponseTime int       `json:"responseTime"`
	Timestamp    time.Time `json:"timestamp"`
}

func (s *Server) handleSyncPractice(w http.ResponseWriter, r *http.Request) {
	var req syncPracticeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Word == "" {
		handleError(w, r, errors.NewValidationError("word", "cannot be empty"))
		return
	}
	if req.Dict == "" {
		handleError(w, r, errors.NewValidationError("dict", "cannot be empty"))
		return
	}

	rec, err := s.Reviews.SyncPractice(r.Context(), req.Word, req.Dict, models.PracticeOutcome{
		IsCorrect:    req.IsCorrect,
		ResponseTime: req.ResponseTime,
		Timestamp:    req.Timestamp,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCompleteReview(w http.ResponseWriter, r *http.Request) {
	var req services.CompleteReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Word == "" {
		handleError(w, r, errors.NewValidationError("word", "cannot be empty"))
		return
	}
	if req.Result != models.ResultCorrect && req.Result != models.ResultIncorrect {
		handleError(w, r, errors.NewValidationError("result", "must be correct or incorrect"))
		return
	}

	rec, err := s.Reviews.CompleteReview(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

type detachDictRequest struct {
	Word string `json:"word"`
	Dict string `json:"dict"`
}

func (s *Server) handleDetachDict(w http.ResponseWriter, r *http.Request) {
	var req detachDictRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Word == "" || req.Dict == "" {
		handleError(w, r, errors.NewValidationError("word/dict", "cannot be empty"))
		return
	}

	rec, err := s.Reviews.DetachDict(r.Context(), req.Word, req.Dict)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDueWords(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	due, err := s.Reviews.GetDueWords(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"words": due,
		"count": len(due),
	})
}
