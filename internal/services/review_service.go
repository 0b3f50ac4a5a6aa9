package services

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"wordflash/internal/errors"
	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/review"
)

// updateRetries bounds how often a read-modify-write cycle is replayed
// after losing an optimistic update race.
const updateRetries = 3

// ReviewService drives the review lifecycle of word records.
type ReviewService interface {
	// SyncPractice folds a raw practice event into the schedule: it
	// creates the record on first sight, or attaches the dictionary to
	// an existing one. It never advances the interval index.
	SyncPractice(ctx context.Context, word, dict string, outcome models.PracticeOutcome) (*models.WordReviewRecord, error)

	// CompleteReview applies one review to the word's record.
	CompleteReview(ctx context.Context, req CompleteReviewRequest) (*models.WordReviewRecord, error)

	// DetachDict removes a dictionary from the record's sources. The
	// schedule itself is untouched.
	DetachDict(ctx context.Context, word, dict string) (*models.WordReviewRecord, error)

	// GetDueWords returns due records sorted most-overdue first. A
	// non-positive limit means no limit.
	GetDueWords(ctx context.Context, limit int) ([]models.WordReviewRecord, error)
}

// CompleteReviewRequest carries one review event.
type CompleteReviewRequest struct {
	Word         string              `json:"word"`
	Result       models.ReviewResult `json:"result"`
	ResponseTime int                 `json:"responseTime"` // milliseconds
	FirstOfRound bool                `json:"isFirstReviewOfRound"`
	ReviewType   models.ReviewType   `json:"reviewType"`
	Timestamp    time.Time           `json:"timestamp"`
}

type reviewService struct {
	records repository.WordReviewRepository
	history repository.ReviewHistoryRepository
	configs ConfigService
	clock   Clock

	// locks serializes writers per word; cross-word reviews stay parallel.
	locks sync.Map // word -> *sync.Mutex
}

// NewReviewService creates a new ReviewService
func NewReviewService(records repository.WordReviewRepository, history repository.ReviewHistoryRepository,
	configs ConfigService, clock Clock) ReviewService {
	if clock == nil {
		clock = time.Now
	}
	return &reviewService{records: records, history: history, configs: configs, clock: clock}
}

func (s *reviewService) lockWord(word string) func() {
	mu, _ := s.locks.LoadOrStore(word, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *reviewService) SyncPractice(ctx context.Context, word, dict string, outcome models.PracticeOutcome) (*models.WordReviewRecord, error) {
	log := logger.FromContext(ctx)
	unlock := s.lockWord(word)
	defer unlock()

	at := outcome.Timestamp
	if at.IsZero() {
		at = s.clock()
	}

	rec, err := s.records.GetByWord(ctx, word)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	if rec == nil {
		cfg, err := s.configs.GetConfig(ctx, models.DefaultUserID)
		if err != nil {
			return nil, err
		}
		created := review.NewWordReviewRecord(word, dict, cfg.BaseIntervals, at)
		id, err := s.records.Insert(ctx, &created)
		if err != nil {
			return nil, errors.NewStoreUnavailableError(err)
		}
		created.ID = id
		log.Debug("created review record: word=%s dict=%s due=%s", word, dict, created.NextReviewAt.Format(time.RFC3339))
		return &created, nil
	}

	if rec.HasSourceDict(dict) {
		return rec, nil
	}

	updated := *rec
	updated.SourceDicts = append(append([]string(nil), rec.SourceDicts...), dict)
	updated.LastModified = at.UnixMilli()
	if err := s.records.Update(ctx, updated, rec.LastModified); err != nil {
		return nil, s.storeError(word, err)
	}
	log.Debug("attached dict to review record: word=%s dict=%s", word, dict)
	return &updated, nil
}

func (s *reviewService) CompleteReview(ctx context.Context, req CompleteReviewRequest) (*models.WordReviewRecord, error) {
	log := logger.FromContext(ctx)
	unlock := s.lockWord(req.Word)
	defer unlock()

	at := req.Timestamp
	if at.IsZero() {
		at = s.clock()
	}
	if req.ReviewType == "" {
		req.ReviewType = models.ReviewScheduled
	}

	var lastErr error
	for attempt := 0; attempt < updateRetries; attempt++ {
		rec, err := s.records.GetByWord(ctx, req.Word)
		if err != nil {
			return nil, errors.NewStoreUnavailableError(err)
		}
		if rec == nil {
			return nil, errors.NewNotFoundError("word review record", req.Word)
		}

		repaired, issues := models.RepairRecord(*rec)
		if len(issues) > 0 {
			log.Warn("repaired review record before review: word=%s issues=%v", req.Word, issues)
		}

		out := review.CompleteReview(repaired, at, req.FirstOfRound, req.Result, req.ResponseTime, req.ReviewType)
		if err := s.records.Update(ctx, out.Record, rec.LastModified); err != nil {
			if stderrors.Is(err, repository.ErrConflict) {
				lastErr = err
				log.Debug("review update lost the race, retrying: word=%s attempt=%d", req.Word, attempt+1)
				continue
			}
			return nil, s.storeError(req.Word, err)
		}

		if out.Advanced {
			out.History.WordReviewRecordID = out.Record.ID
			if _, err := s.history.Append(ctx, out.History); err != nil {
				// The schedule already moved; losing one log row is
				// recoverable, losing the advance is not.
				log.Error("failed to append review history: word=%s err=%v", req.Word, err)
			}
			log.Info("review advanced: word=%s index=%d graduated=%t",
				req.Word, out.Record.CurrentIntervalIndex, out.Record.IsGraduated)
		}
		result := out.Record
		return &result, nil
	}

	return nil, errors.NewConflictError(req.Word).WithCause(lastErr)
}

func (s *reviewService) DetachDict(ctx context.Context, word, dict string) (*models.WordReviewRecord, error) {
	log := logger.FromContext(ctx)
	unlock := s.lockWord(word)
	defer unlock()

	rec, err := s.records.GetByWord(ctx, word)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("word review record", word)
	}
	if !rec.HasSourceDict(dict) {
		return rec, nil
	}

	updated := *rec
	updated.SourceDicts = make([]string, 0, len(rec.SourceDicts)-1)
	for _, d := range rec.SourceDicts {
		if d != dict {
			updated.SourceDicts = append(updated.SourceDicts, d)
		}
	}
	if updated.PreferredDict == dict {
		updated.PreferredDict = ""
		if len(updated.SourceDicts) > 0 {
			updated.PreferredDict = updated.SourceDicts[0]
		}
	}
	updated.LastModified = s.clock().UnixMilli()

	if err := s.records.Update(ctx, updated, rec.LastModified); err != nil {
		return nil, s.storeError(word, err)
	}
	log.Debug("detached dict from review record: word=%s dict=%s", word, dict)
	return &updated, nil
}

func (s *reviewService) GetDueWords(ctx context.Context, limit int) ([]models.WordReviewRecord, error) {
	now := s.clock()
	due, err := s.records.List(ctx, repository.WordRecordFilter{DueBefore: &now})
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	sort.SliceStable(due, func(i, j int) bool {
		di, dj := review.DaysOverdue(due[i], now), review.DaysOverdue(due[j], now)
		if di != dj {
			return di > dj
		}
		return due[i].Word < due[j].Word
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *reviewService) storeError(word string, err error) error {
	switch {
	case stderrors.Is(err, repository.ErrConflict):
		return errors.NewConflictError(word).WithCause(err)
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NewNotFoundError("word review record", word)
	default:
		return errors.NewStoreUnavailableError(err)
	}
}
