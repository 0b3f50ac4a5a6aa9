package repository

import (
	"context"
	"errors"
	"time"

	"wordflash/internal/models"
)

// Sentinel errors surfaced by implementations; services translate them
// into the application error taxonomy.
var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a guarded update lost a race; re-read and retry.
	ErrConflict = errors.New("concurrent modification")
)

// WordRecordFilter narrows List queries.
type WordRecordFilter struct {
	// DueBefore keeps records with next_review_at at or before the time.
	DueBefore *time.Time
	// Graduated filters by graduation state when set.
	Graduated *bool
	// NeedsDailyReset keeps records with a positive today_practice_count.
	NeedsDailyReset bool
}

// WordReviewRepository handles word review record data access.
type WordReviewRepository interface {
	GetAll(ctx context.Context) ([]models.WordReviewRecord, error)
	List(ctx context.Context, filter WordRecordFilter) ([]models.WordReviewRecord, error)
	GetByWord(ctx context.Context, word string) (*models.WordReviewRecord, error)
	Insert(ctx context.Context, rec *models.WordReviewRecord) (int64, error)
	// Update writes rec only if the stored last_modified still equals
	// expectedLastModified; otherwise it returns ErrConflict.
	Update(ctx context.Context, rec models.WordReviewRecord, expectedLastModified int64) error
	// Put upserts by word, without a concurrency guard.
	Put(ctx context.Context, rec models.WordReviewRecord) error
}

// ReviewHistoryRepository handles the append-only review log.
type ReviewHistoryRepository interface {
	Append(ctx context.Context, entry *models.ReviewHistoryEntry) (int64, error)
	ByTimeRange(ctx context.Context, start, end time.Time) ([]models.ReviewHistoryEntry, error)
	CountByTimeRange(ctx context.Context, start, end time.Time) (int, error)
}

// ReviewConfigRepository handles scheduler configuration persistence.
type ReviewConfigRepository interface {
	// GetByUserID returns nil when no config exists for the user.
	GetByUserID(ctx context.Context, userID string) (*models.ReviewConfig, error)
	Put(ctx context.Context, cfg *models.ReviewConfig) error
}
