package sqlite

import (
	"context"
	"database/sql"
	"time"

	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
)

type reviewHistoryRepository struct {
	db *sql.DB
}

// NewReviewHistoryRepository creates a new ReviewHistoryRepository implementation
func NewReviewHistoryRepository(db *sql.DB) repository.ReviewHistoryRepository {
	return &reviewHistoryRepository{db: db}
}

func (r *reviewHistoryRepository) Append(ctx context.Context, entry *models.ReviewHistoryEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_history_repo")
	log.Debug("appending review history: word=%s, result=%s", entry.Word, entry.ReviewResult)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (
    uuid, word_review_record_id, word, dict, reviewed_at, review_result, response_time,
    interval_index_before, interval_index_after, interval_progress_before, interval_progress_after, review_type
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, entry.UUID, entry.WordReviewRecordID, entry.Word, entry.Dict, toMillis(entry.ReviewedAt),
		string(entry.ReviewResult), entry.ResponseTime,
		entry.IntervalIndexBefore, entry.IntervalIndexAfter,
		entry.IntervalProgressBefore, entry.IntervalProgressAfter, string(entry.ReviewType))
	if err != nil {
		log.Error("failed to append review history: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get review history id: %v", err)
		return 0, err
	}
	entry.ID = id
	return id, nil
}

func (r *reviewHistoryRepository) ByTimeRange(ctx context.Context, start, end time.Time) ([]models.ReviewHistoryEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("review_history_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, uuid, word_review_record_id, word, dict, reviewed_at, review_result, response_time,
       interval_index_before, interval_index_after, interval_progress_before, interval_progress_after, review_type
FROM review_history
WHERE reviewed_at >= ? AND reviewed_at <= ?
ORDER BY reviewed_at ASC
`, toMillis(start), toMillis(end))
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.ReviewHistoryEntry
	for rows.Next() {
		var e models.ReviewHistoryEntry
		var reviewedAt int64
		var result, reviewType string
		if err := rows.Scan(&e.ID, &e.UUID, &e.WordReviewRecordID, &e.Word, &e.Dict, &reviewedAt,
			&result, &e.ResponseTime, &e.IntervalIndexBefore, &e.IntervalIndexAfter,
			&e.IntervalProgressBefore, &e.IntervalProgressAfter, &reviewType); err != nil {
			log.Error("failed to scan review history row: %v", err)
			return nil, err
		}
		e.ReviewedAt = fromMillis(reviewedAt)
		e.ReviewResult = models.ReviewResult(result)
		e.ReviewType = models.ReviewType(reviewType)
		entries = append(entries, e)
	}
	log.Debug("found %d review history entries in range", len(entries))
	return entries, rows.Err()
}

func (r *reviewHistoryRepository) CountByTimeRange(ctx context.Context, start, end time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_history_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM review_history WHERE reviewed_at >= ? AND reviewed_at <= ?
`, toMillis(start), toMillis(end)).Scan(&count)
	if err != nil {
		log.Error("failed to count review history: %v", err)
		return 0, err
	}
	return count, nil
}

var _ repository.ReviewHistoryRepository = (*reviewHistoryRepository)(nil)
