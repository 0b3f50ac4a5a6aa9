package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const wordRecordColumns = `id, uuid, word, interval_sequence, current_interval_index, next_review_at,
total_reviews, is_graduated, consecutive_correct, today_practice_count,
last_practiced_at, last_reviewed_at, source_dicts, preferred_dict, first_seen_at, last_modified`

type wordReviewRepository struct {
	db *sql.DB
}

// NewWordReviewRepository creates a new WordReviewRepository implementation
func NewWordReviewRepository(db *sql.DB) repository.WordReviewRepository {
	return &wordReviewRepository{db: db}
}

func (r *wordReviewRepository) GetAll(ctx context.Context) ([]models.WordReviewRecord, error) {
	return r.List(ctx, repository.WordRecordFilter{})
}

func (r *wordReviewRepository) List(ctx context.Context, filter repository.WordRecordFilter) ([]models.WordReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("word_review_repo")

	query := sqlBuilder.Select(wordRecordColumns).From("word_review_records")

	// Dynamic WHERE clauses
	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"next_review_at": toMillis(*filter.DueBefore)})
		query = query.Where(squirrel.Eq{"is_graduated": 0})
	}
	if filter.Graduated != nil {
		query = query.Where(squirrel.Eq{"is_graduated": *filter.Graduated})
	}
	if filter.NeedsDailyReset {
		query = query.Where(squirrel.Gt{"today_practice_count": 0})
	}
	query = query.OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query word review records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.WordReviewRecord
	for rows.Next() {
		rec, err := scanWordRecord(rows)
		if err != nil {
			log.Error("failed to scan word review record: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	log.Debug("listed %d word review records", len(records))
	return records, rows.Err()
}

func (r *wordReviewRepository) GetByWord(ctx context.Context, word string) (*models.WordReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("word_review_repo")
	log.Debug("getting word review record: word=%s", word)

	row := r.db.QueryRowContext(ctx, `
SELECT `+wordRecordColumns+`
FROM word_review_records
WHERE word = ?
`, word)
	rec, err := scanWordRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("word review record not found: word=%s", word)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get word review record: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *wordReviewRepository) Insert(ctx context.Context, rec *models.WordReviewRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("word_review_repo")
	log.Debug("inserting word review record: word=%s", rec.Word)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO word_review_records (
    uuid, word, interval_sequence, current_interval_index, next_review_at,
    total_reviews, is_graduated, consecutive_correct, today_practice_count,
    last_practiced_at, last_reviewed_at, source_dicts, preferred_dict, first_seen_at, last_modified
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.UUID, rec.Word, marshalInts(rec.IntervalSequence), rec.CurrentIntervalIndex, toMillis(rec.NextReviewAt),
		rec.TotalReviews, rec.IsGraduated, rec.ConsecutiveCorrect, rec.TodayPracticeCount,
		toMillis(rec.LastPracticedAt), toMillis(rec.LastReviewedAt), marshalStrings(rec.SourceDicts),
		rec.PreferredDict, toMillis(rec.FirstSeenAt), rec.LastModified)
	if err != nil {
		log.Error("failed to insert word review record: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get word review record id: %v", err)
		return 0, err
	}
	rec.ID = id
	log.Debug("word review record inserted: id=%d", id)
	return id, nil
}

func (r *wordReviewRepository) Update(ctx context.Context, rec models.WordReviewRecord, expectedLastModified int64) error {
	log := logger.FromContext(ctx).WithPrefix("word_review_repo")
	log.Debug("updating word review record: word=%s, index=%d", rec.Word, rec.CurrentIntervalIndex)

	res, err := r.db.ExecContext(ctx, `
UPDATE word_review_records
SET interval_sequence = ?, current_interval_index = ?, next_review_at = ?,
    total_reviews = ?, is_graduated = ?, consecutive_correct = ?, today_practice_count = ?,
    last_practiced_at = ?, last_reviewed_at = ?, source_dicts = ?, preferred_dict = ?, last_modified = ?
WHERE word = ? AND last_modified = ?
`, marshalInts(rec.IntervalSequence), rec.CurrentIntervalIndex, toMillis(rec.NextReviewAt),
		rec.TotalReviews, rec.IsGraduated, rec.ConsecutiveCorrect, rec.TodayPracticeCount,
		toMillis(rec.LastPracticedAt), toMillis(rec.LastReviewedAt), marshalStrings(rec.SourceDicts),
		rec.PreferredDict, rec.LastModified,
		rec.Word, expectedLastModified)
	if err != nil {
		log.Error("failed to update word review record: %v", err)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row vanished or someone else updated it first.
		existing, err := r.GetByWord(ctx, rec.Word)
		if err != nil {
			return err
		}
		if existing == nil {
			return repository.ErrNotFound
		}
		log.Warn("guarded update lost a race: word=%s", rec.Word)
		return repository.ErrConflict
	}
	return nil
}

func (r *wordReviewRepository) Put(ctx context.Context, rec models.WordReviewRecord) error {
	log := logger.FromContext(ctx).WithPrefix("word_review_repo")
	log.Debug("upserting word review record: word=%s", rec.Word)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO word_review_records (
    uuid, word, interval_sequence, current_interval_index, next_review_at,
    total_reviews, is_graduated, consecutive_correct, today_practice_count,
    last_practiced_at, last_reviewed_at, source_dicts, preferred_dict, first_seen_at, last_modified
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(word) DO UPDATE SET
    interval_sequence = excluded.interval_sequence,
    current_interval_index = excluded.current_interval_index,
    next_review_at = excluded.next_review_at,
    total_reviews = excluded.total_reviews,
    is_graduated = excluded.is_graduated,
    consecutive_correct = excluded.consecutive_correct,
    today_practice_count = excluded.today_practice_count,
    last_practiced_at = excluded.last_practiced_at,
    last_reviewed_at = excluded.last_reviewed_at,
    source_dicts = excluded.source_dicts,
    preferred_dict = excluded.preferred_dict,
    last_modified = excluded.last_modified
`, rec.UUID, rec.Word, marshalInts(rec.IntervalSequence), rec.CurrentIntervalIndex, toMillis(rec.NextReviewAt),
		rec.TotalReviews, rec.IsGraduated, rec.ConsecutiveCorrect, rec.TodayPracticeCount,
		toMillis(rec.LastPracticedAt), toMillis(rec.LastReviewedAt), marshalStrings(rec.SourceDicts),
		rec.PreferredDict, toMillis(rec.FirstSeenAt), rec.LastModified)
	if err != nil {
		log.Error("failed to upsert word review record: %v", err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWordRecord(row rowScanner) (models.WordReviewRecord, error) {
	var rec models.WordReviewRecord
	var intervals, dicts string
	var nextReviewAt, lastPracticedAt, lastReviewedAt, firstSeenAt int64

	err := row.Scan(&rec.ID, &rec.UUID, &rec.Word, &intervals, &rec.CurrentIntervalIndex, &nextReviewAt,
		&rec.TotalReviews, &rec.IsGraduated, &rec.ConsecutiveCorrect, &rec.TodayPracticeCount,
		&lastPracticedAt, &lastReviewedAt, &dicts, &rec.PreferredDict, &firstSeenAt, &rec.LastModified)
	if err != nil {
		return rec, err
	}

	rec.IntervalSequence = unmarshalInts(intervals)
	rec.SourceDicts = unmarshalStrings(dicts)
	rec.NextReviewAt = fromMillis(nextReviewAt)
	rec.LastPracticedAt = fromMillis(lastPracticedAt)
	rec.LastReviewedAt = fromMillis(lastReviewedAt)
	rec.FirstSeenAt = fromMillis(firstSeenAt)
	return rec, nil
}
