package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
)

type reviewConfigRepository struct {
	db *sql.DB
}

// NewReviewConfigRepository creates a new ReviewConfigRepository implementation
func NewReviewConfigRepository(db *sql.DB) repository.ReviewConfigRepository {
	return &reviewConfigRepository{db: db}
}

func (r *reviewConfigRepository) GetByUserID(ctx context.Context, userID string) (*models.ReviewConfig, error) {
	log := logger.FromContext(ctx).WithPrefix("review_config_repo")
	log.Debug("getting review config: user_id=%s", userID)

	var cfg models.ReviewConfig
	var intervals string
	err := r.db.QueryRowContext(ctx, `
SELECT id, uuid, user_id, base_intervals, daily_review_target, max_reviews_per_day,
       enable_notifications, notification_time, last_modified
FROM review_configs
WHERE user_id = ?
`, userID).Scan(&cfg.ID, &cfg.UUID, &cfg.UserID, &intervals, &cfg.DailyReviewTarget,
		&cfg.MaxReviewsPerDay, &cfg.EnableNotifications, &cfg.NotificationTime, &cfg.LastModified)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("review config not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get review config: %v", err)
		return nil, err
	}
	cfg.BaseIntervals = unmarshalInts(intervals)
	return &cfg, nil
}

func (r *reviewConfigRepository) Put(ctx context.Context, cfg *models.ReviewConfig) error {
	log := logger.FromContext(ctx).WithPrefix("review_config_repo")
	log.Debug("upserting review config: user_id=%s", cfg.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_configs (
    uuid, user_id, base_intervals, daily_review_target, max_reviews_per_day,
    enable_notifications, notification_time, last_modified
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    base_intervals = excluded.base_intervals,
    daily_review_target = excluded.daily_review_target,
    max_reviews_per_day = excluded.max_reviews_per_day,
    enable_notifications = excluded.enable_notifications,
    notification_time = excluded.notification_time,
    last_modified = excluded.last_modified
`, cfg.UUID, cfg.UserID, marshalInts(cfg.BaseIntervals), cfg.DailyReviewTarget, cfg.MaxReviewsPerDay,
		cfg.EnableNotifications, cfg.NotificationTime, cfg.LastModified)
	if err != nil {
		log.Error("failed to upsert review config: %v", err)
	}
	return err
}
