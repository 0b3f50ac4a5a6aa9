package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/repository/sqlite"
	"wordflash/internal/review"
	"wordflash/internal/scheduler"
	"wordflash/internal/testutil"
)

func TestDailyResetJob(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	records := sqlite.NewWordReviewRepository(db)
	ctx := context.Background()

	now := time.Date(2025, 3, 12, 4, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	stale := review.NewWordReviewRecord("stale", "cet4", models.DefaultBaseIntervals, yesterday)
	stale.TodayPracticeCount = 4
	_, err := records.Insert(ctx, &stale)
	require.NoError(t, err)

	fresh := review.NewWordReviewRecord("fresh", "cet4", models.DefaultBaseIntervals, now)
	fresh.TodayPracticeCount = 2
	_, err = records.Insert(ctx, &fresh)
	require.NoError(t, err)

	job := &scheduler.DailyResetJob{Records: records, Clock: func() time.Time { return now }}
	require.NoError(t, job.Run(ctx))

	got, err := records.GetByWord(ctx, "stale")
	require.NoError(t, err)
	require.Zero(t, got.TodayPracticeCount, "counter from an earlier day is swept")

	got, err = records.GetByWord(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, 2, got.TodayPracticeCount, "same-day counter survives the sweep")
}

// advancingRepo applies a review to every listed record right after the
// List call returns, simulating a write that races the sweep.
type advancingRepo struct {
	repository.WordReviewRepository
	t        *testing.T
	now      time.Time
	advanced bool
}

func (r *advancingRepo) List(ctx context.Context, filter repository.WordRecordFilter) ([]models.WordReviewRecord, error) {
	recs, err := r.WordReviewRepository.List(ctx, filter)
	if err == nil && !r.advanced {
		r.advanced = true
		for _, rec := range recs {
			out := review.CompleteReview(rec, r.now, true, models.ResultCorrect, 1000, models.ReviewScheduled)
			require.NoError(r.t, r.WordReviewRepository.Update(ctx, out.Record, rec.LastModified))
		}
	}
	return recs, err
}

func TestDailyResetJob_DoesNotRevertConcurrentReview(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	records := sqlite.NewWordReviewRepository(db)
	ctx := context.Background()

	now := time.Date(2025, 3, 12, 4, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	rec := review.NewWordReviewRecord("racer", "cet4", models.DefaultBaseIntervals, yesterday)
	rec.TodayPracticeCount = 2
	_, err := records.Insert(ctx, &rec)
	require.NoError(t, err)

	wrapped := &advancingRepo{WordReviewRepository: records, t: t, now: now}
	job := &scheduler.DailyResetJob{Records: wrapped, Clock: func() time.Time { return now }}
	require.NoError(t, job.Run(ctx))

	got, err := records.GetByWord(ctx, "racer")
	require.NoError(t, err)
	require.Equal(t, 1, got.CurrentIntervalIndex, "the racing review's advance must survive the sweep")
	require.Equal(t, 1, got.TotalReviews)
	require.Equal(t, 1, got.TodayPracticeCount, "counter reflects today's review, not the stale snapshot")
}
