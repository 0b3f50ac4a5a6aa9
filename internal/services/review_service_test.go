package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wordflash/internal/errors"
	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/repository/sqlite"
	"wordflash/internal/services"
	"wordflash/internal/testutil"
)

type ReviewServiceSuite struct {
	suite.Suite
	db      *sql.DB
	records repository.WordReviewRepository
	history repository.ReviewHistoryRepository
	svc     services.ReviewService
	current time.Time
}

func (s *ReviewServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.records = sqlite.NewWordReviewRepository(s.db)
	s.history = sqlite.NewReviewHistoryRepository(s.db)
	s.current = time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	clock := func() time.Time { return s.current }
	configs := services.NewConfigService(
		sqlite.NewReviewConfigRepository(s.db),
		services.NewConfigCache(services.DefaultConfigCacheTTL, clock),
		clock,
	)
	s.svc = services.NewReviewService(s.records, s.history, configs, clock)
}

func (s *ReviewServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReviewServiceSuite) syncWord(word string) *models.WordReviewRecord {
	rec, err := s.svc.SyncPractice(context.Background(), word, "cet4", models.PracticeOutcome{
		IsCorrect:    true,
		ResponseTime: 1200,
		Timestamp:    s.current,
	})
	s.Require().NoError(err)
	return rec
}

func (s *ReviewServiceSuite) TestSyncPractice_CreatesRecord() {
	rec := s.syncWord("ephemeral")

	s.Equal("ephemeral", rec.Word)
	s.Equal(models.DefaultBaseIntervals, rec.IntervalSequence)
	s.Equal(0, rec.CurrentIntervalIndex)
	s.Equal(0, rec.TotalReviews, "first practice is not a completed review")
	s.True(rec.NextReviewAt.Equal(s.current.Add(24*time.Hour)), "due after the first interval")
	s.Positive(rec.ID)
}

func (s *ReviewServiceSuite) TestSyncPractice_AttachesNewDict() {
	s.syncWord("ephemeral")

	rec, err := s.svc.SyncPractice(context.Background(), "ephemeral", "toefl", models.PracticeOutcome{
		IsCorrect: true,
		Timestamp: s.current,
	})
	s.Require().NoError(err)
	s.Equal([]string{"cet4", "toefl"}, rec.SourceDicts)
	s.Equal("cet4", rec.PreferredDict, "first dict stays preferred")
	s.Equal(0, rec.TotalReviews, "attaching a dict never advances the schedule")
}

func (s *ReviewServiceSuite) TestCompleteReview_AdvancesAndLogsHistory() {
	s.syncWord("ephemeral")
	s.current = s.current.Add(24 * time.Hour) // day 1 interval elapsed

	rec, err := s.svc.CompleteReview(context.Background(), services.CompleteReviewRequest{
		Word:         "ephemeral",
		Result:       models.ResultCorrect,
		ResponseTime: 1500,
		FirstOfRound: true,
	})
	s.Require().NoError(err)
	s.Equal(1, rec.CurrentIntervalIndex)
	s.Equal(1, rec.TotalReviews)
	s.True(rec.NextReviewAt.Equal(s.current.Add(3*24*time.Hour)), "next due after the 3 day interval")

	entries, err := s.history.ByTimeRange(context.Background(), s.current.Add(-time.Hour), s.current.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(0, entries[0].IntervalIndexBefore)
	s.Equal(1, entries[0].IntervalIndexAfter)
	s.Equal(models.ReviewScheduled, entries[0].ReviewType)
}

func (s *ReviewServiceSuite) TestCompleteReview_SameDayRepeatDoesNotAdvance() {
	s.syncWord("ephemeral")
	s.current = s.current.Add(24 * time.Hour)

	_, err := s.svc.CompleteReview(context.Background(), services.CompleteReviewRequest{
		Word: "ephemeral", Result: models.ResultCorrect, FirstOfRound: true,
	})
	s.Require().NoError(err)

	s.current = s.current.Add(2 * time.Hour)
	rec, err := s.svc.CompleteReview(context.Background(), services.CompleteReviewRequest{
		Word: "ephemeral", Result: models.ResultCorrect, FirstOfRound: true,
	})
	s.Require().NoError(err)
	s.Equal(1, rec.CurrentIntervalIndex, "second review of the day is extra practice")
	s.Equal(1, rec.TotalReviews)
	s.Equal(2, rec.TodayPracticeCount)

	count, err := s.history.CountByTimeRange(context.Background(),
		s.current.Add(-24*time.Hour), s.current.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, count, "repeat practice emits no history")
}

func (s *ReviewServiceSuite) TestCompleteReview_GraduationIsTerminal() {
	s.syncWord("ephemeral")

	for i := 0; i < len(models.DefaultBaseIntervals); i++ {
		s.current = s.current.AddDate(0, 0, models.DefaultBaseIntervals[i])
		_, err := s.svc.CompleteReview(context.Background(), services.CompleteReviewRequest{
			Word: "ephemeral", Result: models.ResultCorrect, FirstOfRound: true,
		})
		s.Require().NoError(err)
	}

	rec, err := s.records.GetByWord(context.Background(), "ephemeral")
	s.Require().NoError(err)
	s.True(rec.IsGraduated)
	s.True(rec.NextReviewAt.IsZero())

	// A further review touches counters only.
	s.current = s.current.AddDate(0, 0, 90)
	after, err := s.svc.CompleteReview(context.Background(), services.CompleteReviewRequest{
		Word: "ephemeral", Result: models.ResultCorrect, FirstOfRound: true,
	})
	s.Require().NoError(err)
	s.True(after.IsGraduated)
	s.Equal(rec.TotalReviews, after.TotalReviews)
	s.True(after.NextReviewAt.IsZero())
}

func (s *ReviewServiceSuite) TestCompleteReview_UnknownWord() {
	_, err := s.svc.CompleteReview(context.Background(), services.CompleteReviewRequest{
		Word: "missing", Result: models.ResultCorrect, FirstOfRound: true,
	})
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeNotFound))
}

func (s *ReviewServiceSuite) TestDetachDict() {
	s.syncWord("ephemeral")
	_, err := s.svc.SyncPractice(context.Background(), "ephemeral", "toefl", models.PracticeOutcome{Timestamp: s.current})
	s.Require().NoError(err)

	rec, err := s.svc.DetachDict(context.Background(), "ephemeral", "cet4")
	s.Require().NoError(err)
	s.Equal([]string{"toefl"}, rec.SourceDicts)
	s.Equal("toefl", rec.PreferredDict, "preferred dict falls back to the next source")
}

func (s *ReviewServiceSuite) TestGetDueWords_SortedMostOverdueFirst() {
	ctx := context.Background()

	for _, w := range []string{"alpha", "beta", "gamma"} {
		s.syncWord(w)
	}

	// alpha and beta due (beta more overdue), gamma still in the future.
	s.current = s.current.Add(24 * time.Hour)
	now := s.current
	beta, err := s.records.GetByWord(ctx, "beta")
	s.Require().NoError(err)
	beta.NextReviewAt = now.Add(-3 * 24 * time.Hour)
	s.Require().NoError(s.records.Put(ctx, *beta))
	gamma, err := s.records.GetByWord(ctx, "gamma")
	s.Require().NoError(err)
	gamma.NextReviewAt = now.Add(48 * time.Hour)
	s.Require().NoError(s.records.Put(ctx, *gamma))

	due, err := s.svc.GetDueWords(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Equal("beta", due[0].Word)
	s.Equal("alpha", due[1].Word)

	limited, err := s.svc.GetDueWords(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal("beta", limited[0].Word)
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceSuite))
}
