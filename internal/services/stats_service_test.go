package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/repository/sqlite"
	"wordflash/internal/review"
	"wordflash/internal/services"
	"wordflash/internal/testutil"
)

type StatsServiceSuite struct {
	suite.Suite
	db      *sql.DB
	records repository.WordReviewRepository
	history repository.ReviewHistoryRepository
	svc     services.StatsService
	current time.Time
}

func (s *StatsServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.records = sqlite.NewWordReviewRepository(s.db)
	s.history = sqlite.NewReviewHistoryRepository(s.db)
	s.current = time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	clock := func() time.Time { return s.current }
	s.svc = services.NewStatsService(s.records, s.history, clock)
}

func (s *StatsServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsServiceSuite) insertRecord(word string, due time.Time, graduated bool) int64 {
	rec := review.NewWordReviewRecord(word, "cet4", models.DefaultBaseIntervals, s.current.AddDate(0, 0, -10))
	rec.NextReviewAt = due
	if graduated {
		rec.IsGraduated = true
		rec.CurrentIntervalIndex = len(rec.IntervalSequence)
		rec.NextReviewAt = time.Time{}
	}
	id, err := s.records.Insert(context.Background(), &rec)
	s.Require().NoError(err)
	return id
}

func (s *StatsServiceSuite) appendEntry(recordID int64, word string, at time.Time, result models.ReviewResult, responseTime int) {
	_, err := s.history.Append(context.Background(), &models.ReviewHistoryEntry{
		UUID:               uuid.NewString(),
		WordReviewRecordID: recordID,
		Word:               word,
		Dict:               "cet4",
		ReviewedAt:         at,
		ReviewResult:       result,
		ResponseTime:       responseTime,
		ReviewType:         models.ReviewScheduled,
	})
	s.Require().NoError(err)
}

func (s *StatsServiceSuite) TestEmptyStore() {
	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)

	s.Zero(stats.TotalWords)
	s.Zero(stats.DueWords)
	s.Zero(stats.StreakDays)
	s.Equal(100.0, stats.CompletionRate, "no due words means the day is complete")
	s.Len(stats.WeeklyProgress, 7)
	s.Zero(stats.AverageMemoryStrength)
}

func (s *StatsServiceSuite) TestDueUrgentOverdueCounts() {
	s.insertRecord("fresh", s.current.Add(48*time.Hour), false)  // future
	s.insertRecord("today", s.current.Add(-time.Hour), false)    // overdue, not urgent
	s.insertRecord("stale", s.current.Add(-72*time.Hour), false) // urgent
	s.insertRecord("done", time.Time{}, true)                    // graduated

	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)

	s.Equal(4, stats.TotalWords)
	s.Equal(2, stats.DueWords)
	s.Equal(1, stats.UrgentWords)
	s.Equal(2, stats.OverdueWords, "graduated words are never overdue")
	s.Equal(1, stats.MonthlyStats.WordsLearned)
}

func (s *StatsServiceSuite) TestCompletionRateCapsAtHundred() {
	id := s.insertRecord("today", s.current.Add(-time.Hour), false)
	s.appendEntry(id, "today", s.current.Add(-2*time.Hour), models.ResultCorrect, 1500)
	s.appendEntry(id, "today", s.current.Add(-time.Hour), models.ResultCorrect, 1500)

	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.Equal(100.0, stats.CompletionRate, "two reviews against one due word still caps at 100")
}

func (s *StatsServiceSuite) TestStreakStopsAtFirstEmptyDay() {
	id := s.insertRecord("word", s.current.Add(48*time.Hour), false)

	// Reviews today, yesterday, then a gap, then another three days ago.
	s.appendEntry(id, "word", s.current, models.ResultCorrect, 1000)
	s.appendEntry(id, "word", s.current.AddDate(0, 0, -1), models.ResultCorrect, 1000)
	s.appendEntry(id, "word", s.current.AddDate(0, 0, -3), models.ResultCorrect, 1000)

	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.Equal(2, stats.StreakDays)
}

func (s *StatsServiceSuite) TestWeeklyProgressAccuracyAndTargets() {
	id := s.insertRecord("word", s.current.Add(-time.Hour), false)
	yesterday := s.current.AddDate(0, 0, -1)
	s.appendEntry(id, "word", yesterday, models.ResultCorrect, 30000)
	s.appendEntry(id, "word", yesterday, models.ResultIncorrect, 30000)

	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.Require().Len(stats.WeeklyProgress, 7)

	day := stats.WeeklyProgress[5] // yesterday, oldest first
	s.Equal(yesterday.Format("2006-01-02"), day.Date)
	s.Equal(2, day.Reviewed)
	s.Equal(50, day.Accuracy)

	today := stats.WeeklyProgress[6]
	s.Equal(1, today.Target, "word is due by end of today")

	s.Equal(2, stats.MonthlyStats.TotalReviews)
	s.Equal(50.0, stats.MonthlyStats.AverageAccuracy)
	s.Equal(1, stats.MonthlyStats.TimeSpent, "60s of response time rounds to one minute")
}

func (s *StatsServiceSuite) TestSkippedRecordsSurfaceDamage() {
	rec := review.NewWordReviewRecord("broken", "cet4", models.DefaultBaseIntervals, s.current)
	rec.CurrentIntervalIndex = 99 // beyond the sequence
	_, err := s.records.Insert(context.Background(), &rec)
	s.Require().NoError(err)

	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.Equal(1, stats.SkippedRecords)
	s.Zero(stats.AverageMemoryStrength, "damaged records stay out of ratio stats")
}

func (s *StatsServiceSuite) TestAverageMemoryStrength() {
	half := review.NewWordReviewRecord("half", "cet4", []int{1, 2}, s.current)
	half.CurrentIntervalIndex = 1
	half.NextReviewAt = s.current.Add(48 * time.Hour)
	_, err := s.records.Insert(context.Background(), &half)
	s.Require().NoError(err)

	s.insertRecord("done", time.Time{}, true) // progress 1.0

	stats, err := s.svc.GetReviewStatistics(context.Background(), time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.InDelta(0.75, stats.AverageMemoryStrength, 1e-9)
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}
