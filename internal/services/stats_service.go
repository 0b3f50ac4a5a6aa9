package services

import (
	"context"
	"math"
	"time"

	"wordflash/internal/errors"
	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/review"
)

// maxStreakLookback bounds the day-by-day streak walk.
const maxStreakLookback = 365

// StatsService aggregates record state and review history into reports.
type StatsService interface {
	// GetReviewStatistics aggregates over [start, end]. Zero bounds
	// default to the trailing 30 days ending now.
	GetReviewStatistics(ctx context.Context, start, end time.Time) (*models.ReviewStatistics, error)
}

type statsService struct {
	records repository.WordReviewRepository
	history repository.ReviewHistoryRepository
	clock   Clock
}

// NewStatsService creates a new StatsService
func NewStatsService(records repository.WordReviewRepository, history repository.ReviewHistoryRepository, clock Clock) StatsService {
	if clock == nil {
		clock = time.Now
	}
	return &statsService{records: records, history: history, clock: clock}
}

func (s *statsService) GetReviewStatistics(ctx context.Context, start, end time.Time) (*models.ReviewStatistics, error) {
	log := logger.FromContext(ctx)
	now := s.clock()
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}

	all, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	// Repair pass: damaged rows are patched for counting but skipped from
	// ratio computations, and surfaced via SkippedRecords.
	records := make([]models.WordReviewRecord, 0, len(all))
	skipped := 0
	for _, rec := range all {
		repaired, issues := models.RepairRecord(rec)
		if len(issues) > 0 {
			skipped++
			log.Warn("skipping damaged review record in ratio stats: word=%s issues=%v", rec.Word, issues)
		}
		records = append(records, repaired)
	}

	reviewedToday, err := s.history.CountByTimeRange(ctx, startOfDay(now), endOfDay(now))
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	rangeEntries, err := s.history.ByTimeRange(ctx, start, end)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	dueWords := len(review.FilterDue(records, now))
	urgentWords := len(review.FilterUrgent(records, now))
	overdueWords := 0
	for _, rec := range records {
		if !rec.IsGraduated && now.After(rec.NextReviewAt) {
			overdueWords++
		}
	}

	stats := &models.ReviewStatistics{
		TotalWords:            len(records),
		ReviewedToday:         reviewedToday,
		DueWords:              dueWords,
		UrgentWords:           urgentWords,
		OverdueWords:          overdueWords,
		AverageMemoryStrength: s.averageStrength(all),
		CompletionRate:        completionRate(reviewedToday, dueWords),
		MonthlyStats:          rollupMonthly(rangeEntries, records),
		SkippedRecords:        skipped,
	}

	stats.StreakDays, err = s.streakDays(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.WeeklyProgress, err = s.weeklyProgress(ctx, records, now)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// averageStrength averages interval progress over healthy records only.
func (s *statsService) averageStrength(all []models.WordReviewRecord) float64 {
	sum := 0.0
	n := 0
	for _, rec := range all {
		repaired, issues := models.RepairRecord(rec)
		if len(issues) > 0 {
			continue
		}
		sum += review.IntervalProgress(repaired)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// completionRate relates today's reviews to today's due load, capped at
// 100. No due words means the day is trivially complete.
func completionRate(reviewedToday, dueWords int) float64 {
	if dueWords == 0 {
		return 100
	}
	rate := float64(reviewedToday) / float64(dueWords) * 100
	return math.Min(100, rate)
}

// streakDays walks backwards one calendar day at a time until it finds a
// day with no reviews.
func (s *statsService) streakDays(ctx context.Context, now time.Time) (int, error) {
	streak := 0
	for i := 0; i < maxStreakLookback; i++ {
		day := now.AddDate(0, 0, -i)
		count, err := s.history.CountByTimeRange(ctx, startOfDay(day), endOfDay(day))
		if err != nil {
			return 0, errors.NewStoreUnavailableError(err)
		}
		if count == 0 {
			break
		}
		streak++
	}
	return streak, nil
}

// weeklyProgress builds the trailing 7 days, oldest first. The per-day
// target is the number of words due by that day's end.
func (s *statsService) weeklyProgress(ctx context.Context, records []models.WordReviewRecord, now time.Time) ([]models.DayProgress, error) {
	progress := make([]models.DayProgress, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		entries, err := s.history.ByTimeRange(ctx, startOfDay(day), endOfDay(day))
		if err != nil {
			return nil, errors.NewStoreUnavailableError(err)
		}

		correct := 0
		for _, e := range entries {
			if e.ReviewResult == models.ResultCorrect {
				correct++
			}
		}
		accuracy := 0
		if len(entries) > 0 {
			accuracy = int(math.Round(float64(correct) / float64(len(entries)) * 100))
		}

		target := 0
		dayEnd := endOfDay(day)
		for _, rec := range records {
			if !rec.IsGraduated && !dayEnd.Before(rec.NextReviewAt) {
				target++
			}
		}

		progress = append(progress, models.DayProgress{
			Date:     day.Format("2006-01-02"),
			Reviewed: len(entries),
			Target:   target,
			Accuracy: accuracy,
		})
	}
	return progress, nil
}

// rollupMonthly summarizes the requested range. WordsLearned counts every
// graduated record regardless of when it graduated; graduation dates are
// not stored.
func rollupMonthly(entries []models.ReviewHistoryEntry, records []models.WordReviewRecord) models.MonthlyStats {
	correct := 0
	totalResponseMillis := 0
	for _, e := range entries {
		if e.ReviewResult == models.ResultCorrect {
			correct++
		}
		totalResponseMillis += e.ResponseTime
	}

	accuracy := 0.0
	if len(entries) > 0 {
		accuracy = math.Round(float64(correct)/float64(len(entries))*10000) / 100
	}

	learned := 0
	for _, rec := range records {
		if rec.IsGraduated {
			learned++
		}
	}

	return models.MonthlyStats{
		TotalReviews:    len(entries),
		AverageAccuracy: accuracy,
		TimeSpent:       int(math.Round(float64(totalResponseMillis) / 60000)),
		WordsLearned:    learned,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
