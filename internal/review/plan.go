package review

import (
	"sort"
	"time"

	"wordflash/internal/models"
)

// Difficulty thresholds and the one-word-one-minute time estimate.
const (
	easyThreshold = 20
	hardThreshold = 80
)

// Load recommendation messages, first matching rule wins.
const (
	LoadUrgentBacklog = "Urgent backlog today, clear the most overdue words first"
	LoadVeryHeavy     = "Very heavy review load, consider splitting into multiple sessions"
	LoadLight         = "Light day, no review needed today"
	LoadModerate      = "Moderate review load, keep your usual pace"
)

// BuildPlan assembles a daily review plan from a snapshot of records. Due
// words are sorted by days overdue (most overdue first), ties broken by
// word so the order never depends on storage iteration, then partitioned
// into urgent and normal buckets.
func BuildPlan(records []models.WordReviewRecord, now time.Time, targetCount int) models.DailyReviewPlan {
	due := FilterDue(records, now)
	urgent := FilterUrgent(records, now)

	urgentSet := make(map[string]bool, len(urgent))
	for _, rec := range urgent {
		urgentSet[rec.Word] = true
	}

	sorted := make([]models.WordReviewRecord, 0, len(due))
	sorted = append(sorted, due...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := DaysOverdue(sorted[i], now), DaysOverdue(sorted[j], now)
		if di != dj {
			return di > dj
		}
		return sorted[i].Word < sorted[j].Word
	})

	urgentWords := []models.WordReviewRecord{}
	normalWords := []models.WordReviewRecord{}
	for _, rec := range sorted {
		if urgentSet[rec.Word] {
			urgentWords = append(urgentWords, rec)
		} else {
			normalWords = append(normalWords, rec)
		}
	}

	total := len(sorted)

	difficulty := models.DifficultyNormal
	switch {
	case total < easyThreshold:
		difficulty = models.DifficultyEasy
	case total > hardThreshold:
		difficulty = models.DifficultyHard
	}

	var load string
	switch {
	case len(urgentWords) > len(normalWords):
		load = LoadUrgentBacklog
	case total > hardThreshold:
		load = LoadVeryHeavy
	case total < easyThreshold:
		load = LoadLight
	default:
		load = LoadModerate
	}

	return models.DailyReviewPlan{
		Date:               now.Format("2006-01-02"),
		TotalWords:         len(records),
		UrgentWords:        urgentWords,
		NormalWords:        normalWords,
		ReviewWords:        sorted,
		TargetCount:        targetCount,
		EstimatedTime:      total, // one word, roughly one minute
		Difficulty:         difficulty,
		LoadRecommendation: load,
	}
}
