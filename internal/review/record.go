// Package review implements the spaced-repetition scheduling core: the
// interval state machine, the due/urgent filters and the daily plan
// builder. Everything here is pure; persistence is the caller's problem.
package review

import (
	"time"

	"github.com/google/uuid"

	"wordflash/internal/models"
)

const day = 24 * time.Hour

// NewWordReviewRecord creates the record for a word seen for the first
// time. The interval sequence is copied from the active config and stays
// fixed for the record's lifetime. The record starts unreviewed at index 0
// and only becomes due once the first interval elapses: the practice that
// creates it does not count as a completed review.
func NewWordReviewRecord(word, dict string, intervals []int, now time.Time) models.WordReviewRecord {
	seq := append([]int(nil), intervals...)
	return models.WordReviewRecord{
		UUID:             uuid.NewString(),
		Word:             word,
		IntervalSequence: seq,
		NextReviewAt:     now.Add(time.Duration(seq[0]) * day),
		SourceDicts:      []string{dict},
		PreferredDict:    dict,
		LastPracticedAt:  now,
		LastReviewedAt:   now,
		FirstSeenAt:      now,
		LastModified:     now.UnixMilli(),
	}
}

// Outcome is the result of applying a review to a record.
type Outcome struct {
	Record models.WordReviewRecord
	// Advanced is true when the interval index moved (or the record
	// graduated); only then does History carry an entry to append.
	Advanced bool
	History  *models.ReviewHistoryEntry
}

// CompleteReview applies one review to the record and returns the updated
// copy. The interval index advances only on the first schedule-relevant
// review of the calendar day, and only when firstOfRound is true; any
// later call the same day is extra practice and touches bookkeeping
// counters only. Extra practice never pulls the next review closer.
func CompleteReview(rec models.WordReviewRecord, now time.Time, firstOfRound bool,
	result models.ReviewResult, responseTime int, reviewType models.ReviewType) Outcome {

	firstOfDay := rec.TodayPracticeCount == 0 || !SameCalendarDay(rec.LastReviewedAt, now)

	// Lazy daily reset: the counter rolls over when the calendar date of
	// the last review differs from now, not via a separate job.
	if !SameCalendarDay(rec.LastReviewedAt, now) {
		rec.TodayPracticeCount = 0
	}

	var history *models.ReviewHistoryEntry
	advanced := false

	if firstOfDay && firstOfRound && !rec.IsGraduated {
		indexBefore := rec.CurrentIntervalIndex
		progressBefore := IntervalProgress(rec)

		rec.CurrentIntervalIndex++
		if rec.CurrentIntervalIndex >= len(rec.IntervalSequence) {
			rec.CurrentIntervalIndex = len(rec.IntervalSequence)
			rec.IsGraduated = true
			rec.NextReviewAt = time.Time{} // graduation is terminal
		} else {
			next := rec.IntervalSequence[rec.CurrentIntervalIndex]
			rec.NextReviewAt = now.Add(time.Duration(next) * day)
		}
		rec.TotalReviews++
		advanced = true

		history = &models.ReviewHistoryEntry{
			UUID:                   uuid.NewString(),
			WordReviewRecordID:     rec.ID,
			Word:                   rec.Word,
			Dict:                   rec.PreferredDict,
			ReviewedAt:             now,
			ReviewResult:           result,
			ResponseTime:           responseTime,
			IntervalIndexBefore:    indexBefore,
			IntervalIndexAfter:     rec.CurrentIntervalIndex,
			IntervalProgressBefore: progressBefore,
			ReviewType:             reviewType,
		}
		history.IntervalProgressAfter = IntervalProgress(rec)
	}

	rec.TodayPracticeCount++
	rec.LastPracticedAt = now
	rec.LastReviewedAt = now
	if result == models.ResultCorrect {
		rec.ConsecutiveCorrect++
	} else {
		rec.ConsecutiveCorrect = 0
	}
	rec.LastModified = now.UnixMilli()

	return Outcome{Record: rec, Advanced: advanced, History: history}
}

// IntervalProgress maps a record onto [0,1]: consumed intervals over the
// sequence length, or 1 once graduated.
func IntervalProgress(rec models.WordReviewRecord) float64 {
	if rec.IsGraduated {
		return 1
	}
	if len(rec.IntervalSequence) == 0 {
		return 0
	}
	return float64(rec.CurrentIntervalIndex) / float64(len(rec.IntervalSequence))
}

// SameCalendarDay reports whether a and b fall on the same calendar date
// in b's location. Day-boundary math follows the caller's clock, so tests
// and deployments in other timezones behave deterministically.
func SameCalendarDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
