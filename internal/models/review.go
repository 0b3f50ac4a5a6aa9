package models

import "time"

// ReviewResult is the outcome of a single review.
type ReviewResult string

const (
	ResultCorrect   ReviewResult = "correct"
	ResultIncorrect ReviewResult = "incorrect"
)

// ReviewType records how a review was triggered.
type ReviewType string

const (
	ReviewScheduled         ReviewType = "scheduled"
	ReviewManual            ReviewType = "manual"
	ReviewPracticeTriggered ReviewType = "practice_triggered"
)

// WordReviewRecord tracks the review schedule of one word. The word itself
// is the natural key, shared across all source dictionaries.
type WordReviewRecord struct {
	ID   int64  `json:"id"`
	UUID string `json:"uuid"`
	Word string `json:"word"`

	// IntervalSequence is fixed at creation from the active config and
	// never recalculated, even when the config changes afterwards.
	IntervalSequence     []int     `json:"intervalSequence"`
	CurrentIntervalIndex int       `json:"currentIntervalIndex"`
	NextReviewAt         time.Time `json:"nextReviewAt"`
	TotalReviews         int       `json:"totalReviews"`
	IsGraduated          bool      `json:"isGraduated"`

	ConsecutiveCorrect int       `json:"consecutiveCorrect"`
	TodayPracticeCount int       `json:"todayPracticeCount"`
	LastPracticedAt    time.Time `json:"lastPracticedAt"`
	LastReviewedAt     time.Time `json:"lastReviewedAt"`

	SourceDicts   []string `json:"sourceDicts"`
	PreferredDict string   `json:"preferredDict"`

	FirstSeenAt time.Time `json:"firstSeenAt"`

	// LastModified guards optimistic updates (unix milliseconds).
	LastModified int64 `json:"lastModified"`
}

// HasSourceDict reports whether dict is already one of the record's sources.
func (r *WordReviewRecord) HasSourceDict(dict string) bool {
	for _, d := range r.SourceDicts {
		if d == dict {
			return true
		}
	}
	return false
}

// ReviewHistoryEntry is an append-only log row written for every
// schedule-advancing review. Repeat same-day practice emits none.
type ReviewHistoryEntry struct {
	ID                 int64        `json:"id"`
	UUID               string       `json:"uuid"`
	WordReviewRecordID int64        `json:"wordReviewRecordId"`
	Word               string       `json:"word"`
	Dict               string       `json:"dict"`
	ReviewedAt         time.Time    `json:"reviewedAt"`
	ReviewResult       ReviewResult `json:"reviewResult"`
	ResponseTime       int          `json:"responseTime"` // milliseconds

	IntervalIndexBefore    int     `json:"intervalIndexBefore"`
	IntervalIndexAfter     int     `json:"intervalIndexAfter"`
	IntervalProgressBefore float64 `json:"intervalProgressBefore"`
	IntervalProgressAfter  float64 `json:"intervalProgressAfter"`

	ReviewType ReviewType `json:"reviewType"`
}

// PracticeOutcome is a raw practice event coming from the typing UI.
type PracticeOutcome struct {
	IsCorrect    bool      `json:"isCorrect"`
	ResponseTime int       `json:"responseTime"` // milliseconds
	Timestamp    time.Time `json:"timestamp"`
}
