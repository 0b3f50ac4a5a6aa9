package models

import "fmt"

// RepairRecord validates a record read from storage and patches up legacy
// rows before they reach the scheduling logic. It returns the repaired
// record together with a description of every issue found; callers that
// compute ratios should skip records with a non-empty issue list.
func RepairRecord(rec WordReviewRecord) (WordReviewRecord, []string) {
	var issues []string

	if rec.Word == "" {
		issues = append(issues, "missing word")
	}
	if len(rec.IntervalSequence) == 0 {
		issues = append(issues, "missing interval sequence")
		rec.IntervalSequence = append([]int(nil), DefaultBaseIntervals...)
	}
	if rec.CurrentIntervalIndex < 0 {
		issues = append(issues, fmt.Sprintf("negative interval index %d", rec.CurrentIntervalIndex))
		rec.CurrentIntervalIndex = 0
	}
	if rec.CurrentIntervalIndex > len(rec.IntervalSequence) {
		issues = append(issues, fmt.Sprintf("interval index %d exceeds sequence length %d",
			rec.CurrentIntervalIndex, len(rec.IntervalSequence)))
		rec.CurrentIntervalIndex = len(rec.IntervalSequence)
	}
	// Graduation and index must agree in both directions.
	if rec.CurrentIntervalIndex == len(rec.IntervalSequence) && !rec.IsGraduated {
		issues = append(issues, "index at end of sequence but not graduated")
		rec.IsGraduated = true
	}
	if rec.IsGraduated && rec.CurrentIntervalIndex < len(rec.IntervalSequence) {
		issues = append(issues, "graduated with unconsumed intervals")
		rec.CurrentIntervalIndex = len(rec.IntervalSequence)
	}
	if rec.TodayPracticeCount < 0 {
		issues = append(issues, "negative today practice count")
		rec.TodayPracticeCount = 0
	}

	return rec, issues
}
