package review

import (
	"time"

	"wordflash/internal/models"
)

// FilterDue returns the records whose next review time has arrived. The
// boundary is inclusive: a record due exactly at now counts. Graduated
// records are never due, whatever their timestamps say. Input order is
// preserved; sorting is the caller's job.
func FilterDue(records []models.WordReviewRecord, now time.Time) []models.WordReviewRecord {
	var due []models.WordReviewRecord
	for _, rec := range records {
		if rec.IsGraduated {
			continue
		}
		if !now.Before(rec.NextReviewAt) {
			due = append(due, rec)
		}
	}
	return due
}

// FilterUrgent returns the records overdue by more than one day. Urgent is
// always a subset of due.
func FilterUrgent(records []models.WordReviewRecord, now time.Time) []models.WordReviewRecord {
	var urgent []models.WordReviewRecord
	for _, rec := range records {
		if rec.IsGraduated {
			continue
		}
		if now.Sub(rec.NextReviewAt) > day {
			urgent = append(urgent, rec)
		}
	}
	return urgent
}

// DaysOverdue returns how many days past its scheduled review the record
// is, floored at zero.
func DaysOverdue(rec models.WordReviewRecord, now time.Time) float64 {
	overdue := now.Sub(rec.NextReviewAt).Hours() / 24
	if overdue < 0 {
		return 0
	}
	return overdue
}
