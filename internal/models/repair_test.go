package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wordflash/internal/models"
)

func TestRepairRecord_HealthyRecordUntouched(t *testing.T) {
	rec := models.WordReviewRecord{
		Word:                 "ephemeral",
		IntervalSequence:     []int{1, 3, 7},
		CurrentIntervalIndex: 1,
	}

	repaired, issues := models.RepairRecord(rec)
	assert.Empty(t, issues)
	assert.Equal(t, rec, repaired)
}

func TestRepairRecord_FillsMissingSequence(t *testing.T) {
	rec := models.WordReviewRecord{Word: "ephemeral"}

	repaired, issues := models.RepairRecord(rec)
	assert.Len(t, issues, 1)
	assert.Equal(t, models.DefaultBaseIntervals, repaired.IntervalSequence)
}

func TestRepairRecord_ClampsIndexAndGraduates(t *testing.T) {
	rec := models.WordReviewRecord{
		Word:                 "ephemeral",
		IntervalSequence:     []int{1, 3},
		CurrentIntervalIndex: 9,
	}

	repaired, issues := models.RepairRecord(rec)
	assert.NotEmpty(t, issues)
	assert.Equal(t, 2, repaired.CurrentIntervalIndex)
	assert.True(t, repaired.IsGraduated, "index at end of sequence implies graduation")
}

func TestRepairRecord_GraduatedWithLowIndex(t *testing.T) {
	rec := models.WordReviewRecord{
		Word:                 "ephemeral",
		IntervalSequence:     []int{1, 3, 7},
		CurrentIntervalIndex: 1,
		IsGraduated:          true,
	}

	repaired, issues := models.RepairRecord(rec)
	assert.NotEmpty(t, issues)
	assert.Equal(t, 3, repaired.CurrentIntervalIndex, "graduation pins the index to the end")
}

func TestRepairRecord_NegativeCounters(t *testing.T) {
	rec := models.WordReviewRecord{
		Word:                 "ephemeral",
		IntervalSequence:     []int{1, 3},
		CurrentIntervalIndex: -2,
		TodayPracticeCount:   -1,
	}

	repaired, issues := models.RepairRecord(rec)
	assert.Len(t, issues, 2)
	assert.Zero(t, repaired.CurrentIntervalIndex)
	assert.Zero(t, repaired.TodayPracticeCount)
}
