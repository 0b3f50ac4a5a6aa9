package services

import (
	"context"
	"time"

	"wordflash/internal/errors"
	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/review"
)

// PlanService generates the daily review plan.
type PlanService interface {
	// GenerateDailyPlan builds the plan for the calendar day containing
	// at. A zero time means "now". Generating a plan mutates nothing.
	GenerateDailyPlan(ctx context.Context, at time.Time) (*models.DailyReviewPlan, error)
}

type planService struct {
	records repository.WordReviewRepository
	configs ConfigService
	clock   Clock
}

// NewPlanService creates a new PlanService
func NewPlanService(records repository.WordReviewRepository, configs ConfigService, clock Clock) PlanService {
	if clock == nil {
		clock = time.Now
	}
	return &planService{records: records, configs: configs, clock: clock}
}

func (s *planService) GenerateDailyPlan(ctx context.Context, at time.Time) (*models.DailyReviewPlan, error) {
	log := logger.FromContext(ctx)
	if at.IsZero() {
		at = s.clock()
	}

	all, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	records := make([]models.WordReviewRecord, 0, len(all))
	for _, rec := range all {
		repaired, issues := models.RepairRecord(rec)
		if len(issues) > 0 {
			log.Warn("repaired review record while planning: word=%s issues=%v", rec.Word, issues)
		}
		records = append(records, repaired)
	}

	cfg, err := s.configs.GetConfig(ctx, models.DefaultUserID)
	if err != nil {
		return nil, err
	}

	plan := review.BuildPlan(records, at, cfg.DailyReviewTarget)
	log.Debug("daily plan generated: date=%s total=%d urgent=%d normal=%d",
		plan.Date, len(plan.ReviewWords), len(plan.UrgentWords), len(plan.NormalWords))
	return &plan, nil
}
