package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/repository/sqlite"
	"wordflash/internal/review"
	"wordflash/internal/services"
	"wordflash/internal/testutil"
)

type PlanServiceSuite struct {
	suite.Suite
	db      *sql.DB
	records repository.WordReviewRepository
	svc     services.PlanService
	current time.Time
}

func (s *PlanServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.records = sqlite.NewWordReviewRepository(s.db)
	s.current = time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	clock := func() time.Time { return s.current }
	configs := services.NewConfigService(
		sqlite.NewReviewConfigRepository(s.db),
		services.NewConfigCache(services.DefaultConfigCacheTTL, clock),
		clock,
	)
	s.svc = services.NewPlanService(s.records, configs, clock)
}

func (s *PlanServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PlanServiceSuite) insertDue(word string, overdueDays int) {
	rec := review.NewWordReviewRecord(word, "cet4", models.DefaultBaseIntervals, s.current.AddDate(0, 0, -1))
	rec.NextReviewAt = s.current.AddDate(0, 0, -overdueDays)
	_, err := s.records.Insert(context.Background(), &rec)
	s.Require().NoError(err)
}

func (s *PlanServiceSuite) TestGenerateDailyPlan_EmptyStore() {
	plan, err := s.svc.GenerateDailyPlan(context.Background(), time.Time{})
	s.Require().NoError(err)

	s.Equal("2025-03-11", plan.Date)
	s.Empty(plan.ReviewWords)
	s.Empty(plan.UrgentWords)
	s.Empty(plan.NormalWords)
	s.Equal(0, plan.EstimatedTime)
	s.Equal(models.DifficultyEasy, plan.Difficulty)
	s.Equal(review.LoadLight, plan.LoadRecommendation)
	s.Equal(50, plan.TargetCount, "target comes from the default config")
}

func (s *PlanServiceSuite) TestGenerateDailyPlan_PartitionsAndSorts() {
	s.insertDue("mild", 0)    // due today, not urgent
	s.insertDue("stale", 3)   // urgent
	s.insertDue("ancient", 5) // urgent, most overdue

	plan, err := s.svc.GenerateDailyPlan(context.Background(), s.current)
	s.Require().NoError(err)

	s.Require().Len(plan.ReviewWords, 3)
	s.Equal("ancient", plan.ReviewWords[0].Word)
	s.Equal("stale", plan.ReviewWords[1].Word)
	s.Equal("mild", plan.ReviewWords[2].Word)

	s.Len(plan.UrgentWords, 2)
	s.Len(plan.NormalWords, 1)
	s.Equal(review.LoadUrgentBacklog, plan.LoadRecommendation)
	s.Equal(3, plan.EstimatedTime, "one minute per due word")
}

func TestPlanServiceSuite(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}
