package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wordflash/internal/errors"
	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/repository/sqlite"
	"wordflash/internal/services"
	"wordflash/internal/testutil"
)

type ConfigServiceSuite struct {
	suite.Suite
	db      *sql.DB
	repo    repository.ReviewConfigRepository
	cache   *services.ConfigCache
	svc     services.ConfigService
	current time.Time
}

func (s *ConfigServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewReviewConfigRepository(s.db)
	s.current = time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return s.current }
	s.cache = services.NewConfigCache(services.DefaultConfigCacheTTL, clock)
	s.svc = services.NewConfigService(s.repo, s.cache, clock)
}

func (s *ConfigServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ConfigServiceSuite) TestGetConfig_CreatesDefaultLazily() {
	ctx := context.Background()

	cfg, err := s.svc.GetConfig(ctx, models.DefaultUserID)
	s.Require().NoError(err)
	s.Equal(models.DefaultBaseIntervals, cfg.BaseIntervals)
	s.NotEmpty(cfg.UUID)

	stored, err := s.repo.GetByUserID(ctx, models.DefaultUserID)
	s.Require().NoError(err)
	s.Require().NotNil(stored, "default config must be persisted on first access")
}

func (s *ConfigServiceSuite) TestGetConfig_ServesFromCacheWithinTTL() {
	ctx := context.Background()

	cfg, err := s.svc.GetConfig(ctx, models.DefaultUserID)
	s.Require().NoError(err)

	// Write behind the service's back; a cached read must not see it.
	cfg2 := *cfg
	cfg2.DailyReviewTarget = 10
	s.Require().NoError(s.repo.Put(ctx, &cfg2))

	got, err := s.svc.GetConfig(ctx, models.DefaultUserID)
	s.Require().NoError(err)
	s.Equal(cfg.DailyReviewTarget, got.DailyReviewTarget)

	// Past the TTL the store wins again.
	s.current = s.current.Add(services.DefaultConfigCacheTTL + time.Second)
	got, err = s.svc.GetConfig(ctx, models.DefaultUserID)
	s.Require().NoError(err)
	s.Equal(10, got.DailyReviewTarget)
}

func (s *ConfigServiceSuite) TestUpdateConfig_InvalidatesCache() {
	ctx := context.Background()

	cfg, err := s.svc.GetConfig(ctx, models.DefaultUserID)
	s.Require().NoError(err)

	updated := *cfg
	updated.DailyReviewTarget = 25
	_, err = s.svc.UpdateConfig(ctx, &updated)
	s.Require().NoError(err)

	got, err := s.svc.GetConfig(ctx, models.DefaultUserID)
	s.Require().NoError(err)
	s.Equal(25, got.DailyReviewTarget)
}

func (s *ConfigServiceSuite) TestUpdateConfig_RejectsInvalid() {
	ctx := context.Background()

	cfg := models.NewReviewConfig(models.DefaultUserID)
	cfg.BaseIntervals = []int{7, 3, 1} // not strictly increasing

	_, err := s.svc.UpdateConfig(ctx, cfg)
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeInvalidConfig))

	stored, err := s.repo.GetByUserID(ctx, models.DefaultUserID)
	s.Require().NoError(err)
	s.Nil(stored, "rejected config must not be persisted")
}

func (s *ConfigServiceSuite) TestApplyPreset() {
	ctx := context.Background()

	cfg, err := s.svc.ApplyPreset(ctx, "intensive", models.DefaultUserID)
	s.Require().NoError(err)
	s.Equal(models.PresetConfigs["intensive"].BaseIntervals, cfg.BaseIntervals)
	s.Equal(models.PresetConfigs["intensive"].DailyReviewTarget, cfg.DailyReviewTarget)
}

func (s *ConfigServiceSuite) TestApplyPreset_UnknownName() {
	_, err := s.svc.ApplyPreset(context.Background(), "nonsense", models.DefaultUserID)
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestConfigServiceSuite(t *testing.T) {
	suite.Run(t, new(ConfigServiceSuite))
}
