package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wordflash/internal/errors"
	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
)

// Clock supplies the current time. Injected so day-boundary logic and
// cache expiry stay deterministic under test.
type Clock func() time.Time

// DefaultConfigCacheTTL bounds how long a loaded config is served from
// memory before the store is consulted again.
const DefaultConfigCacheTTL = 5 * time.Minute

// ConfigCache is an explicit, injectable cache for the active ReviewConfig.
// It is passed into the service rather than living as package state, so
// tests can construct isolated instances.
type ConfigCache struct {
	mu        sync.Mutex
	cfg       *models.ReviewConfig
	fetchedAt time.Time
	ttl       time.Duration
	clock     Clock
}

// NewConfigCache creates a cache with the given TTL.
func NewConfigCache(ttl time.Duration, clock Clock) *ConfigCache {
	if clock == nil {
		clock = time.Now
	}
	return &ConfigCache{ttl: ttl, clock: clock}
}

// Get returns the cached config if still within its freshness window.
func (c *ConfigCache) Get() (*models.ReviewConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg == nil || c.clock().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.cfg, true
}

// Set stores the config and restarts its freshness window.
func (c *ConfigCache) Set(cfg *models.ReviewConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.fetchedAt = c.clock()
}

// Invalidate drops the cached config.
func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = nil
}

// ConfigService loads, caches and updates the scheduler configuration.
type ConfigService interface {
	GetConfig(ctx context.Context, userID string) (*models.ReviewConfig, error)
	UpdateConfig(ctx context.Context, cfg *models.ReviewConfig) (*models.ReviewConfig, error)
	ApplyPreset(ctx context.Context, name, userID string) (*models.ReviewConfig, error)
	InvalidateCache()
}

type configService struct {
	repo  repository.ReviewConfigRepository
	cache *ConfigCache
	clock Clock
}

// NewConfigService creates a new ConfigService
func NewConfigService(repo repository.ReviewConfigRepository, cache *ConfigCache, clock Clock) ConfigService {
	if clock == nil {
		clock = time.Now
	}
	return &configService{repo: repo, cache: cache, clock: clock}
}

func (s *configService) GetConfig(ctx context.Context, userID string) (*models.ReviewConfig, error) {
	log := logger.FromContext(ctx)
	if userID == "" {
		userID = models.DefaultUserID
	}

	if cfg, ok := s.cache.Get(); ok && cfg.UserID == userID {
		return cfg, nil
	}

	cfg, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Error("failed to load review config: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	if cfg == nil && userID != models.DefaultUserID {
		cfg, err = s.repo.GetByUserID(ctx, models.DefaultUserID)
		if err != nil {
			log.Error("failed to load default review config: %v", err)
			return nil, errors.NewStoreUnavailableError(err)
		}
	}

	// Lazily create the default config on first access.
	if cfg == nil {
		cfg = models.NewReviewConfig(userID)
		cfg.UUID = uuid.NewString()
		cfg.LastModified = s.clock().UnixMilli()
		if err := s.repo.Put(ctx, cfg); err != nil {
			log.Error("failed to persist default review config: %v", err)
			return nil, errors.NewStoreUnavailableError(err)
		}
		log.Info("created default review config: user_id=%s", userID)
	}

	s.cache.Set(cfg)
	return cfg, nil
}

func (s *configService) UpdateConfig(ctx context.Context, cfg *models.ReviewConfig) (*models.ReviewConfig, error) {
	log := logger.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		log.Warn("rejecting invalid review config: %v", err)
		return nil, errors.NewInvalidConfigError(err)
	}

	if cfg.UserID == "" {
		cfg.UserID = models.DefaultUserID
	}
	if cfg.UUID == "" {
		cfg.UUID = uuid.NewString()
	}
	cfg.LastModified = s.clock().UnixMilli()

	if err := s.repo.Put(ctx, cfg); err != nil {
		log.Error("failed to update review config: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	s.cache.Invalidate()
	log.Info("review config updated: user_id=%s", cfg.UserID)
	return cfg, nil
}

func (s *configService) ApplyPreset(ctx context.Context, name, userID string) (*models.ReviewConfig, error) {
	preset, ok := models.PresetConfigs[name]
	if !ok {
		return nil, errors.NewNotFoundError("preset config", name)
	}

	current, err := s.GetConfig(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.BaseIntervals = append([]int(nil), preset.BaseIntervals...)
	updated.DailyReviewTarget = preset.DailyReviewTarget
	updated.MaxReviewsPerDay = preset.MaxReviewsPerDay
	return s.UpdateConfig(ctx, &updated)
}

func (s *configService) InvalidateCache() {
	s.cache.Invalidate()
}
