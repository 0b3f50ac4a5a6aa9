// Package scheduler runs the periodic maintenance of the review store:
// the daily practice-counter sweep and the review reminder check.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	"wordflash/internal/logger"
	"wordflash/internal/models"
	"wordflash/internal/repository"
	"wordflash/internal/review"
	"wordflash/internal/services"
	"wordflash/internal/worker"
)

// Scheduler owns the cron jobs. The heavy sweep runs on the worker pool
// so a slow store never stalls the cron goroutine.
type Scheduler struct {
	cron      *gocron.Scheduler
	pool      *worker.Pool
	records   repository.WordReviewRepository
	configs   services.ConfigService
	resetTime string // HH:MM
	clock     services.Clock
	log       *logger.Logger
}

// New creates a new Scheduler
func New(records repository.WordReviewRepository, configs services.ConfigService,
	pool *worker.Pool, resetTime string, clock services.Clock) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		cron:      gocron.NewScheduler(time.Local),
		pool:      pool,
		records:   records,
		configs:   configs,
		resetTime: resetTime,
		clock:     clock,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the jobs and runs the cron loop in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.Every(1).Day().At(s.resetTime).Do(s.submitDailyReset); err != nil {
		return err
	}
	if _, err := s.cron.Every(1).Minute().Do(s.checkReminder); err != nil {
		return err
	}
	s.cron.StartAsync()
	s.log.Info("scheduler started: daily reset at %s", s.resetTime)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) submitDailyReset() {
	job := &DailyResetJob{Records: s.records, Clock: s.clock}
	if err := s.pool.Submit(job); err != nil {
		s.log.Warn("daily reset not queued: %v", err)
	}
}

// checkReminder logs a review reminder when the configured notification
// time comes around and due words are waiting.
func (s *Scheduler) checkReminder() {
	ctx := context.Background()
	now := s.clock()

	cfg, err := s.configs.GetConfig(ctx, models.DefaultUserID)
	if err != nil {
		s.log.Error("reminder check failed to load config: %v", err)
		return
	}
	if !cfg.EnableNotifications || now.Format("15:04") != cfg.NotificationTime {
		return
	}

	due, err := s.records.List(ctx, repository.WordRecordFilter{DueBefore: &now})
	if err != nil {
		s.log.Error("reminder check failed to list due words: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	count := len(due)
	if count > cfg.DailyReviewTarget {
		count = cfg.DailyReviewTarget
	}
	s.log.Info("review reminder: %d words due, suggesting %d for this session", len(due), count)
}

// DailyResetJob zeroes the today-practice counter of records last touched
// on an earlier calendar day. The counter also resets lazily on first
// review of the day; the sweep keeps idle records from reporting stale
// counts. One row at a time, so a crash mid-sweep loses nothing.
type DailyResetJob struct {
	Records repository.WordReviewRepository
	Clock   services.Clock
}

func (j *DailyResetJob) Name() string { return "daily-count-reset" }

func (j *DailyResetJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := j.Clock()

	records, err := j.Records.List(ctx, repository.WordRecordFilter{NeedsDailyReset: true})
	if err != nil {
		return err
	}

	reset := 0
	for _, rec := range records {
		if review.SameCalendarDay(rec.LastReviewedAt, now) {
			continue
		}
		expected := rec.LastModified
		rec.TodayPracticeCount = 0
		rec.LastModified = now.UnixMilli()
		// Guarded write: a review that lands between the List snapshot
		// and here must win. Such a record was reviewed today, so its
		// counter is current and the sweep has nothing to do for it.
		if err := j.Records.Update(ctx, rec, expected); err != nil {
			if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrNotFound) {
				log.Debug("skipping record changed during sweep: word=%s", rec.Word)
				continue
			}
			log.Error("failed to reset practice count: word=%s err=%v", rec.Word, err)
			continue
		}
		reset++
	}

	log.Info("daily reset swept %d of %d candidate records", reset, len(records))
	return nil
}
