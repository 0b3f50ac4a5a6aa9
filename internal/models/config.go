package models

import "fmt"

// DefaultBaseIntervals is the interval sequence assigned to new records
// when no config exists yet.
var DefaultBaseIntervals = []int{1, 3, 7, 15, 30, 60}

const (
	DefaultUserID            = "default"
	DefaultDailyReviewTarget = 50
	DefaultMaxReviewsPerDay  = 100
	DefaultNotificationTime  = "09:00"
)

// ReviewConfig is the per-user (or global "default") scheduler configuration.
type ReviewConfig struct {
	ID     int64  `json:"id"`
	UUID   string `json:"uuid"`
	UserID string `json:"userId"`

	BaseIntervals []int `json:"baseIntervals"`

	DailyReviewTarget int `json:"dailyReviewTarget"`
	MaxReviewsPerDay  int `json:"maxReviewsPerDay"`

	// Notification settings are presentation-only; the scheduler itself
	// never consumes them.
	EnableNotifications bool   `json:"enableNotifications"`
	NotificationTime    string `json:"notificationTime"` // HH:MM

	LastModified int64 `json:"lastModified"`
}

// NewReviewConfig returns a config populated with the hard-coded defaults.
func NewReviewConfig(userID string) *ReviewConfig {
	if userID == "" {
		userID = DefaultUserID
	}
	return &ReviewConfig{
		UserID:              userID,
		BaseIntervals:       append([]int(nil), DefaultBaseIntervals...),
		DailyReviewTarget:   DefaultDailyReviewTarget,
		MaxReviewsPerDay:    DefaultMaxReviewsPerDay,
		EnableNotifications: true,
		NotificationTime:    DefaultNotificationTime,
	}
}

// Validate rejects configs with an empty, non-positive or non-increasing
// interval sequence, or an inconsistent daily target. Invalid configs are
// never silently coerced.
func (c *ReviewConfig) Validate() error {
	if len(c.BaseIntervals) == 0 {
		return fmt.Errorf("baseIntervals cannot be empty")
	}
	for i, d := range c.BaseIntervals {
		if d <= 0 {
			return fmt.Errorf("baseIntervals[%d] must be positive, got %d", i, d)
		}
		if i > 0 && d <= c.BaseIntervals[i-1] {
			return fmt.Errorf("baseIntervals[%d]=%d must be greater than baseIntervals[%d]=%d",
				i, d, i-1, c.BaseIntervals[i-1])
		}
	}
	if c.DailyReviewTarget < 1 || c.DailyReviewTarget > c.MaxReviewsPerDay {
		return fmt.Errorf("dailyReviewTarget must be between 1 and maxReviewsPerDay (%d), got %d",
			c.MaxReviewsPerDay, c.DailyReviewTarget)
	}
	return nil
}

// PresetConfigs are ready-made configurations keyed by intensity.
var PresetConfigs = map[string]ReviewConfig{
	"beginner": {
		BaseIntervals:       []int{2, 4, 8, 16, 32, 64},
		DailyReviewTarget:   30,
		MaxReviewsPerDay:    60,
		EnableNotifications: true,
		NotificationTime:    DefaultNotificationTime,
	},
	"standard": {
		BaseIntervals:       []int{1, 3, 7, 15, 30, 60},
		DailyReviewTarget:   DefaultDailyReviewTarget,
		MaxReviewsPerDay:    DefaultMaxReviewsPerDay,
		EnableNotifications: true,
		NotificationTime:    DefaultNotificationTime,
	},
	"intensive": {
		BaseIntervals:       []int{1, 2, 5, 12, 25, 50},
		DailyReviewTarget:   80,
		MaxReviewsPerDay:    150,
		EnableNotifications: true,
		NotificationTime:    DefaultNotificationTime,
	},
	"relaxed": {
		BaseIntervals:       []int{2, 5, 10, 20, 40, 80},
		DailyReviewTarget:   25,
		MaxReviewsPerDay:    50,
		EnableNotifications: true,
		NotificationTime:    DefaultNotificationTime,
	},
}
