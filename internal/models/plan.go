package models

// Difficulty classifies the size of a daily review plan.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// DailyReviewPlan is a read-only report partitioning due words into urgent
// and normal buckets. Generating it mutates nothing.
type DailyReviewPlan struct {
	Date               string             `json:"date"` // YYYY-MM-DD
	TotalWords         int                `json:"totalWords"`
	UrgentWords        []WordReviewRecord `json:"urgentWords"`
	NormalWords        []WordReviewRecord `json:"normalWords"`
	ReviewWords        []WordReviewRecord `json:"reviewWords"`
	TargetCount        int                `json:"targetCount"`
	EstimatedTime      int                `json:"estimatedTime"` // minutes
	Difficulty         Difficulty         `json:"difficulty"`
	LoadRecommendation string             `json:"loadRecommendation"`
}

// DayProgress is one day of the trailing-week breakdown.
type DayProgress struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Reviewed int    `json:"reviewed"`
	Target   int    `json:"target"`
	Accuracy int    `json:"accuracy"` // percent, 0 when nothing reviewed
}

// MonthlyStats is the rollup over the requested date range.
type MonthlyStats struct {
	TotalReviews    int     `json:"totalReviews"`
	AverageAccuracy float64 `json:"averageAccuracy"` // percent
	TimeSpent       int     `json:"timeSpent"`       // minutes
	WordsLearned    int     `json:"wordsLearned"`
}

// ReviewStatistics aggregates history and record state over a date range.
type ReviewStatistics struct {
	TotalWords            int           `json:"totalWords"`
	ReviewedToday         int           `json:"reviewedToday"`
	DueWords              int           `json:"dueWords"`
	UrgentWords           int           `json:"urgentWords"`
	OverdueWords          int           `json:"overdueWords"`
	AverageMemoryStrength float64       `json:"averageMemoryStrength"`
	CompletionRate        float64       `json:"completionRate"` // percent
	StreakDays            int           `json:"streakDays"`
	WeeklyProgress        []DayProgress `json:"weeklyProgress"`
	MonthlyStats          MonthlyStats  `json:"monthlyStats"`
	SkippedRecords        int           `json:"skippedRecords"`
}
