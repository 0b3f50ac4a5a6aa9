// Package api exposes the review engine over JSON HTTP.
package api

import (
	"database/sql"

	"wordflash/internal/services"
	"wordflash/internal/worker"
)

type Server struct {
	DB      *sql.DB
	Reviews services.ReviewService
	Plans   services.PlanService
	Stats   services.StatsService
	Configs services.ConfigService
	Pool    *worker.Pool
}
