package ports

import (
	"context"

	"climattr/domain/attribution"
)

// MetricsRepository persists attribution runs and their result tables
type MetricsRepository interface {
	SaveRun(ctx context.Context, run attribution.Run) error
	GetRun(ctx context.Context, id string) (*attribution.Run, error)
	ListRuns(ctx context.Context, limit int) ([]attribution.Run, error)
}
