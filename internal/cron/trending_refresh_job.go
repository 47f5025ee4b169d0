package cron

import (
	"context"
	"fmt"

	"github.com/modastore/storefront-backend/internal/ranking"
	"github.com/modastore/storefront-backend/pkg/logger"
)

// rankingRefresher is the slice of the ranking package the job depends on.
type rankingRefresher interface {
	Sweep(ctx context.Context) (ranking.SweepStats, error)
}

// TrendingRefreshJobParams configure the trending refresh job.
type TrendingRefreshJobParams struct {
	Logger    *logger.Logger
	Refresher rankingRefresher
}

// NewTrendingRefreshJob wraps the ranking sweep as a cron job.
func NewTrendingRefreshJob(params TrendingRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Refresher == nil {
		return nil, fmt.Errorf("ranking refresher required")
	}
	return &trendingRefreshJob{
		logg:      params.Logger,
		refresher: params.Refresher,
	}, nil
}

type trendingRefreshJob struct {
	logg      *logger.Logger
	refresher rankingRefresher
}

func (j *trendingRefreshJob) Name() string { return "trending-refresh" }

// Run executes one full ranking sweep. Partial failures surface as a job
// failure so metrics and logs flag the run, but the rows that did update
// stay updated.
func (j *trendingRefreshJob) Run(ctx context.Context) error {
	stats, err := j.refresher.Sweep(ctx)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned": stats.Scanned,
		"updated": stats.Updated,
		"failed":  stats.Failed,
	})
	if err != nil {
		return fmt.Errorf("trending refresh: %w", err)
	}
	j.logg.Info(logCtx, "trending refresh complete")
	return nil
}
