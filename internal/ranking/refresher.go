package ranking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/logger"
	"github.com/modastore/storefront-backend/pkg/types"
)

const defaultBatchSize = 200

// sweepRepo is the persistence surface the refresher needs.
type sweepRepo interface {
	ListBatch(ctx context.Context, after uuid.UUID, limit int) ([]models.Product, error)
	UpdateDerived(ctx context.Context, id uuid.UUID, score float64, info types.JSONMap) error
}

// RefresherParams configure the ranking refresher.
type RefresherParams struct {
	Logger      *logger.Logger
	Repository  sweepRepo
	SalesWeight float64
	ViewsWeight float64
	BatchSize   int
}

// Refresher recomputes trending_score and aggregated_order_info for every
// product. It runs off the request path; reads observe whatever the last
// completed sweep wrote.
type Refresher struct {
	logg        *logger.Logger
	repo        sweepRepo
	salesWeight float64
	viewsWeight float64
	batchSize   int
}

// SweepStats summarize one full pass over the catalog.
type SweepStats struct {
	Scanned int
	Updated int
	Failed  int
}

// NewRefresher builds a refresher with the weight and batch defaults applied.
func NewRefresher(params RefresherParams) (*Refresher, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("ranking repository required")
	}
	salesWeight := params.SalesWeight
	viewsWeight := params.ViewsWeight
	if salesWeight == 0 && viewsWeight == 0 {
		salesWeight = DefaultSalesWeight
		viewsWeight = DefaultViewsWeight
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Refresher{
		logg:        params.Logger,
		repo:        params.Repository,
		salesWeight: salesWeight,
		viewsWeight: viewsWeight,
		batchSize:   batchSize,
	}, nil
}

// Sweep walks the whole catalog once. Individual row failures are collected
// rather than aborting the pass; the combined error is returned alongside the
// stats so a partially successful sweep still lands its updates.
func (r *Refresher) Sweep(ctx context.Context) (SweepStats, error) {
	var (
		stats SweepStats
		errs  error
		after uuid.UUID
	)

	for {
		if err := ctx.Err(); err != nil {
			return stats, multierr.Append(errs, err)
		}

		batch, err := r.repo.ListBatch(ctx, after, r.batchSize)
		if err != nil {
			return stats, multierr.Append(errs, fmt.Errorf("list batch after %s: %w", after, err))
		}
		if len(batch) == 0 {
			break
		}

		for _, product := range batch {
			stats.Scanned++
			score := Score(product.SalesCount, product.ViewsCount, r.salesWeight, r.viewsWeight)
			info := AggregateOrderInfo(product.Price, product.SalesCount)
			if err := r.repo.UpdateDerived(ctx, product.ID, score, info.AsMap()); err != nil {
				stats.Failed++
				errs = multierr.Append(errs, fmt.Errorf("update product %s: %w", product.ID, err))
				continue
			}
			stats.Updated++
		}

		after = batch[len(batch)-1].ID
		if len(batch) < r.batchSize {
			break
		}
	}

	logCtx := r.logg.WithFields(ctx, map[string]any{
		"scanned": stats.Scanned,
		"updated": stats.Updated,
		"failed":  stats.Failed,
	})
	r.logg.Info(logCtx, "ranking sweep complete")
	return stats, errs
}
