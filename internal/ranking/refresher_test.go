package ranking

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/logger"
	"github.com/modastore/storefront-backend/pkg/types"
)

type stubSweepRepo struct {
	rows       []models.Product
	failIDs    map[uuid.UUID]bool
	updates    map[uuid.UUID]float64
	infos      map[uuid.UUID]types.JSONMap
	listCalls  int
	batchSizes []int
}

func (s *stubSweepRepo) ListBatch(_ context.Context, after uuid.UUID, limit int) ([]models.Product, error) {
	s.listCalls++
	s.batchSizes = append(s.batchSizes, limit)

	var out []models.Product
	for _, row := range s.rows {
		if after != uuid.Nil && row.ID.String() <= after.String() {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubSweepRepo) UpdateDerived(_ context.Context, id uuid.UUID, score float64, info types.JSONMap) error {
	if s.failIDs[id] {
		return errors.New("update rejected")
	}
	if s.updates == nil {
		s.updates = map[uuid.UUID]float64{}
		s.infos = map[uuid.UUID]types.JSONMap{}
	}
	s.updates[id] = score
	s.infos[id] = info
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "ranking-test", Output: io.Discard})
}

func sortedProducts(n int) []models.Product {
	rows := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Product{
			ID:         uuid.New(),
			Price:      decimal.RequireFromString("10.00"),
			SalesCount: i,
			ViewsCount: i * 10,
		})
	}
	// keyset pagination walks ids in ascending order
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].ID.String() < rows[i].ID.String() {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}
	return rows
}

func TestSweepRecomputesAllProducts(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{rows: sortedProducts(5)}
	refresher, err := NewRefresher(RefresherParams{
		Logger:     testLogger(),
		Repository: repo,
		BatchSize:  2,
	})
	require.NoError(t, err)

	stats, err := refresher.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Scanned)
	assert.Equal(t, 5, stats.Updated)
	assert.Equal(t, 0, stats.Failed)
	assert.GreaterOrEqual(t, repo.listCalls, 3)

	for _, row := range repo.rows {
		score, ok := repo.updates[row.ID]
		require.True(t, ok, "product %s not updated", row.ID)
		assert.Equal(t, Score(row.SalesCount, row.ViewsCount, DefaultSalesWeight, DefaultViewsWeight), score)

		info := repo.infos[row.ID]
		assert.Equal(t, row.SalesCount, info["total_orders"])
	}
}

func TestSweepCollectsRowFailures(t *testing.T) {
	t.Parallel()

	rows := sortedProducts(4)
	repo := &stubSweepRepo{
		rows:    rows,
		failIDs: map[uuid.UUID]bool{rows[1].ID: true, rows[3].ID: true},
	}
	refresher, err := NewRefresher(RefresherParams{
		Logger:     testLogger(),
		Repository: repo,
		BatchSize:  10,
	})
	require.NoError(t, err)

	stats, err := refresher.Sweep(context.Background())
	require.Error(t, err)

	assert.Equal(t, 4, stats.Scanned)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 2, stats.Failed)
}

func TestSweepStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &stubSweepRepo{rows: sortedProducts(3)}
	refresher, err := NewRefresher(RefresherParams{Logger: testLogger(), Repository: repo})
	require.NoError(t, err)

	_, err = refresher.Sweep(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.listCalls)
}

func TestNewRefresherValidation(t *testing.T) {
	t.Parallel()

	_, err := NewRefresher(RefresherParams{Repository: &stubSweepRepo{}})
	require.Error(t, err)

	_, err = NewRefresher(RefresherParams{Logger: testLogger()})
	require.Error(t, err)
}
