package ranking

import (
	"github.com/shopspring/decimal"

	"github.com/modastore/storefront-backend/pkg/types"
)

// Default blend weights for the trending score. Sales dominate views.
const (
	DefaultSalesWeight = 0.7
	DefaultViewsWeight = 0.3
)

// Score blends lifetime sales and view counts into a single trending value.
func Score(salesCount, viewsCount int, salesWeight, viewsWeight float64) float64 {
	return float64(salesCount)*salesWeight + float64(viewsCount)*viewsWeight
}

// OrderInfo is the denormalized revenue summary stored on each product row.
type OrderInfo struct {
	TotalRevenue decimal.Decimal
	TotalOrders  int
}

// AggregateOrderInfo derives the revenue summary from the product's current
// price and lifetime sales count. Historical price changes are intentionally
// not accounted for; the summary is a point-in-time approximation.
func AggregateOrderInfo(price decimal.Decimal, salesCount int) OrderInfo {
	return OrderInfo{
		TotalRevenue: price.Mul(decimal.NewFromInt(int64(salesCount))),
		TotalOrders:  salesCount,
	}
}

// AsMap renders the summary in the shape persisted to the jsonb column.
func (i OrderInfo) AsMap() types.JSONMap {
	return types.JSONMap{
		"total_revenue": i.TotalRevenue.InexactFloat64(),
		"total_orders":  i.TotalOrders,
	}
}
