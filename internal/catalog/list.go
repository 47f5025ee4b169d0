package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modastore/storefront-backend/pkg/pagination"
)

// RankedListLimit is the fixed size of the bestseller/trending/new-arrival
// shelves.
const RankedListLimit = 10

// ProductListFilters describe the supported filter knobs for the browse
// endpoint.
type ProductListFilters struct {
	CategoryID  *uuid.UUID
	TagName     string
	Query       string
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	InStockOnly bool
}

// ListProductsInput captures the inputs needed to paginate/filter products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Sort       string
	Pagination pagination.Params
}

// ProductListResult pairs one page of products with its pagination state.
type ProductListResult struct {
	Items []ProductSummaryDTO `json:"items"`
	Page  pagination.Page     `json:"page"`
}

// sortColumns is the allowlist of client-facing sort keys. Every ordering
// gets an id tie-break so pages are deterministic.
var sortColumns = map[string]string{
	"price":         "price ASC, id ASC",
	"-price":        "price DESC, id ASC",
	"sales_count":   "sales_count ASC, id ASC",
	"-sales_count":  "sales_count DESC, id ASC",
	"release_date":  "release_date ASC, id ASC",
	"-release_date": "release_date DESC, id ASC",
	"created_at":    "created_at ASC, id ASC",
	"-created_at":   "created_at DESC, id ASC",
}

const defaultSort = "created_at DESC, id ASC"

// orderClause maps the requested sort key onto a SQL order clause, falling
// back to newest-first for unknown keys.
func orderClause(sort string) string {
	if clause, ok := sortColumns[strings.TrimSpace(sort)]; ok {
		return clause
	}
	return defaultSort
}
