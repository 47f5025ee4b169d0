package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modastore/storefront-backend/api/responses"
	"github.com/modastore/storefront-backend/api/validators"
	"github.com/modastore/storefront-backend/internal/catalog"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/logger"
)

type createProductRequest struct {
	Name         string     `json:"name" validate:"required"`
	Description  string     `json:"description"`
	Price        string     `json:"price" validate:"required"`
	CategoryID   *uuid.UUID `json:"category_id"`
	TagIDs       []uuid.UUID `json:"tag_ids"`
	CurrentStock int        `json:"current_stock" validate:"min=0"`
	IsLaunch     bool       `json:"is_launch"`
	ReleaseDate  *time.Time `json:"release_date"`
}

type updateProductRequest struct {
	Name          *string      `json:"name"`
	Description   *string      `json:"description"`
	Price         *string      `json:"price"`
	CategoryID    *uuid.UUID   `json:"category_id"`
	ClearCategory bool         `json:"clear_category"`
	TagIDs        *[]uuid.UUID `json:"tag_ids"`
	CurrentStock  *int         `json:"current_stock"`
	IsLaunch      *bool        `json:"is_launch"`
	ReleaseDate   *time.Time   `json:"release_date"`
}

// ListProducts serves the filtered, paginated browse endpoint.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := listProductsInputFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func listProductsInputFromQuery(r *http.Request) (catalog.ListProductsInput, error) {
	var input catalog.ListProductsInput

	categoryID, err := validators.ParseQueryUUID(r, "category")
	if err != nil {
		return input, err
	}
	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return input, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return input, err
	}
	inStock, err := validators.ParseQueryBool(r, "in_stock")
	if err != nil {
		return input, err
	}
	params, err := validators.ParsePagination(r)
	if err != nil {
		return input, err
	}

	input.Filters = catalog.ProductListFilters{
		CategoryID:  categoryID,
		TagName:     r.URL.Query().Get("tag"),
		Query:       r.URL.Query().Get("q"),
		PriceMin:    priceMin,
		PriceMax:    priceMax,
		InStockOnly: inStock,
	}
	input.Sort = r.URL.Query().Get("sort")
	input.Pagination = params
	return input, nil
}

// GetProduct serves a single product detail.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// Bestsellers serves the all-time top sellers shelf.
func Bestsellers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rankedShelf(svc, logg, func(r *http.Request) ([]catalog.ProductSummaryDTO, error) {
		return svc.Bestsellers(r.Context())
	})
}

// Trending serves the recent-sales trending shelf.
func Trending(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rankedShelf(svc, logg, func(r *http.Request) ([]catalog.ProductSummaryDTO, error) {
		return svc.Trending(r.Context())
	})
}

// NewArrivals serves the launch shelf.
func NewArrivals(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rankedShelf(svc, logg, func(r *http.Request) ([]catalog.ProductSummaryDTO, error) {
		return svc.NewArrivals(r.Context())
	})
}

func rankedShelf(svc catalog.Service, logg *logger.Logger, fetch func(*http.Request) ([]catalog.ProductSummaryDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		items, err := fetch(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// CreateProduct adds a product to the catalog. Staff only.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal string"))
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:         payload.Name,
			Description:  payload.Description,
			Price:        price,
			CategoryID:   payload.CategoryID,
			TagIDs:       payload.TagIDs,
			CurrentStock: payload.CurrentStock,
			IsLaunch:     payload.IsLaunch,
			ReleaseDate:  payload.ReleaseDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct mutates a product. Staff only.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			CategoryID:    payload.CategoryID,
			ClearCategory: payload.ClearCategory,
			TagIDs:        payload.TagIDs,
			CurrentStock:  payload.CurrentStock,
			IsLaunch:      payload.IsLaunch,
			ReleaseDate:   payload.ReleaseDate,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal string"))
				return
			}
			input.Price = &price
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product. Staff only.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
