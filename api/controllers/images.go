package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/api/responses"
	"github.com/modastore/storefront-backend/api/validators"
	"github.com/modastore/storefront-backend/internal/catalog"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/logger"
)

type addImageRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	ImageURL  string    `json:"image_url" validate:"required,url"`
	MediaType string    `json:"media_type"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
}

// AddProductImage attaches an image to a product. Staff only.
func AddProductImage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload addImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.AddImage(r.Context(), catalog.AddImageInput{
			ProductID: payload.ProductID,
			ImageURL:  payload.ImageURL,
			MediaType: payload.MediaType,
			AltText:   payload.AltText,
			IsPrimary: payload.IsPrimary,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

// SetPrimaryProductImage promotes an image to its product's primary slot. Staff only.
func SetPrimaryProductImage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		imageID, err := validators.ParsePathUUID(chi.URLParam(r, "imageId"), "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPrimaryImage(r.Context(), imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteProductImage removes an image. Staff only.
func DeleteProductImage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		imageID, err := validators.ParsePathUUID(chi.URLParam(r, "imageId"), "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteImage(r.Context(), imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
