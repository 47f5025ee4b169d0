package controllers

import (
	"net/http"

	"github.com/modastore/storefront-backend/api/responses"
	landingsvc "github.com/modastore/storefront-backend/internal/landing"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/logger"
)

// Landing assembles the storefront home page payload.
func Landing(svc landingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "landing service unavailable"))
			return
		}

		page, err := svc.Page(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
