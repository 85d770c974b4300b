package controllers

import (
	"net/http"

	"github.com/bulkbite/bulkbite-backend/api/responses"
	"github.com/bulkbite/bulkbite-backend/internal/analytics"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
)

// AnalyticsVendorDashboard returns the caller's vendor dashboard.
func AnalyticsVendorDashboard(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if role := actorRole(r); role != enums.UserRoleVendor && role != enums.UserRoleAdmin {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor dashboard requires vendor role"))
			return
		}

		dashboard, err := svc.VendorDashboard(r.Context(), callerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}

// AnalyticsSupplierDashboard returns the caller's supplier dashboard.
func AnalyticsSupplierDashboard(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if role := actorRole(r); role != enums.UserRoleSupplier && role != enums.UserRoleAdmin {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "supplier dashboard requires supplier role"))
			return
		}

		dashboard, err := svc.SupplierDashboard(r.Context(), callerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}
