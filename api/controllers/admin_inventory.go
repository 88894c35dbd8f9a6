package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metaxoft5/Nathan-Backend/api/responses"
	"github.com/metaxoft5/Nathan-Backend/api/validators"
	inventorysvc "github.com/metaxoft5/Nathan-Backend/internal/inventory"
	"github.com/metaxoft5/Nathan-Backend/pkg/config"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// AdminInventoryList returns every ledger row with derived availability.
func AdminInventoryList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		entries, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// AdminInventoryGet returns one flavor's ledger entry.
func AdminInventoryGet(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		entry, err := svc.Get(r.Context(), chi.URLParam(r, "flavorID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// AdminInventorySetLevels sets absolute on-hand and safety stock for a
// flavor. Reserved units are never touched here.
func AdminInventorySetLevels(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload setLevelsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.SetLevels(r.Context(), inventorysvc.SetLevelsInput{
			FlavorID:    chi.URLParam(r, "flavorID"),
			OnHand:      payload.OnHand,
			SafetyStock: payload.SafetyStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// AdminInventoryBulkSetLevels applies a batch of absolute levels in one
// transaction. Any invalid row rejects the whole batch.
func AdminInventoryBulkSetLevels(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload bulkSetLevelsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.BulkSetLevels(r.Context(), payload.Levels)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// AdminInventoryLowStock returns flavors at or below the alert
// threshold, most depleted first.
func AdminInventoryLowStock(svc inventorysvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		threshold, err := validators.ParseQueryInt(r, "threshold", cfg.Inventory.LowStockThreshold, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alerts, err := svc.LowStockAlerts(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, alerts)
	}
}

type setLevelsRequest struct {
	OnHand      int `json:"on_hand" validate:"min=0"`
	SafetyStock int `json:"safety_stock" validate:"min=0"`
}

type bulkSetLevelsRequest struct {
	Levels []inventorysvc.SetLevelsInput `json:"levels" validate:"required,min=1,dive"`
}
