package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/metaxoft5/Nathan-Backend/api/responses"
	"github.com/metaxoft5/Nathan-Backend/api/validators"
	flavorsvc "github.com/metaxoft5/Nathan-Backend/internal/flavors"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// AdminFlavorCreate registers a new catalog flavor.
func AdminFlavorCreate(svc flavorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flavor service unavailable"))
			return
		}

		var payload flavorsvc.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flavor, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newFlavorResponse(flavor))
	}
}

// AdminFlavorUpdate applies partial changes to a flavor.
func AdminFlavorUpdate(svc flavorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flavor service unavailable"))
			return
		}

		var payload flavorsvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flavor, err := svc.Update(r.Context(), chi.URLParam(r, "flavorID"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newFlavorResponse(flavor))
	}
}

// AdminFlavorDelete removes a flavor not referenced by any recipe.
func AdminFlavorDelete(svc flavorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flavor service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "flavorID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminFlavorGet returns one flavor.
func AdminFlavorGet(svc flavorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flavor service unavailable"))
			return
		}

		flavor, err := svc.Get(r.Context(), chi.URLParam(r, "flavorID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newFlavorResponse(flavor))
	}
}

// AdminFlavorList returns the flavor catalog, optionally active only.
func AdminFlavorList(svc flavorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "flavor service unavailable"))
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"
		flavors, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]flavorResponse, len(flavors))
		for i := range flavors {
			out[i] = newFlavorResponse(&flavors[i])
		}
		responses.WriteSuccess(w, out)
	}
}

type flavorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Aliases   []string  `json:"aliases,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newFlavorResponse(flavor *models.Flavor) flavorResponse {
	return flavorResponse{
		ID:        flavor.ID,
		Name:      flavor.Name,
		Aliases:   flavor.Aliases,
		Active:    flavor.Active,
		CreatedAt: flavor.CreatedAt,
		UpdatedAt: flavor.UpdatedAt,
	}
}
