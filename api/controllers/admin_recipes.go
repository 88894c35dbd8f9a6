package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metaxoft5/Nathan-Backend/api/responses"
	"github.com/metaxoft5/Nathan-Backend/api/validators"
	recipesvc "github.com/metaxoft5/Nathan-Backend/internal/recipes"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// AdminRecipeCreate registers a new 3-pack recipe.
func AdminRecipeCreate(svc recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		var payload recipesvc.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recipe, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRecipeResponse(recipe))
	}
}

// AdminRecipeUpdate applies partial changes to a recipe. Supplying
// items replaces the whole flavor line-up.
func AdminRecipeUpdate(svc recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		var payload recipesvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recipe, err := svc.Update(r.Context(), chi.URLParam(r, "recipeID"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newRecipeResponse(recipe))
	}
}

// AdminRecipeDelete removes a recipe no cart line references.
func AdminRecipeDelete(svc recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "recipeID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminRecipeGet returns one recipe with its items.
func AdminRecipeGet(svc recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		recipe, err := svc.Get(r.Context(), chi.URLParam(r, "recipeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newRecipeResponse(recipe))
	}
}

// AdminRecipeList returns all recipes, optionally active only.
func AdminRecipeList(svc recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"
		recipes, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]recipeResponse, len(recipes))
		for i := range recipes {
			out[i] = newRecipeResponse(&recipes[i])
		}
		responses.WriteSuccess(w, out)
	}
}
