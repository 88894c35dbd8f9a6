package controllers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/metaxoft5/Nathan-Backend/api/responses"
	"github.com/metaxoft5/Nathan-Backend/api/validators"
	availabilitysvc "github.com/metaxoft5/Nathan-Backend/internal/availability"
	recipesvc "github.com/metaxoft5/Nathan-Backend/internal/recipes"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// ProductGetter loads catalog products for the storefront endpoints.
type ProductGetter interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// PackProduct returns the 3-pack product with its purchasable recipes.
func PackProduct(products ProductGetter, recipes recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil || recipes == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := products.FindByID(r.Context(), models.ThreePackProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product"))
			return
		}

		active, err := recipes.List(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPackProductResponse(product, active))
	}
}

// PackRecipes lists the purchasable 3-pack recipes.
func PackRecipes(recipes recipesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if recipes == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		active, err := recipes.List(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]recipeResponse, len(active))
		for i := range active {
			out[i] = newRecipeResponse(&active[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// PackAvailability answers whether a recipe can be purchased at a
// quantity right now, with the per-flavor breakdown.
func PackAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		recipeID := r.URL.Query().Get("recipe_id")
		if recipeID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "recipe_id is required"))
			return
		}

		quantity, err := validators.ParseQueryInt(r, "qty", 1, 1, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Check(r.Context(), recipeID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type packProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Recipes     []recipeResponse `json:"recipes"`
}

type recipeResponse struct {
	ID     string               `json:"id"`
	Title  string               `json:"title"`
	Kind   enums.RecipeKind     `json:"kind"`
	Active bool                 `json:"active"`
	Items  []recipeItemResponse `json:"items"`
}

type recipeItemResponse struct {
	FlavorID   string `json:"flavor_id"`
	FlavorName string `json:"flavor_name,omitempty"`
	Quantity   int    `json:"quantity"`
}

func newPackProductResponse(product *models.Product, active []models.PackRecipe) packProductResponse {
	out := packProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Recipes:     make([]recipeResponse, len(active)),
	}
	for i := range active {
		out.Recipes[i] = newRecipeResponse(&active[i])
	}
	return out
}

func newRecipeResponse(recipe *models.PackRecipe) recipeResponse {
	items := make([]recipeItemResponse, len(recipe.Items))
	for i, item := range recipe.Items {
		items[i] = recipeItemResponse{
			FlavorID: item.FlavorID,
			Quantity: item.Quantity,
		}
		if item.Flavor != nil {
			items[i].FlavorName = item.Flavor.Name
		}
	}
	return recipeResponse{
		ID:     recipe.ID,
		Title:  recipe.Title,
		Kind:   recipe.Kind,
		Active: recipe.Active,
		Items:  items,
	}
}
