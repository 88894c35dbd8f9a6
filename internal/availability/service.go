// Package availability answers "can a recipe be purchased at this
// quantity right now" without touching the ledger. It mirrors the
// reservation guard so a green answer here and an accepted reservation
// use the same arithmetic.
package availability

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

type recipeLoader interface {
	FindByID(ctx context.Context, id string) (*models.PackRecipe, error)
}

type ledgerReader interface {
	Get(ctx context.Context, flavorID string) (*models.FlavorInventory, error)
}

// FlavorDetail is the per-flavor breakdown of an availability check.
type FlavorDetail struct {
	FlavorID             string `json:"flavor_id"`
	FlavorName           string `json:"flavor_name"`
	Required             int    `json:"required"`
	OnHand               int    `json:"on_hand"`
	Reserved             int    `json:"reserved"`
	SafetyStock          int    `json:"safety_stock"`
	Available            int    `json:"available"`
	AvailableAfterSafety int    `json:"available_after_safety"`
}

// LimitingFactor names the first flavor, in recipe order, that cannot
// cover its share of the requested quantity.
type LimitingFactor struct {
	FlavorName string `json:"flavor_name"`
	Available  int    `json:"available"`
	Required   int    `json:"required"`
}

// Result is the outcome of a single availability check.
type Result struct {
	RecipeID       string          `json:"recipe_id"`
	Quantity       int             `json:"quantity"`
	IsPurchasable  bool            `json:"is_purchasable"`
	LimitingFactor *LimitingFactor `json:"limiting_factor,omitempty"`
	Flavors        []FlavorDetail  `json:"flavors"`
}

// Service runs read-only availability checks against the ledger.
type Service interface {
	Check(ctx context.Context, recipeID string, quantity int) (*Result, error)
}

type service struct {
	recipes recipeLoader
	ledger  ledgerReader
}

// NewService builds the availability checker.
func NewService(recipes recipeLoader, ledger ledgerReader) (Service, error) {
	if recipes == nil {
		return nil, fmt.Errorf("recipe loader required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger reader required")
	}
	return &service{recipes: recipes, ledger: ledger}, nil
}

func (s *service) Check(ctx context.Context, recipeID string, quantity int) (*Result, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
	}

	result := &Result{
		RecipeID:      recipeID,
		Quantity:      quantity,
		IsPurchasable: true,
		Flavors:       make([]FlavorDetail, 0, len(recipe.Items)),
	}

	for _, item := range recipe.Items {
		detail := FlavorDetail{
			FlavorID: item.FlavorID,
			Required: item.Quantity * quantity,
		}
		if item.Flavor != nil {
			detail.FlavorName = item.Flavor.Name
		} else {
			detail.FlavorName = item.FlavorID
		}

		row, err := s.ledger.Get(ctx, item.FlavorID)
		switch {
		case err == nil:
			detail.OnHand = row.OnHand
			detail.Reserved = row.Reserved
			detail.SafetyStock = row.SafetyStock
			detail.Available = row.Available()
			detail.AvailableAfterSafety = row.AvailableAfterSafety()
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No ledger row means nothing to sell; detail stays zeroed.
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ledger row")
		}

		if detail.AvailableAfterSafety < detail.Required && result.LimitingFactor == nil {
			result.IsPurchasable = false
			result.LimitingFactor = &LimitingFactor{
				FlavorName: detail.FlavorName,
				Available:  detail.AvailableAfterSafety,
				Required:   detail.Required,
			}
		}

		result.Flavors = append(result.Flavors, detail)
	}

	return result, nil
}
