package recipes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/api/validators"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

// PackSize is the unit total every recipe must sum to.
const PackSize = 3

const maxTitleLength = 160

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type flavorLoader interface {
	FindByID(ctx context.Context, id string) (*models.Flavor, error)
}

// Service exposes pack recipe management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.PackRecipe, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.PackRecipe, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.PackRecipe, error)
	List(ctx context.Context, activeOnly bool) ([]models.PackRecipe, error)
}

type service struct {
	repo    *Repository
	flavors flavorLoader
	tx      txRunner
}

// NewService builds a recipe service backed by the provided stack.
func NewService(repo *Repository, flavors flavorLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("recipe repository required")
	}
	if flavors == nil {
		return nil, fmt.Errorf("flavor loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, flavors: flavors, tx: tx}, nil
}

// ItemInput is one flavor slot of a recipe payload.
type ItemInput struct {
	FlavorID string `json:"flavor_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CreateInput captures the payload for a new recipe.
type CreateInput struct {
	ID     string      `json:"id" validate:"required"`
	Title  string      `json:"title" validate:"required"`
	Kind   string      `json:"kind" validate:"required"`
	Active *bool       `json:"active"`
	Items  []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateInput captures mutable recipe fields. Items, when present,
// replace the whole set.
type UpdateInput struct {
	Title  *string      `json:"title"`
	Kind   *string      `json:"kind"`
	Active *bool        `json:"active"`
	Items  *[]ItemInput `json:"items"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.PackRecipe, error) {
	id := validators.SanitizeString(input.ID, maxTitleLength)
	title := validators.SanitizeString(input.Title, maxTitleLength)
	if id == "" || title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe id and title are required")
	}

	kind, err := enums.ParseRecipeKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe kind")
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	recipe := &models.PackRecipe{
		ID:     id,
		Title:  title,
		Kind:   kind,
		Active: true,
		Items:  items,
	}
	if input.Active != nil {
		recipe.Active = *input.Active
	}

	if _, err := s.repo.Create(ctx, recipe); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "recipe already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create recipe")
	}
	return s.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.PackRecipe, error) {
	recipe, err := s.loadOr404(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := validators.SanitizeString(*input.Title, maxTitleLength)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe title cannot be empty")
		}
		recipe.Title = title
	}
	if input.Kind != nil {
		kind, err := enums.ParseRecipeKind(*input.Kind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe kind")
		}
		recipe.Kind = kind
	}
	if input.Active != nil {
		recipe.Active = *input.Active
	}

	var items []models.PackRecipeItem
	if input.Items != nil {
		// Open cart lines hold reservations against the current
		// line-up; swapping the items underneath them would release
		// the wrong flavors later.
		refs, err := s.repo.CountCartLineReferences(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check cart references")
		}
		if refs > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "recipe items cannot change while cart lines reference it").
				WithDetails(map[string]any{"cart_lines": refs})
		}

		items, err = s.buildItems(ctx, *input.Items)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Save(ctx, recipe); err != nil {
			return err
		}
		if items != nil {
			return repo.ReplaceItems(ctx, id, items)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update recipe")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.loadOr404(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.CountCartLineReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check cart references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "recipe is referenced by cart lines").
			WithDetails(map[string]any{"cart_lines": refs})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete recipe")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*models.PackRecipe, error) {
	return s.loadOr404(ctx, id)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.PackRecipe, error) {
	recipes, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recipes")
	}
	return recipes, nil
}

// buildItems validates a recipe line-up: every flavor must exist and be
// active, quantities are at least one and sum to exactly PackSize, and
// no flavor appears twice. Positions follow payload order.
func (s *service) buildItems(ctx context.Context, inputs []ItemInput) ([]models.PackRecipeItem, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe requires at least one item")
	}

	seen := map[string]struct{}{}
	total := 0
	items := make([]models.PackRecipeItem, 0, len(inputs))
	for i, input := range inputs {
		if input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1").
				WithDetails(map[string]any{"flavor_id": input.FlavorID})
		}
		if _, dup := seen[input.FlavorID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate flavor in recipe").
				WithDetails(map[string]any{"flavor_id": input.FlavorID})
		}
		seen[input.FlavorID] = struct{}{}

		flavor, err := s.flavors.FindByID(ctx, input.FlavorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown flavor").
					WithDetails(map[string]any{"flavor_id": input.FlavorID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load flavor")
		}
		if !flavor.Active {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "flavor is inactive").
				WithDetails(map[string]any{"flavor_id": input.FlavorID})
		}

		total += input.Quantity
		items = append(items, models.PackRecipeItem{
			FlavorID: input.FlavorID,
			Quantity: input.Quantity,
			Position: i,
		})
	}

	if total != PackSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe quantities must sum to 3").
			WithDetails(map[string]any{"total": total})
	}
	return items, nil
}

func (s *service) loadOr404(ctx context.Context, id string) (*models.PackRecipe, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
	}
	return recipe, nil
}
