package flavors

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/api/validators"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

const maxNameLength = 120

// Service exposes flavor catalog management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Flavor, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Flavor, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Flavor, error)
	List(ctx context.Context, activeOnly bool) ([]models.Flavor, error)
}

type service struct {
	repo *Repository
}

// NewService builds a flavor service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("flavor repository required")
	}
	return &service{repo: repo}, nil
}

// CreateInput captures the payload for a new flavor.
type CreateInput struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name" validate:"required"`
	Aliases []string `json:"aliases"`
	Active  *bool    `json:"active"`
}

// UpdateInput captures mutable flavor fields.
type UpdateInput struct {
	Name    *string   `json:"name"`
	Aliases *[]string `json:"aliases"`
	Active  *bool     `json:"active"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Flavor, error) {
	id := validators.SanitizeString(input.ID, maxNameLength)
	name := validators.SanitizeString(input.Name, maxNameLength)
	if id == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flavor id and name are required")
	}

	flavor := &models.Flavor{
		ID:      id,
		Name:    name,
		Aliases: input.Aliases,
		Active:  true,
	}
	if input.Active != nil {
		flavor.Active = *input.Active
	}
	if flavor.Aliases == nil {
		flavor.Aliases = []string{}
	}

	created, err := s.repo.Create(ctx, flavor)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "flavor already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create flavor")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Flavor, error) {
	flavor, err := s.loadOr404(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := validators.SanitizeString(*input.Name, maxNameLength)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "flavor name cannot be empty")
		}
		flavor.Name = name
	}
	if input.Aliases != nil {
		flavor.Aliases = *input.Aliases
		if flavor.Aliases == nil {
			flavor.Aliases = []string{}
		}
	}
	if input.Active != nil {
		flavor.Active = *input.Active
	}

	updated, err := s.repo.Update(ctx, flavor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update flavor")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.loadOr404(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.CountRecipeReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check recipe references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "flavor is referenced by pack recipes").
			WithDetails(map[string]any{"recipe_items": refs})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete flavor")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Flavor, error) {
	return s.loadOr404(ctx, id)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Flavor, error) {
	flavors, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list flavors")
	}
	return flavors, nil
}

func (s *service) loadOr404(ctx context.Context, id string) (*models.Flavor, error) {
	flavor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flavor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load flavor")
	}
	return flavor, nil
}
