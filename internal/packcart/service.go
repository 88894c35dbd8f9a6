package packcart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/internal/inventory"
	"github.com/metaxoft5/Nathan-Backend/internal/recipes"
	"github.com/metaxoft5/Nathan-Backend/pkg/db"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
	"github.com/metaxoft5/Nathan-Backend/pkg/sku"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type recipeLoader interface {
	FindByID(ctx context.Context, id string) (*models.PackRecipe, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// Cart is the user's reserved 3-pack selection with derived totals.
type Cart struct {
	Lines      []models.CartLine
	TotalItems int
	CartTotal  decimal.Decimal
}

// AddInput is the payload for adding a 3-pack selection to the cart.
type AddInput struct {
	ProductID string `json:"product_id" validate:"required"`
	RecipeID  string `json:"recipe_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// Service is the reservation engine: every cart mutation moves flavor
// units between purchasable and reserved stock atomically with the
// cart line it backs.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, userID, lineID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) (int, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
}

type service struct {
	lines    *LineRepository
	invRepo  *inventory.Repository
	recipes  recipeLoader
	products productLoader
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds the reservation engine backed by the provided stack.
func NewService(lines *LineRepository, invRepo *inventory.Repository, recipeRepo recipeLoader, products productLoader, tx txRunner, logg *logger.Logger) (Service, error) {
	if lines == nil {
		return nil, fmt.Errorf("cart line repository required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if recipeRepo == nil {
		return nil, fmt.Errorf("recipe loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		lines:    lines,
		invRepo:  invRepo,
		recipes:  recipeRepo,
		products: products,
		tx:       tx,
		logg:     logg,
	}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*models.CartLine, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID != models.ThreePackProductID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only the 3-pack product can be added").
			WithDetails(map[string]any{"product_id": input.ProductID})
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	recipe, err := s.loadPurchasableRecipe(ctx, input.RecipeID)
	if err != nil {
		return nil, err
	}

	var line *models.CartLine
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lineRepo := s.lines.WithTx(tx)
		invRepo := s.invRepo.WithTx(tx)

		if err := s.reserveForRecipe(ctx, invRepo, recipe, input.Quantity); err != nil {
			return err
		}

		existing, findErr := lineRepo.FindByUserProductRecipe(ctx, userID, input.ProductID, input.RecipeID)
		switch {
		case findErr == nil:
			// Merge with the user's existing line for this recipe.
			newQty := existing.Quantity + input.Quantity
			if err := lineRepo.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
				return err
			}
			existing.Quantity = newQty
			line = existing
			return nil
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created, createErr := lineRepo.Create(ctx, &models.CartLine{
				UserID:    userID,
				ProductID: input.ProductID,
				RecipeID:  input.RecipeID,
				Quantity:  input.Quantity,
				UnitPrice: product.Price,
				SKU:       generateSKU(recipe),
			})
			if createErr != nil {
				if db.IsUniqueViolation(createErr, "idx_cart_lines_user_product_recipe") {
					// Concurrent add for the same recipe raced past the
					// merge lookup; the index stays authoritative.
					return pkgerrors.Wrap(pkgerrors.CodeConflict, createErr, "cart line already exists, retry the add")
				}
				return createErr
			}
			line = created
			return nil
		default:
			return findErr
		}
	})
	if err != nil {
		return nil, s.asEngineError(err, "add to cart")
	}
	return line, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	line, err := s.loadLineOr404(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	delta := quantity - line.Quantity
	if delta == 0 {
		return line, nil
	}

	recipe, err := s.loadRecipeForLine(ctx, line)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lineRepo := s.lines.WithTx(tx)
		invRepo := s.invRepo.WithTx(tx)

		if delta > 0 {
			if err := s.reserveForRecipe(ctx, invRepo, recipe, delta); err != nil {
				return err
			}
		} else {
			if err := s.releaseForRecipe(ctx, invRepo, recipe, -delta); err != nil {
				return err
			}
		}
		return lineRepo.UpdateQuantity(ctx, line.ID, quantity)
	})
	if err != nil {
		return nil, s.asEngineError(err, "update cart line")
	}

	line.Quantity = quantity
	return line, nil
}

func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	line, err := s.loadLineOr404(ctx, userID, lineID)
	if err != nil {
		return err
	}
	recipe, err := s.loadRecipeForLine(ctx, line)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.invRepo.WithTx(tx)
		if err := s.releaseForRecipe(ctx, invRepo, recipe, line.Quantity); err != nil {
			return err
		}
		return s.lines.WithTx(tx).Delete(ctx, line.ID)
	})
	if err != nil {
		return s.asEngineError(err, "remove cart line")
	}
	return nil
}

// Clear releases and deletes each line independently. A failing line is
// recorded and skipped so one bad row cannot strand the rest of the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (int, error) {
	lines, err := s.lines.FindByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	cleared := 0
	var failures error
	for _, line := range lines {
		line := line
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			invRepo := s.invRepo.WithTx(tx)
			if line.Recipe != nil {
				if err := s.releaseForRecipe(ctx, invRepo, line.Recipe, line.Quantity); err != nil {
					return err
				}
			}
			return s.lines.WithTx(tx).Delete(ctx, line.ID)
		})
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("line %s: %w", line.ID, err))
			if s.logg != nil {
				logCtx := s.logg.WithFields(ctx, map[string]any{"line_id": line.ID.String()})
				s.logg.Warn(logCtx, "packcart.clear_line_failed")
			}
			continue
		}
		cleared++
	}

	if failures != nil {
		return cleared, pkgerrors.Wrap(pkgerrors.CodeInternal, failures, "clear cart incomplete").
			WithDetails(map[string]any{"cleared": cleared})
	}
	return cleared, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.lines.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	cart := &Cart{Lines: lines, CartTotal: decimal.Zero}
	for _, line := range lines {
		cart.TotalItems += line.Quantity
		cart.CartTotal = cart.CartTotal.Add(line.LineTotal())
	}
	return cart, nil
}

func (s *service) loadLineOr404(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	line, err := s.lines.FindByIDAndUser(ctx, lineID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}
	return line, nil
}

// loadPurchasableRecipe enforces the invariants the engine relies on:
// the recipe exists, is active, and fills a whole pack.
func (s *service) loadPurchasableRecipe(ctx context.Context, recipeID string) (*models.PackRecipe, error) {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
	}
	if !recipe.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe is not active").
			WithDetails(map[string]any{"recipe_id": recipeID})
	}
	if recipe.TotalUnits() != recipes.PackSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe composition does not fill the pack").
			WithDetails(map[string]any{"recipe_id": recipeID, "total_units": recipe.TotalUnits()})
	}
	return recipe, nil
}

func (s *service) loadRecipeForLine(ctx context.Context, line *models.CartLine) (*models.PackRecipe, error) {
	if line.Recipe != nil {
		return line.Recipe, nil
	}
	recipe, err := s.recipes.FindByID(ctx, line.RecipeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
	}
	return recipe, nil
}

// reserveForRecipe claims item.Quantity × packs units per flavor. The
// first flavor that cannot cover its share aborts the transaction, so
// a multi-flavor reservation is all-or-nothing.
func (s *service) reserveForRecipe(ctx context.Context, invRepo *inventory.Repository, recipe *models.PackRecipe, packs int) error {
	for _, item := range recipe.Items {
		required := item.Quantity * packs
		if err := invRepo.Reserve(ctx, item.FlavorID, required); err != nil {
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return s.insufficientStockError(ctx, invRepo, item, required)
			}
			return err
		}
	}
	return nil
}

func (s *service) releaseForRecipe(ctx context.Context, invRepo *inventory.Repository, recipe *models.PackRecipe, packs int) error {
	for _, item := range recipe.Items {
		if _, err := invRepo.Release(ctx, item.FlavorID, item.Quantity*packs); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) insufficientStockError(ctx context.Context, invRepo *inventory.Repository, item models.PackRecipeItem, required int) error {
	name := item.FlavorID
	if item.Flavor != nil {
		name = item.Flavor.Name
	}

	available := 0
	if row, err := invRepo.Get(ctx, item.FlavorID); err == nil {
		if after := row.AvailableAfterSafety(); after > 0 {
			available = after
		}
	}

	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", name)).
		WithDetails(map[string]any{
			"flavor":    name,
			"available": available,
			"required":  required,
		})
}

// asEngineError keeps typed errors intact and wraps everything else.
func (s *service) asEngineError(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func generateSKU(recipe *models.PackRecipe) string {
	items := make([]sku.Item, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		name := item.FlavorID
		if item.Flavor != nil {
			name = item.Flavor.Name
		}
		items = append(items, sku.Item{FlavorName: name, Quantity: item.Quantity})
	}
	return sku.Generate(recipe.Kind, items)
}
