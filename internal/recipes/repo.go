package recipes

import (
	"context"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
)

// Repository exposes persistence operations for pack recipes.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a recipe repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a recipe together with its items.
func (r *Repository) Create(ctx context.Context, recipe *models.PackRecipe) (*models.PackRecipe, error) {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// ReplaceItems swaps the recipe's item rows for the provided set.
func (r *Repository) ReplaceItems(ctx context.Context, recipeID string, items []models.PackRecipeItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.PackRecipeItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].RecipeID = recipeID
	}
	return tx.Create(&items).Error
}

// Save persists recipe header fields (title, kind, active).
func (r *Repository) Save(ctx context.Context, recipe *models.PackRecipe) error {
	return r.db.WithContext(ctx).
		Model(&models.PackRecipe{}).
		Where("id = ?", recipe.ID).
		UpdateColumns(map[string]any{
			"title":  recipe.Title,
			"kind":   recipe.Kind,
			"active": recipe.Active,
		}).Error
}

// Delete removes the recipe and its items.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("recipe_id = ?", id).Delete(&models.PackRecipeItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.PackRecipe{}).Error
}

// FindByID loads a recipe with its items in stored order and each
// item's flavor.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.PackRecipe, error) {
	var recipe models.PackRecipe
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Flavor").
		Where("id = ?", id).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes with items. When activeOnly is set, inactive
// recipes are filtered out.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.PackRecipe, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Flavor").
		Order("title ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var recipes []models.PackRecipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountCartLineReferences reports how many cart lines point at the recipe.
func (r *Repository) CountCartLineReferences(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("recipe_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
