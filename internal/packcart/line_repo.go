package packcart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
)

// LineRepository manages persistent cart lines.
type LineRepository struct {
	db *gorm.DB
}

// NewLineRepository binds the repository to the provided DB handle.
func NewLineRepository(db *gorm.DB) *LineRepository {
	return &LineRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *LineRepository) WithTx(tx *gorm.DB) *LineRepository {
	if tx == nil {
		return r
	}
	return &LineRepository{db: tx}
}

// Create inserts a new cart line, assigning an id when absent.
func (r *LineRepository) Create(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// FindByUser loads the user's cart lines with recipes, oldest first.
func (r *LineRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Recipe.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Recipe.Items.Flavor").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByIDAndUser returns a cart line restricted to its owner.
func (r *LineRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Recipe.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Recipe.Items.Flavor").
		Where("id = ? AND user_id = ?", id, userID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindByUserProductRecipe returns the user's line for the given product
// and recipe pair, if any.
func (r *LineRepository) FindByUserProductRecipe(ctx context.Context, userID uuid.UUID, productID, recipeID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND recipe_id = ?", userID, productID, recipeID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateQuantity persists a new quantity for the line.
func (r *LineRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", id).
		UpdateColumn("quantity", quantity).Error
}

// Delete removes the cart line.
func (r *LineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartLine{}).Error
}
