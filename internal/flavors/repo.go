package flavors

import (
	"context"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
)

// Repository exposes persistence operations for the flavor catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a flavor repository bound to the provided DB.
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

// Create inserts a new flavor row.
func (r *Repository) Create(ctx context.Context, flavor *models.Flavor) (*models.Flavor, error) {
	if err := r.db.WithContext(ctx).Create(flavor).Error; err != nil {
		return nil, err
	}
	return flavor, nil
}

// Update saves the provided flavor.
func (r *Repository) Update(ctx context.Context, flavor *models.Flavor) (*models.Flavor, error) {
	if err := r.db.WithContext(ctx).Save(flavor).Error; err != nil {
		return nil, err
	}
	return flavor, nil
}

// Delete removes the flavor row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Flavor{}).Error
}

// FindByID loads a single flavor.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Flavor, error) {
	var flavor models.Flavor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&flavor).Error; err != nil {
		return nil, err
	}
	return &flavor, nil
}

// List returns flavors ordered by name. When activeOnly is set, inactive
// flavors are filtered out.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Flavor, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var flavors []models.Flavor
	if err := query.Find(&flavors).Error; err != nil {
		return nil, err
	}
	return flavors, nil
}

// CountRecipeReferences reports how many recipe items point at the flavor.
func (r *Repository) CountRecipeReferences(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PackRecipeItem{}).
		Where("flavor_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
