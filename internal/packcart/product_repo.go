package packcart

import (
	"context"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
)

// ProductRepository reads the sellable product catalog.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository binds the repository to the provided DB handle.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID loads a product row.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
