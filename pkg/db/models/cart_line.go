package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine holds one reserved 3-pack selection for a user. A line's
// reservation covers quantity × recipe item units per flavor; the unique
// index guarantees at most one line per (user, product, recipe).
type CartLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_product_recipe"`
	ProductID string          `gorm:"column:product_id;not null;uniqueIndex:idx_cart_lines_user_product_recipe"`
	RecipeID  string          `gorm:"column:recipe_id;not null;uniqueIndex:idx_cart_lines_user_product_recipe"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	SKU       string          `gorm:"column:sku;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Recipe *PackRecipe `gorm:"foreignKey:RecipeID"`
}

// LineTotal is quantity × unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
