package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one cart line at checkout time.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order"`
	ProductID string          `gorm:"column:product_id;not null"`
	RecipeID  string          `gorm:"column:recipe_id;not null"`
	SKU       string          `gorm:"column:sku;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
