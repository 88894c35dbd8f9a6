package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ThreePackProductID is the single sellable product the cart accepts.
const ThreePackProductID = "3-pack"

// Product is a sellable catalog entry. The store currently carries one:
// the 3-pack, whose variants are the active pack recipes.
type Product struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Active      bool            `gorm:"column:active;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
