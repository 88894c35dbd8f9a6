package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
)

// Order is a materialized checkout: cart lines converted into immutable
// order items with on-hand stock consumed.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'unpaid'"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
