package models

import "time"

// FlavorInventory tracks on-hand/reserved counts per flavor.
// Available stock is on_hand - reserved; the purchasable amount
// additionally subtracts safety_stock.
type FlavorInventory struct {
	FlavorID    string    `gorm:"column:flavor_id;primaryKey"`
	OnHand      int       `gorm:"column:on_hand;not null;default:0"`
	Reserved    int       `gorm:"column:reserved;not null;default:0"`
	SafetyStock int       `gorm:"column:safety_stock;not null;default:0"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Available is stock not yet claimed by a reservation.
func (fi FlavorInventory) Available() int {
	return fi.OnHand - fi.Reserved
}

// AvailableAfterSafety is the amount a customer may actually reserve.
func (fi FlavorInventory) AvailableAfterSafety() int {
	return fi.OnHand - fi.Reserved - fi.SafetyStock
}
