package models

import "time"

// Flavor is a catalog entry for a single candy flavor.
type Flavor struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_flavors_name"`
	Aliases   []string  `gorm:"column:aliases;serializer:json"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
