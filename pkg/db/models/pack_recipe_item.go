package models

// PackRecipeItem assigns a flavor and unit count to a recipe slot.
// Position preserves the order flavors appear in SKUs and availability
// breakdowns.
type PackRecipeItem struct {
	RecipeID string `gorm:"column:recipe_id;primaryKey"`
	FlavorID string `gorm:"column:flavor_id;primaryKey"`
	Quantity int    `gorm:"column:quantity;not null;default:1"`
	Position int    `gorm:"column:position;not null;default:0"`

	Flavor *Flavor `gorm:"foreignKey:FlavorID"`
}
