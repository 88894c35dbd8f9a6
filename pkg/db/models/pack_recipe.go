package models

import (
	"time"

	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
)

// PackRecipe is a named combination of flavors that fills a 3-pack.
type PackRecipe struct {
	ID        string           `gorm:"column:id;primaryKey"`
	Title     string           `gorm:"column:title;not null"`
	Kind      enums.RecipeKind `gorm:"column:kind;not null"`
	Active    bool             `gorm:"column:active;not null"`
	Items     []PackRecipeItem `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalUnits sums the per-flavor quantities of the recipe.
func (r PackRecipe) TotalUnits() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}
