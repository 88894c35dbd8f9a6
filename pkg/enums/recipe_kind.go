package enums

import "fmt"

// RecipeKind is the category tag for a 3-pack recipe.
type RecipeKind string

const (
	RecipeKindTraditional RecipeKind = "Traditional"
	RecipeKindSour        RecipeKind = "Sour"
	RecipeKindSweet       RecipeKind = "Sweet"
)

var validRecipeKinds = []RecipeKind{
	RecipeKindTraditional,
	RecipeKindSour,
	RecipeKindSweet,
}

// String implements fmt.Stringer.
func (k RecipeKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known RecipeKind.
func (k RecipeKind) IsValid() bool {
	for _, candidate := range validRecipeKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRecipeKind converts raw input into a RecipeKind.
func ParseRecipeKind(value string) (RecipeKind, error) {
	for _, candidate := range validRecipeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recipe kind %q", value)
}
