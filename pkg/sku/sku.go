// Package sku derives the stock keeping unit string for a 3-pack
// selection from its recipe kind and flavor line-up.
package sku

import (
	"fmt"
	"strings"

	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
)

const (
	prefix      = "3P"
	unknownCode = "UNK"
)

var kindCodes = map[enums.RecipeKind]string{
	enums.RecipeKindTraditional: "TRD",
	enums.RecipeKindSour:        "SOR",
	enums.RecipeKindSweet:       "SWE",
}

var flavorCodes = map[string]string{
	"Red Twist":         "RED",
	"Blue Raspberry":    "BLURAS",
	"Fruit Rainbow":     "FRURAI",
	"Green Apple":       "GREAPP",
	"Watermelon":        "WAT",
	"Cherry":            "CHE",
	"Berry Delight":     "BERDEL",
	"Cotton Candy":      "COT",
	"Strawberry Banana": "STRBAN",
}

// Item is one flavor slot of a recipe as it appears in the SKU.
type Item struct {
	FlavorName string
	Quantity   int
}

// Generate builds the SKU for a recipe kind and its items in stored
// order, e.g. "3P-SOR-WAT-CHE-BERDEL". Quantities above one append an
// "xN" suffix to the flavor code. Unmapped kinds or flavors fall back
// to "UNK" rather than failing.
func Generate(kind enums.RecipeKind, items []Item) string {
	parts := make([]string, 0, len(items)+2)
	parts = append(parts, prefix, KindCode(kind))
	for _, item := range items {
		code := FlavorCode(item.FlavorName)
		if item.Quantity > 1 {
			code = fmt.Sprintf("%s%s", code, quantitySuffix(item.Quantity))
		}
		parts = append(parts, code)
	}
	return strings.Join(parts, "-")
}

// KindCode maps a recipe kind to its SKU segment.
func KindCode(kind enums.RecipeKind) string {
	if code, ok := kindCodes[kind]; ok {
		return code
	}
	return unknownCode
}

// FlavorCode maps a flavor display name to its SKU segment.
func FlavorCode(name string) string {
	if code, ok := flavorCodes[name]; ok {
		return code
	}
	return unknownCode
}

func quantitySuffix(qty int) string {
	return fmt.Sprintf("x%d", qty)
}
