package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the canonical product categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryShoes    ProductCategory = "shoes"
	ProductCategoryClothing ProductCategory = "clothing"
)

var validProductCategories = []ProductCategory{
	ProductCategoryShoes,
	ProductCategoryClothing,
}

// ProductCategories returns the catalog categories in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// ProductCategoryStrings is ProductCategories as plain strings.
func ProductCategoryStrings() []string {
	out := make([]string, 0, len(validProductCategories))
	for _, c := range validProductCategories {
		out = append(out, string(c))
	}
	return out
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ClothingSize is one of the letter sizes clothing variants may carry.
type ClothingSize string

const (
	ClothingSizeXS ClothingSize = "XS"
	ClothingSizeS  ClothingSize = "S"
	ClothingSizeM  ClothingSize = "M"
	ClothingSizeL  ClothingSize = "L"
	ClothingSizeXL ClothingSize = "XL"
)

var validClothingSizes = []ClothingSize{
	ClothingSizeXS,
	ClothingSizeS,
	ClothingSizeM,
	ClothingSizeL,
	ClothingSizeXL,
}

func (s ClothingSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ClothingSize. Matching is
// case-sensitive.
func (s ClothingSize) IsValid() bool {
	for _, candidate := range validClothingSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ClothingSizeList renders the allowed sizes as "XS, S, M, L, XL".
func ClothingSizeList() string {
	parts := make([]string, 0, len(validClothingSizes))
	for _, s := range validClothingSizes {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}
