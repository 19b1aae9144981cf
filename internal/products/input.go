package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	DefaultBrand        = "General"
	DefaultVariantStock = 1

	// priceScale matches the products.base_price NUMERIC(10,2) column.
	priceScale = 2
)

var maxBasePrice = decimal.RequireFromString("99999999.99")

// ProductInput is the ingestion payload as received. Price and stock stay raw
// so their type can be checked in rule order rather than failing the decode.
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	BasePrice   json.RawMessage `json:"basePrice"`
	Description string          `json:"description" validate:"required"`
	ImageURL    string          `json:"imageUrl"`
	Images      []string        `json:"images"`
	Category    string          `json:"category" validate:"required"`
	Brand       string          `json:"brand"`
	Variants    []VariantInput  `json:"variants"`
}

type VariantInput struct {
	Size  types.FlexString `json:"size"`
	Stock json.RawMessage  `json:"stock"`
}

// CreateProductInput is a ProductInput that passed validation, with defaults applied.
type CreateProductInput struct {
	Name        string
	BasePrice   decimal.Decimal
	Description string
	ImageURL    string
	Images      []string
	Category    enums.ProductCategory
	Brand       string
	Variants    []CreateVariantInput
}

type CreateVariantInput struct {
	Size  string
	Stock int
}

var validate = validator.New()

// MainImage is imageUrl, falling back to the first gallery image.
func (in ProductInput) MainImage() string {
	if in.ImageURL != "" {
		return in.ImageURL
	}
	if len(in.Images) > 0 {
		return in.Images[0]
	}
	return ""
}

// Validate applies the ingestion rules in order and returns the first failure.
func (in ProductInput) Validate() (*CreateProductInput, error) {
	mainImage := in.MainImage()
	if err := validate.Struct(in); err != nil || isAbsent(in.BasePrice) || mainImage == "" {
		return nil, invalid("Missing required fields", "Name, price, description, image, and category are required")
	}

	if err := validate.Var(in.Category, "oneof="+strings.Join(enums.ProductCategoryStrings(), " ")); err != nil {
		return nil, invalid("Invalid category", "Category must be one of: "+strings.Join(enums.ProductCategoryStrings(), ", "))
	}
	category := enums.ProductCategory(in.Category)

	price, err := types.ParseDecimal(in.BasePrice)
	if err != nil || !price.IsPositive() {
		return nil, invalid("Invalid price", "Price must be a number greater than 0")
	}
	if !price.Equal(price.Round(priceScale)) {
		return nil, invalid("Invalid price", "Price must have at most 2 decimal places")
	}
	if price.GreaterThan(maxBasePrice) {
		return nil, invalid("Invalid price", "Price must not exceed "+maxBasePrice.StringFixed(priceScale))
	}

	if len(in.Variants) == 0 {
		return nil, invalid("Invalid variants", "At least one variant (size/stock) is required")
	}

	variants := make([]CreateVariantInput, 0, len(in.Variants))
	for _, v := range in.Variants {
		size := v.Size.String()
		switch category {
		case enums.ProductCategoryShoes:
			if !isNumericSize(size) {
				return nil, invalid("Invalid shoe size", fmt.Sprintf("Shoe sizes must be numeric. Invalid: %s", size))
			}
		case enums.ProductCategoryClothing:
			if !enums.ClothingSize(size).IsValid() {
				return nil, invalid("Invalid clothing size", fmt.Sprintf("Clothing sizes must be one of: %s. Invalid: %s", enums.ClothingSizeList(), size))
			}
		}

		stock, ok := parseStock(v.Stock)
		if !ok {
			return nil, invalid("Invalid stock quantity", fmt.Sprintf("Stock must be a non-negative number. Invalid variant: %s", size))
		}
		variants = append(variants, CreateVariantInput{Size: size, Stock: stock})
	}

	images := in.Images
	if len(images) == 0 {
		images = []string{mainImage}
	}

	brand := in.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	return &CreateProductInput{
		Name:        in.Name,
		BasePrice:   price,
		Description: in.Description,
		ImageURL:    mainImage,
		Images:      append([]string(nil), images...),
		Category:    category,
		Brand:       brand,
		Variants:    variants,
	}, nil
}

func invalid(message, details string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

func isAbsent(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0
}

func isNumericSize(size string) bool {
	trimmed := strings.TrimSpace(size)
	if trimmed == "" {
		return false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// parseStock accepts an absent value (default stock) or a non-negative whole
// JSON number. Strings and null are rejected.
func parseStock(raw json.RawMessage) (int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return DefaultVariantStock, true
	}
	if c := trimmed[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, false
	}
	return int(d.IntPart()), true
}
