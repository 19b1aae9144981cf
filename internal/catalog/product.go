package catalog

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/types"
)

// Product mirrors the catalog payload served by the API.
type Product struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	BasePrice   types.Price `json:"basePrice"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Images      []Image     `json:"images,omitempty"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand,omitempty"`
	Variants    []Variant   `json:"variants"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Variant struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"productId"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

type Image struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	ProductID uint   `json:"productId"`
}

// VariantBySize returns the first variant carrying exactly size.
func (p Product) VariantBySize(size string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Size == size {
			return v, true
		}
	}
	return Variant{}, false
}

// InStock reports whether any variant has stock left.
func (p Product) InStock() bool {
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

// FindVariant scans products for the variant with the given id.
func FindVariant(products []Product, variantID uint) (Variant, bool) {
	for _, p := range products {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return v, true
			}
		}
	}
	return Variant{}, false
}

// ProductInput is the ingestion payload sent to POST /products.
type ProductInput struct {
	Name        string         `json:"name"`
	BasePrice   types.Price    `json:"basePrice"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Category    string         `json:"category"`
	Brand       string         `json:"brand,omitempty"`
	Variants    []VariantInput `json:"variants"`
}

type VariantInput struct {
	Size  string `json:"size"`
	Stock *int   `json:"stock,omitempty"`
}
