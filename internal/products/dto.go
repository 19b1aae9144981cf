package product

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/types"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	BasePrice   types.Price  `json:"basePrice"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	Images      []ImageDTO   `json:"images"`
	Category    string       `json:"category"`
	Brand       string       `json:"brand"`
	Variants    []VariantDTO `json:"variants"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type VariantDTO struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"productId"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

type ImageDTO struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	ProductID uint   `json:"productId"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		BasePrice:   types.NewPrice(product.BasePrice),
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Category:    string(product.Category),
		Brand:       product.Brand,
		CreatedAt:   product.CreatedAt,
		Variants:    make([]VariantDTO, 0, len(product.Variants)),
		Images:      make([]ImageDTO, 0, len(product.Images)),
	}
	for _, v := range product.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:        v.ID,
			ProductID: v.ProductID,
			Size:      v.Size,
			Stock:     v.Stock,
		})
	}
	for _, img := range product.Images {
		dto.Images = append(dto.Images, ImageDTO{
			ID:        img.ID,
			URL:       img.URL,
			ProductID: img.ProductID,
		})
	}
	return dto
}

func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out
}
