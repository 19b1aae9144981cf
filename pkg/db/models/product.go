package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// Product is a catalog listing with its sizes and gallery.
type Product struct {
	ID          uint                  `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string                `gorm:"column:name;not null"`
	BasePrice   decimal.Decimal       `gorm:"column:base_price;type:numeric(10,2);not null"`
	Description string                `gorm:"column:description;not null"`
	ImageURL    string                `gorm:"column:image_url;not null"`
	Category    enums.ProductCategory `gorm:"column:category;not null;index"`
	Brand       string                `gorm:"column:brand;not null;default:General"`
	Variants    []Variant             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images      []ProductImage        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
