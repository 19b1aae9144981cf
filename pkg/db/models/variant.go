package models

// Variant is one purchasable size of a product.
type Variant struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint   `gorm:"column:product_id;not null;index"`
	Size      string `gorm:"column:size;not null"`
	Stock     int    `gorm:"column:stock;not null;default:0"`
}

func (Variant) TableName() string { return "variants" }
