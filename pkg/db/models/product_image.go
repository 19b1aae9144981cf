package models

type ProductImage struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint   `gorm:"column:product_id;not null;index"`
	URL       string `gorm:"column:url;not null"`
}

func (ProductImage) TableName() string { return "product_images" }
