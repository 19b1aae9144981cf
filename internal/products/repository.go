package product

import (
	"context"

	"github.com/angelmondragon/storefront/internal/repo"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	"gorm.io/gorm"
)

// Repository wires together all product-related persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// CreateProduct inserts the product together with its variants and images.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product with variants and images. A missing row yields
// gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.withAssociations(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns products newest first, optionally narrowed to one category.
func (r *Repository) ListProducts(ctx context.Context, category *enums.ProductCategory) ([]models.Product, error) {
	query := r.withAssociations(ctx)
	if category != nil {
		query = query.Where("category = ?", string(*category))
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Order("id DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) withAssociations(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}
