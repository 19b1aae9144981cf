package product

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes the catalog read paths and product ingestion.
type Service interface {
	ListProducts(ctx context.Context, category string) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uint) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	Categories() []string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    *ReadCache
	logg     *logger.Logger
}

// NewService constructs a product service instance. cache may be nil.
func NewService(repo *Repository, dbClient *db.Client, cache *ReadCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cache:    cache,
		logg:     logg,
	}, nil
}

// ListProducts returns the catalog newest first. An empty category lists
// everything; a category outside the fixed set matches nothing.
func (s *service) ListProducts(ctx context.Context, category string) ([]ProductDTO, error) {
	var filter *enums.ProductCategory
	if category != "" {
		parsed, err := enums.ParseProductCategory(category)
		if err != nil {
			return []ProductDTO{}, nil
		}
		filter = &parsed
	}

	if cached, ok := s.cache.getList(ctx, category); ok {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch products")
	}

	out := NewProductDTOs(products)
	s.cache.putList(ctx, category, out)
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (*ProductDTO, error) {
	if cached, ok := s.cache.getProduct(ctx, id); ok {
		return cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "An error occurred while fetching the product")
	}

	out := NewProductDTO(product)
	s.cache.putProduct(ctx, out)
	return out, nil
}

// CreateProduct validates the payload and persists the product, its variants
// and its images in one transaction.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	valid, err := input.Validate()
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        valid.Name,
		BasePrice:   valid.BasePrice,
		Description: valid.Description,
		ImageURL:    valid.ImageURL,
		Category:    valid.Category,
		Brand:       valid.Brand,
	}
	for _, v := range valid.Variants {
		product.Variants = append(product.Variants, models.Variant{Size: v.Size, Stock: v.Stock})
	}
	for _, url := range valid.Images {
		product.Images = append(product.Images, models.ProductImage{URL: url})
	}

	var created *models.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateProduct(ctx, product); err != nil {
			return err
		}
		loaded, err := txRepo.FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Server error while creating product").WithDetails(err.Error())
	}

	s.cache.invalidateLists(ctx, string(created.Category))

	ctx = s.logg.WithProductID(ctx, created.ID)
	s.logg.Info(s.logg.WithCategory(ctx, string(created.Category)), "product created")

	return NewProductDTO(created), nil
}

func (s *service) Categories() []string {
	return enums.ProductCategoryStrings()
}
