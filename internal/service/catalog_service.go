package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/blobstore"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductInput carries the fields of a product creation request.
// Every field is required; Price and Quantity are pointers so that an
// absent value is distinguishable from a zero one.
type CreateProductInput struct {
	CategoryID  int64
	ImageData   []byte
	ImageName   string
	Name        string
	Description string
	Price       *decimal.Decimal
	Quantity    *int64
}

// UpdateProductInput is a patch: nil (or empty, for the image) fields are
// left unchanged. There is no way to clear a field to empty.
type UpdateProductInput struct {
	ProductID   int64
	CategoryID  *int64
	ImageData   []byte
	ImageName   string
	Name        *string
	Description *string
	Price       *decimal.Decimal
}

// CatalogService defines the product catalog business logic
type CatalogService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*Response, error)
	UpdateProduct(ctx context.Context, in UpdateProductInput) (*Response, error)
	DeleteProduct(ctx context.Context, productID int64) (*Response, error)
	GetProductByID(ctx context.Context, productID int64) (*Response, error)
	GetAllProducts(ctx context.Context) (*Response, error)
	GetProductsByCategory(ctx context.Context, categoryID int64) (*Response, error)
	SearchProduct(ctx context.Context, searchValue string) (*Response, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	blobs        blobstore.BlobStore
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	blobs blobstore.BlobStore,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		blobs:        blobs,
		logger:       logger,
	}
}

// CreateProduct validates the input, resolves the category, uploads the
// image and persists the product, in that order. The category lookup runs
// before the upload so a bad category id never leaves an orphaned blob.
// If persistence fails after a successful upload the blob is orphaned;
// that window is accepted and logged.
func (s *catalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*Response, error) {
	if in.CategoryID <= 0 || len(in.ImageData) == 0 || in.Name == "" ||
		in.Description == "" || in.Price == nil || in.Quantity == nil {
		return nil, NewValidation("All fields are required")
	}
	if in.Price.IsNegative() {
		return nil, NewValidation("Price cannot be negative")
	}
	if *in.Quantity < 0 {
		return nil, NewValidation("Quantity cannot be negative")
	}

	if _, err := s.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, NewNotFound("Category not found")
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	imageKey, err := s.blobs.Store(ctx, in.ImageData, in.ImageName)
	if err != nil {
		return nil, fmt.Errorf("failed to store product image: %w", err)
	}

	now := time.Now()
	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
		CategoryID:  in.CategoryID,
		ImageKey:    imageKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Warn("Product persistence failed after image upload, blob orphaned",
			zap.String("image_key", imageKey),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return ok("Product successfully created"), nil
}

// UpdateProduct applies a partial update: only supplied fields change. A
// new image replaces the stored key without deleting the previous blob.
func (s *catalogService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*Response, error) {
	product, err := s.productRepo.FindByID(ctx, in.ProductID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, NewNotFound("Product Not Found")
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, NewNotFound("Category not found")
			}
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		product.CategoryID = *in.CategoryID
	}

	if len(in.ImageData) > 0 {
		imageKey, err := s.blobs.Store(ctx, in.ImageData, in.ImageName)
		if err != nil {
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		// The replaced blob is left in place.
		product.ImageKey = imageKey
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, NewValidation("Price cannot be negative")
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return ok("Product updated successfully"), nil
}

// DeleteProduct removes the product record. Its blob is deleted first,
// best-effort: a storage-side failure is logged and never blocks the
// record deletion.
func (s *catalogService) DeleteProduct(ctx context.Context, productID int64) (*Response, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, NewNotFound("Product Not Found")
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	if product.ImageKey != "" {
		if err := s.blobs.Delete(ctx, product.ImageKey); err != nil {
			s.logger.Warn("Failed to delete product image, continuing with record deletion",
				zap.Int64("product_id", productID),
				zap.String("image_key", product.ImageKey),
				zap.Error(err),
			)
		}
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return ok("Product deleted successfully"), nil
}

// GetProductByID returns a single product view
func (s *catalogService) GetProductByID(ctx context.Context, productID int64) (*Response, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, NewNotFound("Product Not Found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	resp := &Response{Status: 200, Product: s.toView(ctx, product)}
	return resp, nil
}

// GetAllProducts returns every product, newest first. An empty catalog is
// a successful empty list, not an error.
func (s *catalogService) GetAllProducts(ctx context.Context) (*Response, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &Response{Status: 200, ProductList: s.toViews(ctx, products)}, nil
}

// GetProductsByCategory returns the category's products, failing with
// NotFound when the category has none.
func (s *catalogService) GetProductsByCategory(ctx context.Context, categoryID int64) (*Response, error) {
	products, err := s.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	if len(products) == 0 {
		return nil, NewNotFound("No Products found for this category")
	}

	return &Response{Status: 200, ProductList: s.toViews(ctx, products)}, nil
}

// SearchProduct matches products whose name or description contains the
// search value, case-insensitively. A blank value matches everything.
func (s *catalogService) SearchProduct(ctx context.Context, searchValue string) (*Response, error) {
	products, err := s.productRepo.Search(ctx, searchValue)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	if len(products) == 0 {
		return nil, NewNotFound("No Products Found")
	}

	return &Response{Status: 200, ProductList: s.toViews(ctx, products)}, nil
}

// toView maps a product to its outward projection, deriving a signed image
// URL. A signing failure leaves the URL empty rather than failing the read.
func (s *catalogService) toView(ctx context.Context, product *domain.Product) *ProductView {
	view := &ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
	}

	if product.ImageKey != "" {
		url, err := s.blobs.SignedURL(ctx, product.ImageKey)
		if err != nil {
			s.logger.Warn("Failed to sign image URL",
				zap.Int64("product_id", product.ID),
				zap.String("image_key", product.ImageKey),
				zap.Error(err),
			)
		} else {
			view.ImageURL = url
		}
	}

	return view
}

func (s *catalogService) toViews(ctx context.Context, products []*domain.Product) []*ProductView {
	views := make([]*ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, s.toView(ctx, product))
	}
	return views
}
