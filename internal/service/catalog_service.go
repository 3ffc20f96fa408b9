package service

import (
	"context"
	"fmt"

	"image-store/internal/models"
	"image-store/internal/redisclient"
	"image-store/internal/store"
	"image-store/internal/util"

	"go.uber.org/zap"
)

// CatalogService handles product listing, detail and admin creation. Reads
// go through the Redis cache; a cache failure degrades to the database.
type CatalogService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, redis *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest represents an admin product creation request
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description" binding:"required"`
	ImageURL    string           `json:"imageUrl" binding:"required"`
	Variants    []models.Variant `json:"variants" binding:"required,min=1,dive"`
}

// ListProducts returns the full catalog. An empty catalog is ErrNotFound so
// callers can distinguish "nothing for sale" from a successful listing.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	if products, hit, err := s.redis.GetProductList(ctx); err != nil {
		s.logger.Warn("Catalog cache read failed", zap.Error(err))
	} else if hit {
		util.CatalogCacheHits.Inc()
		return products, nil
	} else {
		util.CatalogCacheMisses.Inc()
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products found: %w", models.ErrNotFound)
	}

	if err := s.redis.SetProductList(ctx, products); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
	return products, nil
}

// GetProduct returns a single product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	if product, hit, err := s.redis.GetProduct(ctx, id); err != nil {
		s.logger.Warn("Product cache read failed", zap.Int64("product_id", id), zap.Error(err))
	} else if hit {
		util.CatalogCacheHits.Inc()
		return product, nil
	} else {
		util.CatalogCacheMisses.Inc()
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.redis.SetProduct(ctx, product); err != nil {
		s.logger.Warn("Product cache write failed", zap.Int64("product_id", id), zap.Error(err))
	}
	return product, nil
}

// CreateProduct persists a new catalog product and invalidates the cached
// listing. Callers gate this behind the admin role.
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if len(req.Variants) == 0 {
		return nil, fmt.Errorf("product needs at least one variant: %w", models.ErrInvalidInput)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Variants:    models.VariantList(req.Variants),
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int("variants", len(product.Variants)))

	if err := s.redis.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
	return product, nil
}
