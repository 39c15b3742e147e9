package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/storefront/backend/internal/domain/storefront"
)

// Service handles product listing and detail reads
type Service struct {
	catalog storefront.Catalog
	locale  language.Tag
	logger  *zap.Logger
}

// NewService creates a new catalog Service
func NewService(catalog storefront.Catalog, locale language.Tag, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog: catalog,
		locale:  locale,
		logger:  logger,
	}
}

// ListProducts returns one page of products
func (s *Service) ListProducts(ctx context.Context, req ListProductsRequest) (*ProductListResponse, error) {
	page, err := s.catalog.ListProducts(ctx, req.First, req.After)
	if err != nil {
		s.logger.Warn("Failed to list products", zap.Error(err))
		return nil, err
	}

	resp := &ProductListResponse{
		Products:    make([]ProductResponse, 0, len(page.Products)),
		HasNextPage: page.PageInfo.HasNextPage,
		EndCursor:   page.PageInfo.EndCursor,
	}
	for _, p := range page.Products {
		resp.Products = append(resp.Products, ToProductResponse(p, s.locale))
	}
	return resp, nil
}

// GetProduct returns the product with the given handle
func (s *Service) GetProduct(ctx context.Context, handle string) (*ProductResponse, error) {
	product, err := s.catalog.GetProduct(ctx, handle)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(*product, s.locale)
	return &resp, nil
}
