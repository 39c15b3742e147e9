package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/storefront"
)

const (
	// DefaultPageSize is used when a listing asks for zero or fewer products
	DefaultPageSize = 20
	// MaxPageSize is the largest page the Storefront API serves
	MaxPageSize = 250
)

const productFields = `
  id
  handle
  title
  description
  images(first: 5) {
    edges { node { url altText } }
  }
  variants(first: 25) {
    edges {
      node {
        id
        title
        sku
        availableForSale
        price { amount currencyCode }
      }
    }
  }
`

const listProductsQuery = `query listProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      cursor
      node {` + productFields + `}
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const getProductQuery = `query getProduct($handle: String!) {
  product(handle: $handle) {` + productFields + `}
}`

// CatalogClient reads products through a GraphQL client
type CatalogClient struct {
	client storefront.GraphQLClient
	logger *zap.Logger
}

// NewCatalogClient creates a catalog reader on top of a GraphQL client
func NewCatalogClient(client storefront.GraphQLClient, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{client: client, logger: logger}
}

// ListProducts returns up to first products after the given cursor
func (c *CatalogClient) ListProducts(ctx context.Context, first int, after string) (*storefront.ProductPage, error) {
	if first <= 0 {
		first = DefaultPageSize
	}
	if first > MaxPageSize {
		first = MaxPageSize
	}

	variables := map[string]any{"first": first}
	if after != "" {
		variables["after"] = after
	}

	data, err := c.client.Query(ctx, listProductsQuery, variables)
	if err != nil {
		return nil, err
	}

	var resp productsData
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse products: %v", storefront.ErrInvalidResponse, err)
	}

	page := &storefront.ProductPage{
		Products: make([]storefront.Product, 0, len(resp.Products.Edges)),
		PageInfo: storefront.PageInfo{
			HasNextPage: resp.Products.PageInfo.HasNextPage,
			EndCursor:   resp.Products.PageInfo.EndCursor,
		},
	}
	for _, edge := range resp.Products.Edges {
		page.Products = append(page.Products, edge.Node.toDomain())
	}

	c.logger.Debug("Products listed", zap.Int("count", len(page.Products)), zap.Bool("has_next_page", page.PageInfo.HasNextPage))
	return page, nil
}

// GetProduct returns the product with the given handle
func (c *CatalogClient) GetProduct(ctx context.Context, handle string) (*storefront.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, storefront.ErrProductNotFound
	}

	data, err := c.client.Query(ctx, getProductQuery, map[string]any{"handle": handle})
	if err != nil {
		return nil, err
	}

	var resp productData
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse product: %v", storefront.ErrInvalidResponse, err)
	}
	if resp.Product == nil {
		return nil, fmt.Errorf("%w: %s", storefront.ErrProductNotFound, handle)
	}

	product := resp.Product.toDomain()
	return &product, nil
}

// Ensure CatalogClient implements Catalog
var _ storefront.Catalog = (*CatalogClient)(nil)
