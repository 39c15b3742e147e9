package shopify

import (
	"encoding/json"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
)

// ---------------------------------------------------------------------------
// GraphQL envelope
// ---------------------------------------------------------------------------

// graphQLRequest is the POST body sent to the Storefront API
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLResponse is the response envelope of the Storefront API
type graphQLResponse struct {
	Data   json.RawMessage               `json:"data"`
	Errors []storefront.GraphQLErrorItem `json:"errors,omitempty"`
}

// ---------------------------------------------------------------------------
// Catalog types
// ---------------------------------------------------------------------------

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type imageConnection struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

type variantNode struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	SKU              string            `json:"sku"`
	AvailableForSale bool              `json:"availableForSale"`
	Price            valueobject.Money `json:"price"`
}

type variantConnection struct {
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

type productNode struct {
	ID          string            `json:"id"`
	Handle      string            `json:"handle"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Images      imageConnection   `json:"images"`
	Variants    variantConnection `json:"variants"`
}

// toDomain converts the wire product into a storefront.Product
func (n productNode) toDomain() storefront.Product {
	p := storefront.Product{
		ID:          n.ID,
		Handle:      n.Handle,
		Title:       n.Title,
		Description: n.Description,
		Images:      make([]storefront.Image, 0, len(n.Images.Edges)),
		Variants:    make([]storefront.Variant, 0, len(n.Variants.Edges)),
	}
	for _, edge := range n.Images.Edges {
		p.Images = append(p.Images, storefront.Image{URL: edge.Node.URL, AltText: edge.Node.AltText})
	}
	for _, edge := range n.Variants.Edges {
		v := edge.Node
		p.Variants = append(p.Variants, storefront.Variant{
			ID:               v.ID,
			Title:            v.Title,
			SKU:              v.SKU,
			Price:            v.Price,
			AvailableForSale: v.AvailableForSale,
		})
	}
	return p
}

// productsData is the data of the products query
type productsData struct {
	Products struct {
		Edges []struct {
			Cursor string      `json:"cursor"`
			Node   productNode `json:"node"`
		} `json:"edges"`
		PageInfo pageInfo `json:"pageInfo"`
	} `json:"products"`
}

// productData is the data of the product(handle:) query
type productData struct {
	Product *productNode `json:"product"`
}

// ---------------------------------------------------------------------------
// Checkout types
// ---------------------------------------------------------------------------

// userError is a user error from either mutation generation.
// cartCreate omits code; checkoutCreate includes it.
type userError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func toUserErrors(in []userError) []storefront.UserError {
	out := make([]storefront.UserError, 0, len(in))
	for _, ue := range in {
		out = append(out, storefront.UserError{Code: ue.Code, Field: ue.Field, Message: ue.Message})
	}
	return out
}

type cartCreatePayload struct {
	Cart *struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}

type checkoutCreatePayload struct {
	Checkout *struct {
		ID     string `json:"id"`
		WebURL string `json:"webUrl"`
	} `json:"checkout"`
	CheckoutUserErrors []userError `json:"checkoutUserErrors"`
	UserErrors         []userError `json:"userErrors"`
}

// checkoutMutationData accepts the data of either mutation generation
type checkoutMutationData struct {
	CartCreate     *cartCreatePayload     `json:"cartCreate"`
	CheckoutCreate *checkoutCreatePayload `json:"checkoutCreate"`
}
