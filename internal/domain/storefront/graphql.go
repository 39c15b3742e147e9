package storefront

import (
	"context"
	"encoding/json"
)

// GraphQLClient sends a GraphQL document to the commerce platform.
//
// Implementations must fail with *ConfigurationError before any network I/O when
// not configured, *TransportError on a non-2xx status, and *GraphQLError when the
// response envelope carries errors. On success only the envelope's data field is returned.
type GraphQLClient interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}
