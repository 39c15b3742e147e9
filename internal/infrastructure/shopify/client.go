package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// maxLoggedBody bounds how much of a response body is written to debug logs
const maxLoggedBody = 2048

// upstream outcomes recorded on storefront_upstream_request_duration_seconds
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeGraphQL   = "graphql_error"
	outcomeInvalid   = "invalid_response"
)

var operationPattern = regexp.MustCompile(`^\s*(query|mutation)\b\s*([A-Za-z_][A-Za-z0-9_]*)?`)

// Client is the remote catalog client for the Shopify Storefront GraphQL API.
// It performs no retries and no caching.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.StorefrontMetrics
}

// NewClient creates a new client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if config == nil {
		return nil, &storefront.ConfigurationError{Missing: []string{"shopify.store_domain", "shopify.storefront_token"}}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// SetStorefrontMetrics sets the metrics recorder for upstream latency
func (c *Client) SetStorefrontMetrics(m *telemetry.StorefrontMetrics) {
	c.metrics = m
}

// Config returns the client configuration
func (c *Client) Config() *Config {
	return c.config
}

// Query sends a GraphQL document and returns the response's data field.
// Configuration is checked before any network I/O.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if missing := c.config.missing(); len(missing) > 0 {
		return nil, &storefront.ConfigurationError{Missing: missing}
	}
	if variables == nil {
		variables = map[string]any{}
	}

	operation := operationName(query)
	ctx, span := telemetry.StartSpan(ctx, "shopify.graphql",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrOperation, operation),
		telemetry.WithAttribute(telemetry.SpanAttrStoreDomain, c.config.StoreDomain),
		telemetry.WithAttribute(telemetry.SpanAttrAPIVersion, c.config.APIVersion),
	)
	defer span.End()

	start := time.Now()
	data, outcome, err := c.do(ctx, query, variables)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(ctx, operation, outcome, elapsed)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Debug("Storefront API request failed",
			zap.String("operation", operation),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	telemetry.SetOK(span)
	return data, nil
}

// do performs the HTTP exchange and unwraps the GraphQL envelope
func (c *Client) do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, string, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, outcomeInvalid, fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, outcomeTransport, &storefront.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(AccessTokenHeader, c.config.StorefrontToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, outcomeTransport, &storefront.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		return nil, outcomeTransport, &storefront.TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrHTTPStatus, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, outcomeTransport, &storefront.TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug("Storefront API response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", truncate(body, maxLoggedBody)),
	)

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, outcomeInvalid, fmt.Errorf("%w: %v", storefront.ErrInvalidResponse, err)
	}
	if len(envelope.Errors) > 0 {
		telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrGraphQLErrors, len(envelope.Errors))
		return nil, outcomeGraphQL, &storefront.GraphQLError{Errors: envelope.Errors}
	}

	return envelope.Data, outcomeOK, nil
}

// operationName returns the named operation of a GraphQL document, or its kind
func operationName(query string) string {
	m := operationPattern.FindStringSubmatch(query)
	switch {
	case m == nil:
		return "query"
	case m[2] != "":
		return m[2]
	default:
		return m[1]
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Ensure Client implements GraphQLClient
var _ storefront.GraphQLClient = (*Client)(nil)
