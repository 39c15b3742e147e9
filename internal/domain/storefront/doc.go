// Package storefront contains the Storefront bounded context.
// It describes the remote commerce platform the storefront sells through.
//
// Key concepts:
//   - GraphQLClient: Port for sending GraphQL documents to the platform
//   - Catalog: Port for reading products and variants
//   - CheckoutCreator: Port for creating a hosted checkout from line references
//   - Variant global identifiers: encoding of catalog ids into platform references
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package storefront
