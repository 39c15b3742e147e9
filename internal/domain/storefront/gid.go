package storefront

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

const (
	// GIDScheme prefixes every platform global identifier
	GIDScheme = "gid://"
	// VariantGIDPrefix prefixes product variant global identifiers
	VariantGIDPrefix = "gid://shopify/ProductVariant/"
)

var variantGIDPattern = regexp.MustCompile(`gid://shopify/ProductVariant/(\d+)`)

// VariantGID returns the plain global identifier for a variant id.
// Ids that already are global identifiers are returned unchanged.
func VariantGID(id string) string {
	if strings.HasPrefix(id, GIDScheme) {
		return id
	}
	return VariantGIDPrefix + id
}

// EncodeVariantGID builds the merchandise reference the checkout mutations expect:
// the base64 encoding of the variant's global identifier.
func EncodeVariantGID(id string) string {
	return base64.StdEncoding.EncodeToString([]byte(VariantGID(id)))
}

// ParseVariantGID extracts the numeric variant id from a global identifier.
// Base64-encoded identifiers are accepted as well.
func ParseVariantGID(gid string) (string, error) {
	if m := variantGIDPattern.FindStringSubmatch(gid); m != nil {
		return m[1], nil
	}
	if raw, err := base64.StdEncoding.DecodeString(gid); err == nil {
		if m := variantGIDPattern.FindStringSubmatch(string(raw)); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVariantGID, gid)
}
