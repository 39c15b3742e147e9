// Package docs registers the OpenAPI description of the storefront API with swag.
// Keep it in step with the handler annotations when routes change.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cart": {
            "get": {
                "description": "Returns the session cart, creating an empty one on first use",
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Get cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Removes every line item from the session cart",
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Clear cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartEnvelope"}}
                }
            }
        },
        "/cart/items": {
            "post": {
                "description": "Adds a variant to the cart or raises the quantity of an existing line",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add item to cart",
                "parameters": [
                    {"description": "Item to add", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/cart/items/{id}": {
            "put": {
                "description": "Sets the quantity of a line item; a quantity below 1 removes it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Update item quantity",
                "parameters": [
                    {"type": "string", "description": "Variant ID", "name": "id", "in": "path", "required": true},
                    {"description": "New quantity", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateQuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Remove item from cart",
                "parameters": [
                    {"type": "string", "description": "Variant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartEnvelope"}}
                }
            }
        },
        "/cart/stream": {
            "get": {
                "description": "Server-sent events carrying the current cart, then every change to it",
                "produces": ["text/event-stream"],
                "tags": ["cart"],
                "summary": "Stream cart changes",
                "responses": {
                    "200": {"description": "SSE stream", "schema": {"type": "string"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/catalog/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List products",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Page size (1-250)", "name": "first", "in": "query"},
                    {"type": "string", "description": "Cursor returned as end_cursor by the previous page", "name": "after", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProductListEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/catalog/products/{handle}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get product",
                "parameters": [
                    {"type": "string", "description": "Product handle", "name": "handle", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProductEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "description": "Creates a hosted checkout from the session cart and clears the submitted lines",
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Check out",
                "parameters": [
                    {"type": "boolean", "description": "Respond with 303 See Other instead of JSON", "name": "redirect", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CheckoutEnvelope"}},
                    "303": {"description": "Redirect to the hosted checkout"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/storefront/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["storefront"],
                "summary": "Get storefront settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StorefrontConfigEnvelope"}}
                }
            }
        },
        "/system/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get system information",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SystemInfoEnvelope"}}
                }
            }
        },
        "/system/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Ping the API",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PingEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Money": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "19.99"},
                "currency": {"type": "string", "example": "USD"}
            }
        },
        "ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "ERR_EMPTY_CART"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/ErrorInfo"}
            }
        },
        "AddItemRequest": {
            "type": "object",
            "required": ["variant_id", "title", "price"],
            "properties": {
                "variant_id": {"type": "string", "maxLength": 255},
                "product_handle": {"type": "string", "maxLength": 255},
                "title": {"type": "string", "maxLength": 255},
                "image_url": {"type": "string", "maxLength": 2048},
                "price": {"type": "string", "example": "19.99"},
                "currency": {"type": "string", "example": "USD"},
                "quantity": {"type": "integer", "maximum": 999, "description": "Defaults to 1 when zero or negative"}
            }
        },
        "UpdateQuantityRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "integer", "maximum": 999}
            }
        },
        "LineItemResponse": {
            "type": "object",
            "properties": {
                "variant_id": {"type": "string"},
                "product_handle": {"type": "string"},
                "title": {"type": "string"},
                "image_url": {"type": "string"},
                "unit_price": {"$ref": "#/definitions/Money"},
                "unit_price_display": {"type": "string", "example": "$19.99"},
                "quantity": {"type": "integer"},
                "subtotal": {"$ref": "#/definitions/Money"},
                "subtotal_display": {"type": "string"}
            }
        },
        "CartResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/LineItemResponse"}},
                "total": {"$ref": "#/definitions/Money"},
                "total_display": {"type": "string"},
                "item_count": {"type": "integer"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "CartEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/CartResponse"}
            }
        },
        "VariantResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "cart_id": {"type": "string"},
                "title": {"type": "string"},
                "sku": {"type": "string"},
                "price": {"$ref": "#/definitions/Money"},
                "price_display": {"type": "string"},
                "available_for_sale": {"type": "boolean"}
            }
        },
        "Image": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "alt_text": {"type": "string"}
            }
        },
        "ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "handle": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "image_url": {"type": "string"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/Image"}},
                "variants": {"type": "array", "items": {"$ref": "#/definitions/VariantResponse"}},
                "default_cart_id": {"type": "string"},
                "available": {"type": "boolean"}
            }
        },
        "ProductEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/ProductResponse"}
            }
        },
        "ProductListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "products": {"type": "array", "items": {"$ref": "#/definitions/ProductResponse"}},
                        "has_next_page": {"type": "boolean"},
                        "end_cursor": {"type": "string"}
                    }
                }
            }
        },
        "CheckoutEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "checkout_url": {"type": "string", "example": "https://shop.example.com/checkouts/abc"}
                    }
                }
            }
        },
        "StorefrontConfigEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "stripe_public_key": {"type": "string"},
                        "coinbase_app_id": {"type": "string"},
                        "currency": {"type": "string", "example": "USD"},
                        "locale": {"type": "string", "example": "en-US"},
                        "checkout_api": {"type": "string", "example": "cart"}
                    }
                }
            }
        },
        "SystemInfoEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "name": {"type": "string"},
                        "version": {"type": "string"},
                        "go_version": {"type": "string"},
                        "uptime": {"type": "string"}
                    }
                }
            }
        },
        "PingEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "message": {"type": "string", "example": "pong"},
                        "timestamp": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront Backend API",
	Description:      "Cart, catalog and checkout API in front of a hosted commerce platform",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
