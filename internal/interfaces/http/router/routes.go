package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers groups the storefront API handlers
type Handlers struct {
	Catalog    *handler.CatalogHandler
	Cart       *handler.CartHandler
	Checkout   *handler.CheckoutHandler
	Storefront *handler.StorefrontHandler
	System     *handler.SystemHandler

	// CheckoutLimit throttles checkout submissions; nil disables it
	CheckoutLimit gin.HandlerFunc
}

// StorefrontGroups builds the route groups served under the versioned API prefix.
// Cart and checkout routes expect the session middleware on the router.
func StorefrontGroups(h Handlers) []RouteRegistrar {
	catalog := NewDomainGroup("/catalog")
	catalog.GET("/products", h.Catalog.ListProducts)
	catalog.GET("/products/:handle", h.Catalog.GetProduct)

	cart := NewDomainGroup("/cart")
	cart.GET("", h.Cart.GetCart)
	cart.DELETE("", h.Cart.ClearCart)
	cart.GET("/stream", h.Cart.Stream)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:id", h.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)

	checkout := NewDomainGroup("/checkout")
	if h.CheckoutLimit != nil {
		checkout.Use(h.CheckoutLimit)
	}
	checkout.POST("", h.Checkout.Checkout)

	storefront := NewDomainGroup("/storefront")
	storefront.GET("/config", h.Storefront.GetConfig)

	system := NewDomainGroup("/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	return []RouteRegistrar{catalog, cart, checkout, storefront, system}
}
