package routes

import (
	"github.com/dohyunlee/seoultee/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Home / catalog
	HomeHandler    *storefront.HomeHandler
	ProductHandler *storefront.ProductHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Payments (confirm API + success/fail pages)
	PaymentHandler *storefront.PaymentHandler
}
