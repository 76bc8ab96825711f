package routes

import (
	"github.com/dohyunlee/seoultee/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Home page with category filtering
	r.Get("/", deps.HomeHandler.ServeHTTP)

	// Product browsing
	r.Get("/products/{id}", deps.ProductHandler.Detail)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/add", deps.CartHandler.Add)
	r.Post("/cart/update", deps.CartHandler.Update)
	r.Post("/cart/remove", deps.CartHandler.Remove)
	r.Post("/cart/select", deps.CartHandler.Toggle)
	r.Post("/cart/select-all", deps.CartHandler.SelectAll)
	r.Post("/cart/deselect-all", deps.CartHandler.DeselectAll)
	r.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout flow
	r.Get("/checkout", deps.CheckoutHandler.Page)
	r.Get("/checkout/success", deps.PaymentHandler.Success)
	r.Get("/checkout/fail", deps.PaymentHandler.Fail)
}
