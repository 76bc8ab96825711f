package routes

import (
	"github.com/dohyunlee/seoultee/internal/router"
)

// RegisterAPIRoutes registers the JSON endpoints the storefront pages call.
func RegisterAPIRoutes(r *router.Router, deps StorefrontDeps) {
	r.Get("/api/cart/count", deps.CartHandler.Count)
	r.Post("/api/checkout/submit", deps.CheckoutHandler.Submit)
	r.Post("/api/payments/confirm", deps.PaymentHandler.Confirm)
}
