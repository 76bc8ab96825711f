// Package catalog provides read access to the product catalog.
package catalog

import (
	"context"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// Service is the read-only product catalog.
type Service interface {
	// List returns every product in display order.
	List(ctx context.Context) ([]domain.Product, error)

	// Get returns a single product by ID. Returns a domain error with
	// code ENOTFOUND when no product has that ID.
	Get(ctx context.Context, id string) (domain.Product, error)

	// ListByCategory returns the products in the given category,
	// preserving display order. An unknown category yields an empty slice.
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
}
