package storefront

import (
	"net/http"

	"github.com/dohyunlee/seoultee/internal/catalog"
	"github.com/dohyunlee/seoultee/internal/domain"
	"github.com/dohyunlee/seoultee/internal/handler"
	"github.com/dohyunlee/seoultee/internal/telemetry"
)

// ProductHandler renders product detail pages.
type ProductHandler struct {
	catalog  catalog.Service
	renderer *handler.Renderer
	metrics  *telemetry.BusinessMetrics
}

func NewProductHandler(catalogService catalog.Service, renderer *handler.Renderer, metrics *telemetry.BusinessMetrics) *ProductHandler {
	return &ProductHandler{
		catalog:  catalogService,
		renderer: renderer,
		metrics:  metrics,
	}
}

// Detail handles GET /products/{id}
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID := r.PathValue("id")
	product, err := h.catalog.Get(ctx, productID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.ProductViews.WithLabelValues(product.ID).Inc()
	}

	data := BaseTemplateData(r)
	data["Product"] = product

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "product", data)
}
