package storefront

import (
	"net/http"

	"github.com/dohyunlee/seoultee/internal/catalog"
	"github.com/dohyunlee/seoultee/internal/handler"
	"github.com/dohyunlee/seoultee/internal/telemetry"
)

// HomeHandler renders the product grid with optional category filtering.
type HomeHandler struct {
	catalog  catalog.Service
	renderer *handler.Renderer
	metrics  *telemetry.BusinessMetrics
}

func NewHomeHandler(catalogService catalog.Service, renderer *handler.Renderer, metrics *telemetry.BusinessMetrics) *HomeHandler {
	return &HomeHandler{
		catalog:  catalogService,
		renderer: renderer,
		metrics:  metrics,
	}
}

// ServeHTTP handles GET /
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")

	products, err := h.catalog.List(ctx)
	if err != nil {
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	if category != "" {
		products, err = h.catalog.ListByCategory(ctx, category)
		if err != nil {
			http.Error(w, "Failed to load products", http.StatusInternalServerError)
			return
		}
	}

	if h.metrics != nil {
		label := category
		if label == "" {
			label = "none"
		}
		h.metrics.ProductSearches.WithLabelValues(label).Inc()
	}

	data := BaseTemplateData(r)
	data["Products"] = products
	data["Category"] = category

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "home", data)
}
