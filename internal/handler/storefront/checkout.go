package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/checkout"
	"github.com/dohyunlee/seoultee/internal/domain"
	"github.com/dohyunlee/seoultee/internal/handler"
	"github.com/dohyunlee/seoultee/internal/telemetry"
)

// CheckoutHandler drives the checkout page and the payment handoff. Each
// submission builds a fresh orchestrator, so a retried payment always
// starts from idle with a fresh order ID.
type CheckoutHandler struct {
	carts    *cart.Manager
	renderer *handler.Renderer
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger

	clientKey string
	baseURL   string
	secure    bool
}

func NewCheckoutHandler(carts *cart.Manager, renderer *handler.Renderer, metrics *telemetry.BusinessMetrics, logger *slog.Logger, clientKey, baseURL string, secure bool) *CheckoutHandler {
	return &CheckoutHandler{
		carts:     carts,
		renderer:  renderer,
		metrics:   metrics,
		logger:    logger,
		clientKey: clientKey,
		baseURL:   baseURL,
		secure:    secure,
	}
}

// Page handles GET /checkout
func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	sessionID := EnsureSession(w, r, h.secure)
	store, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	summary := store.Summarize()
	if len(summary.Items) == 0 {
		// Nothing selected; checkout has nothing to pay for.
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutStarted.Inc()
		h.metrics.CartValue.Observe(float64(summary.TotalAmount))
	}

	data := BaseTemplateData(r)
	data["Summary"] = summary
	data["ClientKey"] = h.clientKey
	data["MethodsMount"] = checkout.MethodsMount

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "checkout", data)
}

// Submit handles POST /api/checkout/submit. The page JS posts the shipping
// address and receives the provider redirect parameters as JSON.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var address domain.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	sessionID := EnsureSession(w, r, h.secure)
	store, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load cart"})
		return
	}

	orch := checkout.NewOrchestrator(store, checkout.NewTossWidget(h.clientKey), h.baseURL, h.logger)

	if err := orch.InitializeWidget(ctx); err != nil {
		h.respondError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.WidgetReady.Inc()
	}

	redirect, err := orch.Submit(ctx, address)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentAttempts.Inc()
	}

	if order, ok := orch.LastOrder(); ok {
		h.logger.InfoContext(ctx, "checkout submitted",
			slog.String("order_id", order.ID),
			slog.Int("items", len(order.Items)),
			slog.Int64("total_amount", order.TotalAmount))
	}

	respondJSON(w, http.StatusOK, redirect)
}

func (h *CheckoutHandler) respondError(w http.ResponseWriter, err error) {
	if domain.IsValidationError(err) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Missing required fields",
			"fields": domain.GetValidationFields(err),
		})
		return
	}

	switch domain.ErrorCode(err) {
	case domain.EINVALID:
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": domain.ErrorMessage(err)})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": domain.ErrorMessage(err)})
	}
}
