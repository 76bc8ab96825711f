package storefront

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/domain"
	"github.com/dohyunlee/seoultee/internal/events"
	"github.com/dohyunlee/seoultee/internal/handler"
	"github.com/dohyunlee/seoultee/internal/payment"
	"github.com/dohyunlee/seoultee/internal/telemetry"
)

// PaymentHandler owns the confirmation handshake: the confirm API the
// success page calls, plus the success and fail pages themselves.
//
// Confirmations are idempotent per (orderId, paymentKey): a replayed
// confirm for an already-approved payment answers from the ledger
// without a second provider call.
type PaymentHandler struct {
	provider  payment.Provider
	carts     *cart.Manager
	publisher events.Publisher
	renderer  *handler.Renderer
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
	secure    bool

	mu        sync.Mutex
	confirmed map[string]*payment.Payment
}

// NewPaymentHandler creates a payment handler. A nil provider means no
// secret key was configured; confirms then answer 500 without calling out.
func NewPaymentHandler(provider payment.Provider, carts *cart.Manager, publisher events.Publisher, renderer *handler.Renderer, metrics *telemetry.BusinessMetrics, logger *slog.Logger, secure bool) *PaymentHandler {
	return &PaymentHandler{
		provider:  provider,
		carts:     carts,
		publisher: publisher,
		renderer:  renderer,
		metrics:   metrics,
		logger:    logger,
		secure:    secure,
		confirmed: make(map[string]*payment.Payment),
	}
}

func confirmKey(orderID, paymentKey string) string {
	return orderID + "\x00" + paymentKey
}

// confirm runs the provider handshake once per (orderId, paymentKey).
// A replay returns the recorded payment; replayed is true in that case.
func (h *PaymentHandler) confirm(r *http.Request, params payment.ConfirmParams) (pay *payment.Payment, replayed bool, err error) {
	key := confirmKey(params.OrderID, params.PaymentKey)

	h.mu.Lock()
	if recorded, ok := h.confirmed[key]; ok {
		h.mu.Unlock()
		return recorded, true, nil
	}
	h.mu.Unlock()

	pay, err = h.provider.Confirm(r.Context(), params)
	if err != nil {
		return nil, false, err
	}

	h.mu.Lock()
	h.confirmed[key] = pay
	h.mu.Unlock()

	h.onConfirmed(r, pay)
	return pay, false, nil
}

// onConfirmed clears the shopper's cart and announces the order. Both are
// best effort; the confirmation already succeeded.
func (h *PaymentHandler) onConfirmed(r *http.Request, pay *payment.Payment) {
	ctx := r.Context()

	if sessionID := GetSessionIDFromCookie(r); sessionID != "" {
		store, err := h.carts.Get(ctx, sessionID)
		if err == nil {
			err = store.ClearCart(ctx)
		}
		if err != nil {
			h.logger.WarnContext(ctx, "failed to clear cart after payment",
				slog.String("order_id", pay.OrderID),
				slog.String("error", err.Error()))
		} else if h.metrics != nil {
			h.metrics.CartCleared.WithLabelValues("purchase").Inc()
		}
	}

	if err := h.publisher.PublishOrderConfirmed(ctx, pay); err != nil {
		h.logger.WarnContext(ctx, "failed to publish order event",
			slog.String("order_id", pay.OrderID),
			slog.String("error", err.Error()))
	}

	if h.metrics != nil {
		h.metrics.PaymentSucceeded.Inc()
		h.metrics.OrdersConfirmed.Inc()
		h.metrics.OrderValue.Observe(float64(pay.TotalAmount))
	}
}

// Confirm handles POST /api/payments/confirm
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var params payment.ConfirmParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required parameters"})
		return
	}

	if params.PaymentKey == "" || params.OrderID == "" || params.Amount == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required parameters"})
		return
	}

	if h.provider == nil {
		h.logger.ErrorContext(r.Context(), "payment secret key is not configured")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server configuration error"})
		return
	}

	pay, _, err := h.confirm(r, params)
	if err != nil {
		var provErr *payment.ProviderError
		if errors.As(err, &provErr) {
			if h.metrics != nil {
				h.metrics.PaymentFailed.WithLabelValues(provErr.Code).Inc()
			}
			// Pass the provider's answer through: its status, its body.
			respondJSON(w, provErr.Status, map[string]interface{}{
				"error":   "Payment confirmation failed",
				"details": provErr.Raw,
			})
			return
		}

		h.logger.ErrorContext(r.Context(), "payment confirmation failed",
			slog.String("order_id", params.OrderID),
			slog.String("error", err.Error()))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	body := map[string]interface{}{"success": true}
	if len(pay.Raw) > 0 {
		body["payment"] = pay.Raw
	} else {
		body["payment"] = pay
	}
	respondJSON(w, http.StatusOK, body)
}

// Success handles GET /checkout/success. The provider redirects here with
// paymentKey, orderId, and amount in the query string; the handler
// confirms the payment in-process and renders the receipt.
func (h *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	paymentKey := query.Get("paymentKey")
	orderID := query.Get("orderId")
	amountStr := query.Get("amount")

	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if paymentKey == "" || orderID == "" || amountStr == "" || err != nil {
		http.Redirect(w, r, "/checkout/fail?code="+payment.CodeUnknownError+"&orderId="+orderID, http.StatusSeeOther)
		return
	}

	if h.provider == nil {
		h.logger.ErrorContext(r.Context(), "payment secret key is not configured")
		http.Redirect(w, r, "/checkout/fail?code="+payment.CodeUnknownError+"&orderId="+orderID, http.StatusSeeOther)
		return
	}

	pay, _, err := h.confirm(r, payment.ConfirmParams{
		PaymentKey: paymentKey,
		OrderID:    orderID,
		Amount:     amount,
	})
	if err != nil {
		var provErr *payment.ProviderError
		if errors.As(err, &provErr) {
			if h.metrics != nil {
				h.metrics.PaymentFailed.WithLabelValues(provErr.Code).Inc()
			}
			http.Redirect(w, r, "/checkout/fail?code="+provErr.Code+"&orderId="+orderID, http.StatusSeeOther)
			return
		}
		h.logger.ErrorContext(r.Context(), "payment confirmation failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()))
		http.Redirect(w, r, "/checkout/fail?code="+payment.CodeUnknownError+"&orderId="+orderID, http.StatusSeeOther)
		return
	}

	data := BaseTemplateData(r)
	data["OrderID"] = pay.OrderID
	data["OrderName"] = pay.OrderName
	data["Method"] = pay.Method
	data["TotalAmount"] = domain.FormatPrice(pay.TotalAmount)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "success", data)
}

// Fail handles GET /checkout/fail. The provider redirects here with an
// error code and message; unknown codes fall back to a generic notice.
func (h *PaymentHandler) Fail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		code = payment.CodeUnknownError
	}
	message := query.Get("message")
	if message == "" {
		message = payment.DefaultFailMessage
	}

	data := BaseTemplateData(r)
	data["Code"] = code
	data["Message"] = message
	data["Description"] = payment.DescribeFailCode(code)
	data["OrderID"] = query.Get("orderId")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "fail", data)
}
