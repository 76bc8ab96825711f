// Package checkout coordinates shipping capture, payment-widget setup,
// and payment submission for the selected cart subset.
package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// PaymentWidget is the narrow surface of the provider's payment widget
// consumed by the orchestrator. Implementations adapt the real SDK.
type PaymentWidget interface {
	// Initialize binds the widget to the amount to charge. Must be
	// called before rendering or payment.
	Initialize(ctx context.Context, amount int64) error

	// RenderMethods renders the provider's payment-method picker into
	// the named mount point. Rendering twice into the same mount fails.
	RenderMethods(mount string) error

	// RequestPayment hands the order to the provider and returns the
	// parameters the browser needs to complete the hosted flow.
	RequestPayment(ctx context.Context, req PaymentRequest) (*Redirect, error)
}

// PaymentRequest carries the order details submitted to the widget.
type PaymentRequest struct {
	OrderID       string
	OrderName     string
	SuccessURL    string
	FailURL       string
	CustomerName  string
	CustomerPhone string
}

// Redirect is the provider handoff: everything the hosted payment flow
// needs. The provider redirects the browser to the success or fail URL
// once the shopper finishes.
type Redirect struct {
	ClientKey     string `json:"clientKey"`
	CustomerKey   string `json:"customerKey"`
	Amount        int64  `json:"amount"`
	OrderID       string `json:"orderId"`
	OrderName     string `json:"orderName"`
	SuccessURL    string `json:"successUrl"`
	FailURL       string `json:"failUrl"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerMobilePhone"`
}

// TossWidget adapts the Toss Payments widget. The customer key is an
// anonymous per-widget identity; shoppers are not logged in.
type TossWidget struct {
	clientKey   string
	customerKey string

	mu       sync.Mutex
	amount   int64
	ready    bool
	rendered map[string]bool
}

// Compile-time check that TossWidget implements PaymentWidget.
var _ PaymentWidget = (*TossWidget)(nil)

func NewTossWidget(clientKey string) *TossWidget {
	return &TossWidget{
		clientKey:   clientKey,
		customerKey: "anon-" + uuid.New().String(),
		rendered:    make(map[string]bool),
	}
}

func (w *TossWidget) Initialize(ctx context.Context, amount int64) error {
	const op = "checkout.TossWidget.Initialize"

	if amount <= 0 {
		return domain.Invalid(op, "Payment amount must be positive")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.amount = amount
	return nil
}

func (w *TossWidget) RenderMethods(mount string) error {
	const op = "checkout.TossWidget.RenderMethods"

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.amount <= 0 {
		return domain.Invalid(op, "Widget is not initialized")
	}
	if w.rendered[mount] {
		return domain.Invalid(op, "Payment methods already rendered into this mount")
	}
	w.rendered[mount] = true
	w.ready = true
	return nil
}

func (w *TossWidget) RequestPayment(ctx context.Context, req PaymentRequest) (*Redirect, error) {
	const op = "checkout.TossWidget.RequestPayment"

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ready {
		return nil, domain.Invalid(op, "Payment widget is not ready")
	}

	return &Redirect{
		ClientKey:     w.clientKey,
		CustomerKey:   w.customerKey,
		Amount:        w.amount,
		OrderID:       req.OrderID,
		OrderName:     req.OrderName,
		SuccessURL:    req.SuccessURL,
		FailURL:       req.FailURL,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}, nil
}
