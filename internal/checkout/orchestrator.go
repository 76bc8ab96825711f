package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/domain"
)

// Orchestrator states. The error state is reachable from
// widgetInitializing and submitting; every error is retryable.
type State string

const (
	StateIdle               State = "idle"
	StateWidgetInitializing State = "widgetInitializing"
	StateWidgetReady        State = "widgetReady"
	StateSubmitting         State = "submitting"
	StateRedirected         State = "redirected"
	StateError              State = "error"
)

// MethodsMount is the page element the payment-method picker renders
// into.
const MethodsMount = "payment-methods"

// Orchestrator drives one checkout attempt: widget setup against the
// selected total, shipping-address validation, and payment submission.
// It never panics on widget failure; errors park it in StateError and
// the shopper may retry.
type Orchestrator struct {
	store    *cart.Store
	widget   PaymentWidget
	validate *validator.Validate
	baseURL  string
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	lastErr   error
	lastOrder *domain.Order
}

func NewOrchestrator(store *cart.Store, widget PaymentWidget, baseURL string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		widget:   widget,
		validate: validator.New(),
		baseURL:  baseURL,
		logger:   logger,
		state:    StateIdle,
	}
}

// State reports the current checkout state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError returns the error that parked the orchestrator in
// StateError, or nil.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// LastOrder returns the order snapshot taken at the most recent
// successful submission.
func (o *Orchestrator) LastOrder() (domain.Order, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastOrder == nil {
		return domain.Order{}, false
	}
	return *o.lastOrder, true
}

// InitializeWidget sets the widget up against the selected total and
// renders the payment-method picker. With nothing selected, or on any
// widget failure, the page stays in a payment-not-ready state.
func (o *Orchestrator) InitializeWidget(ctx context.Context) error {
	const op = "checkout.Orchestrator.InitializeWidget"

	summary := o.store.Summarize()
	if len(summary.Items) == 0 {
		return o.fail(ctx, op, domain.Invalid(op, "No items selected for checkout"))
	}

	o.setState(StateWidgetInitializing)

	if err := o.widget.Initialize(ctx, summary.TotalAmount); err != nil {
		return o.fail(ctx, op, err)
	}
	if err := o.widget.RenderMethods(MethodsMount); err != nil {
		return o.fail(ctx, op, err)
	}

	o.setState(StateWidgetReady)
	o.logger.DebugContext(ctx, "payment widget ready",
		slog.Int64("total_amount", summary.TotalAmount))
	return nil
}

// Submit validates the shipping address and requests payment for the
// selected subset. On success the orchestrator is redirected: the
// returned Redirect carries the provider handoff parameters.
func (o *Orchestrator) Submit(ctx context.Context, address domain.ShippingAddress) (*Redirect, error) {
	const op = "checkout.Orchestrator.Submit"

	if err := o.validate.Struct(address); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				fields[ve.Field()] = "required"
			}
		}
		// Form errors are a blocking user-facing message, not an error
		// state; the widget stays ready for the next attempt.
		return nil, &domain.ValidationError{Fields: fields, Op: op}
	}

	if o.State() != StateWidgetReady {
		return nil, domain.Invalid(op, "Payment widget is not ready")
	}

	summary := o.store.Summarize()
	if len(summary.Items) == 0 {
		return nil, domain.Invalid(op, "No items selected for checkout")
	}

	o.setState(StateSubmitting)

	orderID := NewOrderToken()
	req := PaymentRequest{
		OrderID:       orderID,
		OrderName:     domain.OrderName(summary.Items),
		SuccessURL:    o.baseURL + "/checkout/success",
		FailURL:       o.baseURL + "/checkout/fail?orderId=" + orderID,
		CustomerName:  address.FullName,
		CustomerPhone: address.Phone,
	}

	redirect, err := o.widget.RequestPayment(ctx, req)
	if err != nil {
		return nil, o.fail(ctx, op, err)
	}

	order := domain.NewOrder(orderID, summary.Items, summary)
	o.mu.Lock()
	o.lastOrder = &order
	o.mu.Unlock()

	o.setState(StateRedirected)
	o.logger.InfoContext(ctx, "payment requested",
		slog.String("order_id", orderID),
		slog.String("order_name", req.OrderName),
		slog.Int64("amount", summary.TotalAmount))
	return redirect, nil
}

// Retry returns an errored orchestrator to idle so the widget can be
// initialized again.
func (o *Orchestrator) Retry() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateError {
		o.state = StateIdle
		o.lastErr = nil
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	if s != StateError {
		o.lastErr = nil
	}
	o.mu.Unlock()
}

func (o *Orchestrator) fail(ctx context.Context, op string, err error) error {
	o.mu.Lock()
	o.state = StateError
	o.lastErr = err
	o.mu.Unlock()

	o.logger.ErrorContext(ctx, "checkout failed",
		slog.String("op", op),
		slog.String("error", err.Error()))
	return err
}
