// Package payment defines the payment provider boundary and the Toss
// Payments implementation behind it.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider defines the interface for payment confirmation.
// Implementations can use Toss Payments or another gateway; only the
// operations the checkout flow consumes are included.
type Provider interface {
	// Confirm approves a payment the shopper already authorized through
	// the provider's widget. A non-approval answer from the provider is
	// returned as *ProviderError.
	Confirm(ctx context.Context, params ConfirmParams) (*Payment, error)
}

// ConfirmParams identifies the payment to approve. All three fields are
// required and must match what the widget reported to the provider.
type ConfirmParams struct {
	PaymentKey string `json:"paymentKey" validate:"required"`
	OrderID    string `json:"orderId" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

// Payment is the provider's record of an approved payment. Raw carries
// the provider's full response body so callers can pass it through
// without re-marshaling losses.
type Payment struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	OrderName   string `json:"orderName"`
	Method      string `json:"method"`
	TotalAmount int64  `json:"totalAmount"`
	Status      string `json:"status"`
	ApprovedAt  string `json:"approvedAt"`

	Raw json.RawMessage `json:"-"`
}

// ProviderError is a non-approval answer from the provider. Status is
// the HTTP status the provider responded with; Raw is its error body
// verbatim, for passthrough to the client.
type ProviderError struct {
	Status  int
	Code    string
	Message string
	Raw     json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider error (status %d): %s: %s", e.Status, e.Code, e.Message)
}
