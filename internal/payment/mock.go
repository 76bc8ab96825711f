package payment

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockProvider is a mock payment provider for testing.
// Simulates successful confirmations without calling the Toss API.
type MockProvider struct {
	// ConfirmFunc allows customizing confirmation behavior
	ConfirmFunc func(ctx context.Context, params ConfirmParams) (*Payment, error)

	// Payments stores confirmed payments keyed by order id
	Payments map[string]*Payment

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Payments: make(map[string]*Payment),
		CallLog:  []string{},
	}
}

// Confirm records the call and returns a confirmed payment.
func (m *MockProvider) Confirm(ctx context.Context, params ConfirmParams) (*Payment, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Confirm(%s, %s, %d)", params.PaymentKey, params.OrderID, params.Amount))

	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, params)
	}

	// Default mock behavior: confirm as a card payment
	pay := &Payment{
		PaymentKey:  params.PaymentKey,
		OrderID:     params.OrderID,
		OrderName:   "Mock Order",
		Method:      "카드",
		TotalAmount: params.Amount,
		Status:      "DONE",
	}
	raw, _ := json.Marshal(pay)
	pay.Raw = raw

	m.Payments[params.OrderID] = pay
	return pay, nil
}

// SimulateRejection makes every confirmation fail with the given
// provider status and code. Used in tests to exercise passthrough.
func (m *MockProvider) SimulateRejection(status int, code, message string) {
	m.ConfirmFunc = func(ctx context.Context, params ConfirmParams) (*Payment, error) {
		raw, _ := json.Marshal(map[string]string{"code": code, "message": message})
		return nil, &ProviderError{
			Status:  status,
			Code:    code,
			Message: message,
			Raw:     raw,
		}
	}
}
