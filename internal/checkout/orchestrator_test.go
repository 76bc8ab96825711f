package checkout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/domain"
)

// mockWidget is a scriptable PaymentWidget for orchestrator tests.
type mockWidget struct {
	InitializeFunc     func(ctx context.Context, amount int64) error
	RenderMethodsFunc  func(mount string) error
	RequestPaymentFunc func(ctx context.Context, req PaymentRequest) (*Redirect, error)

	CallLog []string
}

func (m *mockWidget) Initialize(ctx context.Context, amount int64) error {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Initialize(%d)", amount))
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, amount)
	}
	return nil
}

func (m *mockWidget) RenderMethods(mount string) error {
	m.CallLog = append(m.CallLog, fmt.Sprintf("RenderMethods(%s)", mount))
	if m.RenderMethodsFunc != nil {
		return m.RenderMethodsFunc(mount)
	}
	return nil
}

func (m *mockWidget) RequestPayment(ctx context.Context, req PaymentRequest) (*Redirect, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("RequestPayment(%s)", req.OrderID))
	if m.RequestPaymentFunc != nil {
		return m.RequestPaymentFunc(ctx, req)
	}
	return &Redirect{
		Amount:        0,
		OrderID:       req.OrderID,
		OrderName:     req.OrderName,
		SuccessURL:    req.SuccessURL,
		FailURL:       req.FailURL,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}, nil
}

type memoryRepo struct{ saved map[string][]byte }

func (r *memoryRepo) Load(ctx context.Context, namespace string) (*domain.CartState, error) {
	data, ok := r.saved[namespace]
	if !ok {
		return nil, &domain.Error{Code: domain.ENOTFOUND, Message: "No saved cart state"}
	}
	return cart.DecodeState(data)
}

func (r *memoryRepo) Save(ctx context.Context, namespace string, state *domain.CartState) error {
	data, err := cart.EncodeState(state)
	if err != nil {
		return err
	}
	r.saved[namespace] = data
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storeWithItems(t *testing.T, items ...domain.CartItem) *cart.Store {
	t.Helper()
	store := cart.NewStore("cart-storage:test", &memoryRepo{saved: map[string][]byte{}},
		cart.Pricing{FreeShippingThreshold: 50000, FlatShippingFee: 3000}, testLogger())
	require.NoError(t, store.Hydrate(context.Background()))
	for _, item := range items {
		require.NoError(t, store.AddItem(context.Background(), item))
	}
	return store
}

func tee(productID, name string, price int64, quantity int) domain.CartItem {
	return domain.CartItem{
		ProductSelection: domain.ProductSelection{
			Product: domain.Product{ID: productID, Name: name, Price: price},
			Size:    "M",
			Color:   "white",
		},
		Quantity: quantity,
	}
}

var validAddress = domain.ShippingAddress{
	FullName:   "홍길동",
	Address:    "서울특별시 강남구 테헤란로 123",
	PostalCode: "06194",
	Phone:      "010-1234-5678",
}

func TestOrchestrator_HappyPath(t *testing.T) {
	store := storeWithItems(t,
		tee("1", "Classic White Tee", 35000, 1),
		tee("2", "Minimalist Logo Tee", 42000, 1),
	)
	widget := &mockWidget{}
	orch := NewOrchestrator(store, widget, "https://shop.example.com", testLogger())
	ctx := context.Background()

	assert.Equal(t, StateIdle, orch.State())

	require.NoError(t, orch.InitializeWidget(ctx))
	assert.Equal(t, StateWidgetReady, orch.State())
	// 77000 >= free shipping threshold, so the widget sees the subtotal.
	assert.Equal(t, []string{"Initialize(77000)", "RenderMethods(payment-methods)"}, widget.CallLog)

	redirect, err := orch.Submit(ctx, validAddress)
	require.NoError(t, err)
	assert.Equal(t, StateRedirected, orch.State())

	assert.Len(t, redirect.OrderID, 16)
	assert.Equal(t, "https://shop.example.com/checkout/success", redirect.SuccessURL)
	assert.Equal(t, "https://shop.example.com/checkout/fail?orderId="+redirect.OrderID, redirect.FailURL)
	assert.Equal(t, "홍길동", redirect.CustomerName)
	assert.Equal(t, "010-1234-5678", redirect.CustomerPhone)

	order, ok := orch.LastOrder()
	require.True(t, ok)
	assert.Equal(t, redirect.OrderID, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, int64(77000), order.TotalAmount)
}

func TestOrchestrator_OrderName(t *testing.T) {
	t.Run("single product", func(t *testing.T) {
		store := storeWithItems(t, tee("1", "Classic White Tee", 35000, 2))
		widget := &mockWidget{}
		orch := NewOrchestrator(store, widget, "http://localhost:3000", testLogger())

		require.NoError(t, orch.InitializeWidget(context.Background()))
		redirect, err := orch.Submit(context.Background(), validAddress)
		require.NoError(t, err)
		assert.Equal(t, "Classic White Tee", redirect.OrderName)
	})

	t.Run("multiple distinct products", func(t *testing.T) {
		store := storeWithItems(t,
			tee("1", "Classic White Tee", 35000, 1),
			tee("2", "Minimalist Logo Tee", 42000, 1),
			tee("3", "Vintage Seoul Tee", 48000, 1),
		)
		widget := &mockWidget{}
		orch := NewOrchestrator(store, widget, "http://localhost:3000", testLogger())

		require.NoError(t, orch.InitializeWidget(context.Background()))
		redirect, err := orch.Submit(context.Background(), validAddress)
		require.NoError(t, err)
		// Items sort newest-first, so the last added product leads.
		assert.True(t, strings.HasSuffix(redirect.OrderName, " 외 2건"), redirect.OrderName)
	})
}

func TestOrchestrator_InitializeWithNothingSelected(t *testing.T) {
	store := storeWithItems(t, tee("1", "Classic White Tee", 35000, 1))
	require.NoError(t, store.DeselectAllItems(context.Background()))

	widget := &mockWidget{}
	orch := NewOrchestrator(store, widget, "http://localhost:3000", testLogger())

	err := orch.InitializeWidget(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, orch.State())
	assert.Empty(t, widget.CallLog, "widget must not be touched with nothing selected")
}

func TestOrchestrator_WidgetInitFailureIsRetryable(t *testing.T) {
	store := storeWithItems(t, tee("1", "Classic White Tee", 35000, 1))
	widget := &mockWidget{
		InitializeFunc: func(ctx context.Context, amount int64) error {
			return domain.Invalid("widget", "SDK load failed")
		},
	}
	orch := NewOrchestrator(store, widget, "http://localhost:3000", testLogger())
	ctx := context.Background()

	require.Error(t, orch.InitializeWidget(ctx))
	assert.Equal(t, StateError, orch.State())
	assert.Error(t, orch.LastError())

	// Shopper retries; a working widget recovers the page.
	widget.InitializeFunc = nil
	orch.Retry()
	assert.Equal(t, StateIdle, orch.State())
	require.NoError(t, orch.InitializeWidget(ctx))
	assert.Equal(t, StateWidgetReady, orch.State())
	assert.NoError(t, orch.LastError())
}

func TestOrchestrator_SubmitValidatesAddress(t *testing.T) {
	tests := []struct {
		name    string
		address domain.ShippingAddress
		missing string
	}{
		{"missing name", domain.ShippingAddress{Address: "a", PostalCode: "b", Phone: "c"}, "FullName"},
		{"missing address", domain.ShippingAddress{FullName: "a", PostalCode: "b", Phone: "c"}, "Address"},
		{"missing postal code", domain.ShippingAddress{FullName: "a", Address: "b", Phone: "c"}, "PostalCode"},
		{"missing phone", domain.ShippingAddress{FullName: "a", Address: "b", PostalCode: "c"}, "Phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithItems(t, tee("1", "Classic White Tee", 35000, 1))
			widget := &mockWidget{}
			orch := NewOrchestrator(store, widget, "http://localhost:3000", testLogger())
			require.NoError(t, orch.InitializeWidget(context.Background()))

			_, err := orch.Submit(context.Background(), tt.address)
			require.Error(t, err)
			require.True(t, domain.IsValidationError(err))
			assert.Contains(t, domain.GetValidationFields(err), tt.missing)

			// Blocking form message, not an error state; still ready.
			assert.Equal(t, StateWidgetReady, orch.State())
		})
	}
}

func TestOrchestrator_SubmitBeforeWidgetReady(t *testing.T) {
	store := storeWithItems(t, tee("1", "Classic White Tee", 35000, 1))
	orch := NewOrchestrator(store, &mockWidget{}, "http://localhost:3000", testLogger())

	_, err := orch.Submit(context.Background(), validAddress)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestOrchestrator_FreshOrderTokenPerAttempt(t *testing.T) {
	store := storeWithItems(t, tee("1", "Classic White Tee", 35000, 1))
	widget := &mockWidget{}
	orch := NewOrchestrator(store, widget, "http://localhost:3000", testLogger())
	ctx := context.Background()

	require.NoError(t, orch.InitializeWidget(ctx))
	first, err := orch.Submit(ctx, validAddress)
	require.NoError(t, err)

	require.NoError(t, orch.InitializeWidget(ctx))
	second, err := orch.Submit(ctx, validAddress)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
}

func TestTossWidget(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amount", func(t *testing.T) {
		w := NewTossWidget("test_ck_key")
		require.Error(t, w.Initialize(ctx, 0))
	})

	t.Run("render requires initialization", func(t *testing.T) {
		w := NewTossWidget("test_ck_key")
		require.Error(t, w.RenderMethods(MethodsMount))
	})

	t.Run("double render into same mount fails", func(t *testing.T) {
		w := NewTossWidget("test_ck_key")
		require.NoError(t, w.Initialize(ctx, 35000))
		require.NoError(t, w.RenderMethods(MethodsMount))
		require.Error(t, w.RenderMethods(MethodsMount))
	})

	t.Run("request payment carries widget identity", func(t *testing.T) {
		w := NewTossWidget("test_ck_key")
		require.NoError(t, w.Initialize(ctx, 35000))
		require.NoError(t, w.RenderMethods(MethodsMount))

		redirect, err := w.RequestPayment(ctx, PaymentRequest{OrderID: "ORDER1234567890A"})
		require.NoError(t, err)
		assert.Equal(t, "test_ck_key", redirect.ClientKey)
		assert.True(t, strings.HasPrefix(redirect.CustomerKey, "anon-"))
		assert.Equal(t, int64(35000), redirect.Amount)
	})
}

func TestNewOrderToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token := NewOrderToken()
		require.Len(t, token, 16)
		for _, r := range token {
			assert.Contains(t, tokenAlphabet, string(r))
		}
		seen[token] = struct{}{}
	}
	assert.Len(t, seen, 100, "tokens must be unique per attempt")
}
