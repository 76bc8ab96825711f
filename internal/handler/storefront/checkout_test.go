package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohyunlee/seoultee/internal/domain"
)

func seedCheckoutCart(t *testing.T) (*CheckoutHandler, *http.Cookie) {
	t.Helper()

	carts := testManager()
	store, err := carts.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(context.Background(), domain.CartItem{
		ProductSelection: domain.ProductSelection{
			Product: domain.Product{ID: "1", Name: "Classic White Tee", Price: 35000},
			Size:    "M",
			Color:   "white",
		},
		Quantity: 1,
	}))

	h := NewCheckoutHandler(carts, testRenderer(t), nil, testLogger(), "test_ck_key", "https://shop.example.com", false)
	return h, &http.Cookie{Name: SessionCookieName, Value: "sess-1"}
}

func submitRequest(body string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestCheckoutSubmit_ReturnsRedirectParams(t *testing.T) {
	h, session := seedCheckoutCart(t)

	w := httptest.NewRecorder()
	h.Submit(w, submitRequest(`{
		"fullName": "홍길동",
		"address": "서울특별시 강남구 테헤란로 123",
		"postalCode": "06194",
		"phone": "010-1234-5678"
	}`, session))

	require.Equal(t, http.StatusOK, w.Code)

	var redirect struct {
		ClientKey  string `json:"clientKey"`
		OrderID    string `json:"orderId"`
		OrderName  string `json:"orderName"`
		Amount     int64  `json:"amount"`
		SuccessURL string `json:"successUrl"`
		FailURL    string `json:"failUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &redirect))

	assert.Equal(t, "test_ck_key", redirect.ClientKey)
	assert.Len(t, redirect.OrderID, 16)
	assert.Equal(t, "Classic White Tee", redirect.OrderName)
	// 35000 is under the free-shipping threshold, so the flat fee applies.
	assert.Equal(t, int64(38000), redirect.Amount)
	assert.Equal(t, "https://shop.example.com/checkout/success", redirect.SuccessURL)
	assert.Equal(t, "https://shop.example.com/checkout/fail?orderId="+redirect.OrderID, redirect.FailURL)
}

func TestCheckoutSubmit_MissingAddressFields(t *testing.T) {
	h, session := seedCheckoutCart(t)

	w := httptest.NewRecorder()
	h.Submit(w, submitRequest(`{"fullName": "홍길동"}`, session))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required fields", resp.Error)
	assert.Contains(t, resp.Fields, "Address")
	assert.Contains(t, resp.Fields, "PostalCode")
	assert.Contains(t, resp.Fields, "Phone")
}

func TestCheckoutSubmit_EmptyCart(t *testing.T) {
	carts := testManager()
	h := NewCheckoutHandler(carts, testRenderer(t), nil, testLogger(), "test_ck_key", "https://shop.example.com", false)

	w := httptest.NewRecorder()
	h.Submit(w, submitRequest(`{
		"fullName": "홍길동",
		"address": "서울특별시 강남구 테헤란로 123",
		"postalCode": "06194",
		"phone": "010-1234-5678"
	}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No items selected for checkout")
}

func TestCheckoutPage_EmptySelectionRedirectsToCart(t *testing.T) {
	carts := testManager()
	h := NewCheckoutHandler(carts, testRenderer(t), nil, testLogger(), "test_ck_key", "https://shop.example.com", false)

	w := httptest.NewRecorder()
	h.Page(w, httptest.NewRequest(http.MethodGet, "/checkout", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))
}
