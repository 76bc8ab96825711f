package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohyunlee/seoultee/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTossClient_ConfirmSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"paymentKey": "pk_123",
			"orderId": "ORDER_ABC",
			"orderName": "Classic White Tee 외 1건",
			"method": "카드",
			"totalAmount": 77000,
			"status": "DONE",
			"approvedAt": "2026-08-28T10:00:00+09:00"
		}`))
	}))
	defer srv.Close()

	client := NewTossClient("test_sk_secret", srv.URL, discardLogger())

	pay, err := client.Confirm(context.Background(), ConfirmParams{
		PaymentKey: "pk_123",
		OrderID:    "ORDER_ABC",
		Amount:     77000,
	})
	require.NoError(t, err)

	expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_sk_secret:"))
	assert.Equal(t, expectedAuth, gotAuth)
	assert.Equal(t, "/v1/payments/confirm", gotPath)
	assert.Equal(t, map[string]any{
		"paymentKey": "pk_123",
		"orderId":    "ORDER_ABC",
		"amount":     float64(77000),
	}, gotBody)

	assert.Equal(t, "ORDER_ABC", pay.OrderID)
	assert.Equal(t, "카드", pay.Method)
	assert.Equal(t, int64(77000), pay.TotalAmount)
	assert.Equal(t, "Classic White Tee 외 1건", pay.OrderName)
	assert.NotEmpty(t, pay.Raw)
}

func TestTossClient_ConfirmProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"REJECT_CARD_COMPANY","message":"카드사에서 거절되었습니다."}`))
	}))
	defer srv.Close()

	client := NewTossClient("test_sk_secret", srv.URL, discardLogger())

	_, err := client.Confirm(context.Background(), ConfirmParams{
		PaymentKey: "pk_123",
		OrderID:    "ORDER_ABC",
		Amount:     77000,
	})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusForbidden, provErr.Status)
	assert.Equal(t, "REJECT_CARD_COMPANY", provErr.Code)
	assert.JSONEq(t, `{"code":"REJECT_CARD_COMPANY","message":"카드사에서 거절되었습니다."}`, string(provErr.Raw))
}

func TestTossClient_ConfirmNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewTossClient("test_sk_secret", srv.URL, discardLogger())

	_, err := client.Confirm(context.Background(), ConfirmParams{
		PaymentKey: "pk_123",
		OrderID:    "ORDER_ABC",
		Amount:     77000,
	})
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))

	var provErr *ProviderError
	assert.False(t, errors.As(err, &provErr), "network failure is not a provider rejection")
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider()

	pay, err := mock.Confirm(context.Background(), ConfirmParams{
		PaymentKey: "pk_1", OrderID: "ORDER_1", Amount: 35000,
	})
	require.NoError(t, err)
	assert.Equal(t, "DONE", pay.Status)
	assert.Equal(t, int64(35000), pay.TotalAmount)
	assert.Equal(t, []string{"Confirm(pk_1, ORDER_1, 35000)"}, mock.CallLog)

	mock.SimulateRejection(http.StatusBadRequest, "ALREADY_PROCESSED_PAYMENT", "이미 처리된 결제입니다.")
	_, err = mock.Confirm(context.Background(), ConfirmParams{
		PaymentKey: "pk_1", OrderID: "ORDER_1", Amount: 35000,
	})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.Status)
}

func TestDescribeFailCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"PAY_PROCESS_CANCELED", "사용자가 결제를 취소하였습니다."},
		{"PAY_PROCESS_ABORTED", "결제 진행 중 오류가 발생하여 결제가 중단되었습니다."},
		{"CARD_COMPANY_ERROR", "카드사에서 승인을 거절하였습니다. 다른 카드를 사용해 보세요."},
		{"INVALID_CARD_COMPANY", "유효하지 않은 카드 정보입니다."},
		{"NOT_SUPPORTED_INSTALLMENT", "지원하지 않는 할부 개월 수입니다."},
		{"EXCEED_MAX_DAILY_PAYMENT_COUNT", "일일 결제 한도를 초과하였습니다."},
		{"NOT_AVAILABLE_BANK", "해당 은행은 현재 서비스를 이용할 수 없습니다."},
		{"SOMETHING_ELSE", "결제 처리 중 문제가 발생했습니다. 다시 시도해 주세요."},
		{CodeUnknownError, "결제 처리 중 문제가 발생했습니다. 다시 시도해 주세요."},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeFailCode(tt.code))
		})
	}
}
