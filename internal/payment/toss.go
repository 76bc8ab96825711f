package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dohyunlee/seoultee/internal/domain"
)

const confirmPath = "/v1/payments/confirm"

// TossClient confirms payments against the Toss Payments API. The
// secret key never leaves the server; requests authenticate with Basic
// auth of "secretKey:".
type TossClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Compile-time check that TossClient implements Provider.
var _ Provider = (*TossClient)(nil)

func NewTossClient(secretKey, baseURL string, logger *slog.Logger) *TossClient {
	return &TossClient{
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Confirm calls the provider's confirmation endpoint. The provider
// treats repeated confirms of an approved payment as idempotent, but
// callers should still not retry automatically.
func (c *TossClient) Confirm(ctx context.Context, params ConfirmParams) (*Payment, error) {
	const op = "payment.TossClient.Confirm"

	body, err := json.Marshal(params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode confirmation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+confirmPath, bytes.NewReader(body))
	if err != nil {
		return nil, domain.Internal(err, op, "failed to build confirmation request")
	}
	req.Header.Set("Authorization", "Basic "+basicCredential(c.secretKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.Internal(err, op, "payment provider unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		provErr := &ProviderError{
			Status: resp.StatusCode,
			Raw:    json.RawMessage(data),
		}
		// Best effort; an unparseable body still travels in Raw.
		var parsed struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &parsed); err == nil {
			provErr.Code = parsed.Code
			provErr.Message = parsed.Message
		}

		c.logger.ErrorContext(ctx, "payment confirmation rejected",
			slog.String("order_id", params.OrderID),
			slog.Int("status", resp.StatusCode),
			slog.String("code", provErr.Code))
		return nil, provErr
	}

	var pay Payment
	if err := json.Unmarshal(data, &pay); err != nil {
		return nil, domain.Internal(err, op, "malformed provider response")
	}
	pay.Raw = json.RawMessage(data)

	c.logger.InfoContext(ctx, "payment confirmed",
		slog.String("order_id", pay.OrderID),
		slog.String("method", pay.Method),
		slog.Int64("total_amount", pay.TotalAmount))
	return &pay, nil
}

// basicCredential encodes the secret key for Basic auth; the password
// part is empty by the provider's convention.
func basicCredential(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}
