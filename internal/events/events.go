// Package events publishes order lifecycle events for the external
// order-management system. Order persistence is deliberately not done
// here; downstream consumers own it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/dohyunlee/seoultee/internal/domain"
	"github.com/dohyunlee/seoultee/internal/payment"
)

// SubjectOrderConfirmed carries payments the provider has approved.
const SubjectOrderConfirmed = "orders.confirmed"

// OrderConfirmed is the published event payload.
type OrderConfirmed struct {
	OrderID     string `json:"order_id"`
	OrderName   string `json:"order_name"`
	PaymentKey  string `json:"payment_key"`
	Method      string `json:"method"`
	TotalAmount int64  `json:"total_amount"`
	ApprovedAt  string `json:"approved_at"`
}

// Publisher announces confirmed orders. Publishing is best effort at
// the call site; callers log failures and move on rather than failing
// the shopper's confirmation.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, pay *payment.Payment) error
}

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Compile-time check that NATSPublisher implements Publisher.
var _ Publisher = (*NATSPublisher)(nil)

func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	const op = "events.NewNATSPublisher"

	conn, err := nats.Connect(url,
		nats.Name("seoultee-server"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to connect to NATS")
	}
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) PublishOrderConfirmed(ctx context.Context, pay *payment.Payment) error {
	const op = "events.NATSPublisher.PublishOrderConfirmed"

	data, err := json.Marshal(OrderConfirmed{
		OrderID:     pay.OrderID,
		OrderName:   pay.OrderName,
		PaymentKey:  pay.PaymentKey,
		Method:      pay.Method,
		TotalAmount: pay.TotalAmount,
		ApprovedAt:  pay.ApprovedAt,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to encode order event")
	}

	if err := p.conn.Publish(SubjectOrderConfirmed, data); err != nil {
		return domain.Internal(err, op, "failed to publish order event")
	}

	p.logger.DebugContext(ctx, "order event published",
		slog.String("subject", SubjectOrderConfirmed),
		slog.String("order_id", pay.OrderID))
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishOrderConfirmed(ctx context.Context, pay *payment.Payment) error {
	return nil
}
