// Package notify carries structured order-lifecycle events out of the core.
// Sinks receive plain events and own all presentation; the core never writes
// user-facing text.
package notify

import (
	"context"
	"time"

	"novashop/internal/models"

	"go.uber.org/zap"
)

type EventType string

const (
	EventOrderCreated   EventType = "order_created"
	EventProofReceived  EventType = "proof_received"
	EventOrderCompleted EventType = "order_completed"
	EventOrderRejected  EventType = "order_rejected"
)

type Event struct {
	Type          EventType            `json:"type"`
	OrderID       string               `json:"order_id"`
	BuyerID       string               `json:"buyer_id"`
	ProductName   string               `json:"product_name,omitempty"`
	Quantity      int                  `json:"quantity,omitempty"`
	TotalPrice    string               `json:"total_price,omitempty"`
	PaymentMethod string               `json:"payment_method,omitempty"`
	ProofRef      string               `json:"proof_ref,omitempty"`
	Reason        string               `json:"reason,omitempty"`
	Deliverables  []models.Deliverable `json:"deliverables,omitempty"`
	At            time.Time            `json:"at"`
}

type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Fanout delivers each event to every sink. A failing sink is logged and
// skipped; notification delivery never blocks or fails an order transition.
type Fanout struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewFanout(logger *zap.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

func (f *Fanout) Publish(ctx context.Context, ev Event) error {
	for _, s := range f.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			f.logger.Warn("notification sink failed",
				zap.String("event", string(ev.Type)),
				zap.String("order_id", ev.OrderID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// LogSink writes every event to the structured log.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Publish(_ context.Context, ev Event) error {
	s.Logger.Info("order event",
		zap.String("event", string(ev.Type)),
		zap.String("order_id", ev.OrderID),
		zap.String("buyer_id", ev.BuyerID),
		zap.String("product", ev.ProductName),
		zap.Int("quantity", ev.Quantity),
		zap.String("total", ev.TotalPrice),
	)
	return nil
}
