package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novashop/internal/cache"
	"novashop/internal/metrics"
	"novashop/internal/models"
	"novashop/internal/notify"
	"novashop/internal/orderid"
	"novashop/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderLedger is the transactional order storage contract. Complete and
// Reject carry the status guard: they succeed only from pending_proof, and
// Complete additionally decrements stock and appends the sales stat row
// atomically.
type OrderLedger interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	FindPendingByBuyer(ctx context.Context, buyerID string) (*models.Order, error)
	AttachProof(ctx context.Context, orderID, proofRef string) error
	Complete(ctx context.Context, orderID string, day time.Time) (*models.Order, error)
	Reject(ctx context.Context, orderID string) (*models.Order, error)
}

type ProductReader interface {
	GetByName(ctx context.Context, name string) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

type BlacklistChecker interface {
	Contains(ctx context.Context, userID string) (bool, error)
}

// OrderService is the order lifecycle controller. It is invoked concurrently
// by independent request handlers; all serialization lives in the ledger's
// guarded transitions.
type OrderService struct {
	Ledger      OrderLedger
	Products    ProductReader
	Blacklist   BlacklistChecker
	Notifier    notify.Sink
	Cache       *cache.ProductCache
	IDs         orderid.Generator
	MinQuantity int
	MaxQuantity int
	Logger      *zap.Logger
	Now         func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateOrder opens a pending_proof order against a catalog product. Unit
// price is frozen at creation; later product edits never alter the order.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID, productName string, quantity int, method string) (*models.Order, error) {
	if s.Blacklist != nil {
		blocked, err := s.Blacklist.Contains(ctx, buyerID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, fmt.Errorf("buyer %s: %w", buyerID, ErrBuyerBlacklisted)
		}
	}

	pm, ok := models.ParsePaymentMethod(method)
	if !ok {
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownPaymentMethod)
	}
	if quantity < s.MinQuantity || quantity > s.MaxQuantity {
		return nil, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidQuantity)
	}

	product, err := s.Products.GetByName(ctx, productName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("product %q: %w", productName, ErrProductNotFound)
		}
		return nil, err
	}
	// Best-effort stock check. The authoritative conditional decrement
	// happens at approval time.
	if quantity > product.Stock {
		return nil, fmt.Errorf("product %q: %w", productName, ErrOutOfStock)
	}

	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	var order *models.Order
	for attempt := 0; attempt < 3; attempt++ {
		candidate := &models.Order{
			OrderID:       s.IDs.NewID(),
			BuyerID:       buyerID,
			ProductID:     product.ID,
			Quantity:      quantity,
			TotalPrice:    total,
			PaymentMethod: pm,
			Status:        models.OrderPendingProof,
		}
		err = s.Ledger.Create(ctx, candidate)
		if err == nil {
			order = candidate
			break
		}
		if !errors.Is(err, store.ErrDuplicateOrderID) {
			return nil, err
		}
		s.Logger.Warn("order id collision, regenerating", zap.String("order_id", candidate.OrderID))
	}
	if order == nil {
		return nil, ErrOrderIDConflict
	}

	metrics.OrdersCreated.Inc()
	s.publish(ctx, notify.Event{
		Type:          notify.EventOrderCreated,
		OrderID:       order.OrderID,
		BuyerID:       buyerID,
		ProductName:   product.Name,
		Quantity:      quantity,
		TotalPrice:    total.StringFixed(2),
		PaymentMethod: string(pm),
		At:            s.now(),
	})
	return order, nil
}

// AttachProof stores a payment proof reference on the buyer's most recent
// pending order. Last-pending-wins: attachment never changes status.
func (s *OrderService) AttachProof(ctx context.Context, buyerID, proofRef string) (*models.Order, error) {
	order, err := s.Ledger.FindPendingByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("buyer %s: %w", buyerID, ErrNoPendingOrder)
		}
		return nil, err
	}

	if err := s.Ledger.AttachProof(ctx, order.OrderID, proofRef); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("order %s: %w", order.OrderID, ErrOrderNotFound)
		case errors.Is(err, store.ErrInvalidState):
			// The order was finalized between the lookup and the write.
			return nil, fmt.Errorf("buyer %s: %w", buyerID, ErrNoPendingOrder)
		}
		return nil, err
	}
	order.ProofRef = &proofRef

	ev := notify.Event{
		Type:          notify.EventProofReceived,
		OrderID:       order.OrderID,
		BuyerID:       buyerID,
		Quantity:      order.Quantity,
		TotalPrice:    order.TotalPrice.StringFixed(2),
		PaymentMethod: string(order.PaymentMethod),
		ProofRef:      proofRef,
		At:            s.now(),
	}
	if product, perr := s.Products.GetByID(ctx, order.ProductID); perr == nil {
		ev.ProductName = product.Name
	}
	s.publish(ctx, ev)
	return order, nil
}

// Approve transitions pending_proof -> completed. Exactly one of several
// concurrent approvals succeeds; the rest observe ErrInvalidOrderState. On
// ErrInsufficientStock the order stays pending_proof so staff can reject or
// wait for restock.
func (s *OrderService) Approve(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Ledger.Complete(ctx, orderID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			metrics.TransitionFailures.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		case errors.Is(err, store.ErrInvalidState):
			metrics.TransitionFailures.WithLabelValues("invalid_state").Inc()
			return nil, fmt.Errorf("order %s: %w", orderID, ErrInvalidOrderState)
		case errors.Is(err, store.ErrInsufficientStock):
			metrics.TransitionFailures.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("order %s: %w", orderID, ErrInsufficientStock)
		}
		return nil, err
	}

	metrics.OrdersCompleted.Inc()
	s.Cache.Invalidate(ctx)

	ev := notify.Event{
		Type:          notify.EventOrderCompleted,
		OrderID:       order.OrderID,
		BuyerID:       order.BuyerID,
		Quantity:      order.Quantity,
		TotalPrice:    order.TotalPrice.StringFixed(2),
		PaymentMethod: string(order.PaymentMethod),
		At:            s.now(),
	}
	if product, perr := s.Products.GetByID(ctx, order.ProductID); perr == nil {
		ev.ProductName = product.Name
		ev.Deliverables = product.Deliverables
	}
	s.publish(ctx, ev)
	return order, nil
}

// Reject transitions pending_proof -> rejected. The reason travels in the
// notification event only; it is not ledger state.
func (s *OrderService) Reject(ctx context.Context, orderID, reason string) (*models.Order, error) {
	order, err := s.Ledger.Reject(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			metrics.TransitionFailures.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		case errors.Is(err, store.ErrInvalidState):
			metrics.TransitionFailures.WithLabelValues("invalid_state").Inc()
			return nil, fmt.Errorf("order %s: %w", orderID, ErrInvalidOrderState)
		}
		return nil, err
	}

	metrics.OrdersRejected.Inc()

	ev := notify.Event{
		Type:          notify.EventOrderRejected,
		OrderID:       order.OrderID,
		BuyerID:       order.BuyerID,
		Quantity:      order.Quantity,
		TotalPrice:    order.TotalPrice.StringFixed(2),
		PaymentMethod: string(order.PaymentMethod),
		Reason:        reason,
		At:            s.now(),
	}
	if product, perr := s.Products.GetByID(ctx, order.ProductID); perr == nil {
		ev.ProductName = product.Name
	}
	s.publish(ctx, ev)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Ledger.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, ev notify.Event) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Publish(ctx, ev); err != nil {
		s.Logger.Warn("publish notification failed", zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}
