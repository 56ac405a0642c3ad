package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"novashop/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderStore struct {
	Pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{Pool: pool}
}

const orderColumns = `id, order_id, buyer_id, product_id, quantity, total_price, payment_method, status, proof_ref, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var proof sql.NullString
	err := row.Scan(
		&o.ID,
		&o.OrderID,
		&o.BuyerID,
		&o.ProductID,
		&o.Quantity,
		&o.TotalPrice,
		&o.PaymentMethod,
		&o.Status,
		&proof,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if proof.Valid {
		o.ProofRef = &proof.String
	}
	return &o, nil
}

// Create inserts a new pending_proof order. A unique-violation on order_id
// surfaces as ErrDuplicateOrderID so the caller can regenerate and retry.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO orders (order_id, buyer_id, product_id, quantity, total_price, payment_method, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending_proof')
		RETURNING id, created_at, updated_at
	`,
		o.OrderID,
		o.BuyerID,
		o.ProductID,
		o.Quantity,
		o.TotalPrice,
		o.PaymentMethod,
	)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateOrderID
		}
		return err
	}
	return nil
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE order_id=$1
	`, orderID)
	return scanOrder(row)
}

// FindPendingByBuyer returns the most recent pending_proof order for a buyer.
// Last-pending-wins: if a buyer somehow holds several, the newest is the one
// proof attaches to.
func (s *OrderStore) FindPendingByBuyer(ctx context.Context, buyerID string) (*models.Order, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE buyer_id=$1 AND status='pending_proof'
		ORDER BY created_at DESC
		LIMIT 1
	`, buyerID)
	return scanOrder(row)
}

// AttachProof writes the proof reference under the same status guard as the
// transitions: a concurrent approve or reject between the caller's lookup and
// this write must not leave a proof on a terminal order.
func (s *OrderStore) AttachProof(ctx context.Context, orderID, proofRef string) error {
	ct, err := s.Pool.Exec(ctx, `
		UPDATE orders
		SET proof_ref=$2, updated_at=now()
		WHERE order_id=$1 AND status='pending_proof'
	`, orderID, proofRef)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return s.classifyGuardMiss(ctx, orderID)
	}
	return nil
}

// Complete flips a pending_proof order to completed, decrements product
// stock, and appends the sales stat row — all in one transaction. On any
// failure the whole transition rolls back and the order stays pending_proof.
func (s *OrderStore) Complete(ctx context.Context, orderID string, day time.Time) (*models.Order, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE orders
		SET status='completed', updated_at=now()
		WHERE order_id=$1 AND status='pending_proof'
		RETURNING `+orderColumns+`
	`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, s.classifyGuardMiss(ctx, orderID)
		}
		return nil, err
	}

	ct, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at=now()
		WHERE id=$1 AND stock >= $2
	`, order.ProductID, order.Quantity)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrInsufficientStock
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sales_stats (date, product_id, quantity_sold, revenue)
		VALUES ($1,$2,$3,$4)
	`, day, order.ProductID, order.Quantity, order.TotalPrice)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// Reject flips a pending_proof order to rejected. The status guard makes a
// concurrent approve and reject resolve to exactly one winner.
func (s *OrderStore) Reject(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE orders
		SET status='rejected', updated_at=now()
		WHERE order_id=$1 AND status='pending_proof'
		RETURNING `+orderColumns+`
	`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, s.classifyGuardMiss(ctx, orderID)
		}
		return nil, err
	}
	return order, nil
}

// classifyGuardMiss distinguishes "order does not exist" from "order exists
// but is no longer pending_proof" after a guarded update matched no rows.
func (s *OrderStore) classifyGuardMiss(ctx context.Context, orderID string) error {
	var status models.OrderStatus
	row := s.Pool.QueryRow(ctx, `SELECT status FROM orders WHERE order_id=$1`, orderID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return ErrInvalidState
}
