package store

import (
	"context"
	"errors"

	"novashop/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentStore struct {
	Pool *pgxpool.Pool
}

func NewPaymentStore(pool *pgxpool.Pool) *PaymentStore {
	return &PaymentStore{Pool: pool}
}

func (s *PaymentStore) Upsert(ctx context.Context, method models.PaymentMethod, address string) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO payment_methods (method_name, address)
		VALUES ($1,$2)
		ON CONFLICT (method_name) DO UPDATE SET
			address=EXCLUDED.address,
			updated_at=now()
	`, method, address)
	return err
}

func (s *PaymentStore) Get(ctx context.Context, method models.PaymentMethod) (*models.PaymentInfo, error) {
	var info models.PaymentInfo
	row := s.Pool.QueryRow(ctx, `
		SELECT method_name, address, updated_at
		FROM payment_methods
		WHERE method_name=$1
	`, method)
	if err := row.Scan(&info.Method, &info.Address, &info.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

func (s *PaymentStore) List(ctx context.Context) ([]*models.PaymentInfo, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT method_name, address, updated_at
		FROM payment_methods
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PaymentInfo
	for rows.Next() {
		var info models.PaymentInfo
		if err := rows.Scan(&info.Method, &info.Address, &info.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &info)
	}
	return out, rows.Err()
}
