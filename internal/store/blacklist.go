package store

import (
	"context"

	"novashop/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BlacklistStore struct {
	Pool *pgxpool.Pool
}

func NewBlacklistStore(pool *pgxpool.Pool) *BlacklistStore {
	return &BlacklistStore{Pool: pool}
}

func (s *BlacklistStore) Add(ctx context.Context, userID, reason, addedBy string) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO blacklist (user_id, reason, added_by)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET
			reason=EXCLUDED.reason,
			added_by=EXCLUDED.added_by
	`, userID, reason, addedBy)
	return err
}

func (s *BlacklistStore) Remove(ctx context.Context, userID string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM blacklist WHERE user_id=$1`, userID)
	return err
}

func (s *BlacklistStore) Contains(ctx context.Context, userID string) (bool, error) {
	var exists bool
	row := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blacklist WHERE user_id=$1)`, userID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *BlacklistStore) List(ctx context.Context) ([]*models.BlacklistEntry, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT user_id, reason, added_by, created_at
		FROM blacklist
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.BlacklistEntry
	for rows.Next() {
		var e models.BlacklistEntry
		if err := rows.Scan(&e.UserID, &e.Reason, &e.AddedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
