package store

import (
	"context"
	"time"

	"novashop/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsStore struct {
	Pool *pgxpool.Pool
}

func NewStatsStore(pool *pgxpool.Pool) *StatsStore {
	return &StatsStore{Pool: pool}
}

// periodFilter maps a stats period to a fixed SQL fragment over o.created_at.
// Fragments are static strings, never interpolated from input.
func periodFilter(period models.StatsPeriod) string {
	switch period {
	case models.PeriodDaily:
		return "o.created_at::date = CURRENT_DATE"
	case models.PeriodWeekly:
		return "o.created_at::date >= CURRENT_DATE - 7"
	case models.PeriodMonthly:
		return "o.created_at::date >= CURRENT_DATE - 30"
	default:
		return "TRUE"
	}
}

func (s *StatsStore) Summarize(ctx context.Context, period models.StatsPeriod) (*models.StatsSummary, error) {
	var sum models.StatsSummary
	row := s.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE o.status='completed'),
			COALESCE(SUM(o.total_price) FILTER (WHERE o.status='completed'), 0)
		FROM orders o
		WHERE `+periodFilter(period))
	if err := row.Scan(&sum.TotalOrders, &sum.CompletedOrders, &sum.TotalRevenue); err != nil {
		return nil, err
	}
	return &sum, nil
}

// TimeSeries returns per-day completed revenue ascending by date. Days with
// no orders at all do not appear; zero-fill is the caller's concern.
func (s *StatsStore) TimeSeries(ctx context.Context, period models.StatsPeriod) ([]models.RevenuePoint, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT
			o.created_at::date AS day,
			COALESCE(SUM(o.total_price) FILTER (WHERE o.status='completed'), 0)
		FROM orders o
		WHERE `+periodFilter(period)+`
		GROUP BY day
		ORDER BY day ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RevenuePoint
	for rows.Next() {
		var day time.Time
		var p models.RevenuePoint
		if err := rows.Scan(&day, &p.Revenue); err != nil {
			return nil, err
		}
		p.Date = day.Format("2006-01-02")
		out = append(out, p)
	}
	return out, rows.Err()
}
