package services

import (
	"context"

	"novashop/internal/models"
)

type StatsSource interface {
	Summarize(ctx context.Context, period models.StatsPeriod) (*models.StatsSummary, error)
	TimeSeries(ctx context.Context, period models.StatsPeriod) ([]models.RevenuePoint, error)
}

// StatsService is read-only: summaries and time series are derived from
// orders, never mutated here.
type StatsService struct {
	Source StatsSource
}

// Report parses the period (unknown values fall back to all-time) and
// returns the summary plus the charting series.
func (s StatsService) Report(ctx context.Context, period string) (*models.StatsSummary, []models.RevenuePoint, error) {
	p := models.ParsePeriod(period)

	summary, err := s.Source.Summarize(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	series, err := s.Source.TimeSeries(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return summary, series, nil
}
