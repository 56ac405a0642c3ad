package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"novashop/internal/models"
	"novashop/internal/store"
)

type PaymentRepo interface {
	Upsert(ctx context.Context, method models.PaymentMethod, address string) error
	Get(ctx context.Context, method models.PaymentMethod) (*models.PaymentInfo, error)
	List(ctx context.Context) ([]*models.PaymentInfo, error)
}

// PaymentsService manages payment destinations. Reads fall back to the
// injected static configuration when no row exists for a method.
type PaymentsService struct {
	Repo     PaymentRepo
	Fallback func(method string) string
}

func (s *PaymentsService) SetAddress(ctx context.Context, method, address string) error {
	pm, ok := models.ParsePaymentMethod(method)
	if !ok {
		return fmt.Errorf("%q: %w", method, ErrUnknownPaymentMethod)
	}
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("method %s: %w", pm, ErrEmptyAddress)
	}
	return s.Repo.Upsert(ctx, pm, strings.TrimSpace(address))
}

func (s *PaymentsService) GetAddress(ctx context.Context, method string) (*models.PaymentInfo, error) {
	pm, ok := models.ParsePaymentMethod(method)
	if !ok {
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownPaymentMethod)
	}

	info, err := s.Repo.Get(ctx, pm)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if s.Fallback != nil {
		if addr := s.Fallback(string(pm)); addr != "" {
			return &models.PaymentInfo{Method: pm, Address: addr}, nil
		}
	}
	return nil, fmt.Errorf("method %s: %w", pm, ErrPaymentNotConfigured)
}

func (s *PaymentsService) List(ctx context.Context) ([]*models.PaymentInfo, error) {
	return s.Repo.List(ctx)
}
