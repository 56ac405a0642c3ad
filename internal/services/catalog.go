package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"novashop/internal/cache"
	"novashop/internal/models"
	"novashop/internal/store"

	"go.uber.org/zap"
)

type CatalogRepo interface {
	UpsertProduct(ctx context.Context, p *models.Product) error
	GetByName(ctx context.Context, name string) (*models.Product, error)
	ListAll(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Product, error)
	SoftDelete(ctx context.Context, name string) error
	SetStock(ctx context.Context, name string, amount int) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CategoryExists(ctx context.Context, value string) (bool, error)
	AddCategory(ctx context.Context, value, label, emoji string) error
	UpdateCategory(ctx context.Context, id int64, value, label, emoji string) error
	DeleteCategory(ctx context.Context, id int64) error
}

// CatalogService owns product and category management. Listings go through
// the cache when one is configured; every mutation invalidates it.
type CatalogService struct {
	Repo   CatalogRepo
	Cache  *cache.ProductCache
	Logger *zap.Logger
}

func (s *CatalogService) AddOrUpdateProduct(ctx context.Context, p *models.Product) error {
	if !p.Price.IsPositive() {
		return fmt.Errorf("product %q: %w", p.Name, ErrInvalidPrice)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %q: %w", p.Name, ErrNegativeStock)
	}

	category := strings.ToLower(strings.TrimSpace(p.Category))
	known, err := s.Repo.CategoryExists(ctx, category)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("category %q: %w", p.Category, ErrUnknownCategory)
	}
	p.Category = category

	if err := s.Repo.UpsertProduct(ctx, p); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	s.Logger.Info("product upserted", zap.String("name", p.Name), zap.String("category", category))
	return nil
}

func (s *CatalogService) RemoveProduct(ctx context.Context, name string) error {
	if err := s.Repo.SoftDelete(ctx, name); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

func (s *CatalogService) SetStock(ctx context.Context, name string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("product %q: %w", name, ErrNegativeStock)
	}
	if err := s.Repo.SetStock(ctx, name, amount); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("product %q: %w", name, ErrProductNotFound)
		}
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

// ListProducts returns non-deleted products, newest first, optionally
// filtered by category.
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	if cached, ok := s.Cache.GetList(ctx, category); ok {
		return cached, nil
	}

	var (
		products []*models.Product
		err      error
	)
	if category == "" {
		products, err = s.Repo.ListAll(ctx)
	} else {
		products, err = s.Repo.ListByCategory(ctx, category)
	}
	if err != nil {
		return nil, err
	}
	s.Cache.SetList(ctx, category, products)
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, name string) (*models.Product, error) {
	p, err := s.Repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("product %q: %w", name, ErrProductNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) AddCategory(ctx context.Context, value, label, emoji string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || strings.TrimSpace(label) == "" {
		return fmt.Errorf("category value and label are required: %w", ErrUnknownCategory)
	}
	if err := s.Repo.AddCategory(ctx, value, label, emoji); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, value, label, emoji string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if err := s.Repo.UpdateCategory(ctx, id, value, label, emoji); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("category %d: %w", id, ErrUnknownCategory)
		}
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

// DeleteCategory leaves products tagged with the deleted value untouched;
// the orphaned category string stays valid on them.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}
