package services

import (
	"context"
	"testing"

	"novashop/internal/models"
	"novashop/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCatalogRepo struct {
	seq        int64
	products   map[string]*models.Product
	categories map[string]*models.Category
}

func newFakeCatalogRepo(categories ...string) *fakeCatalogRepo {
	r := &fakeCatalogRepo{
		products:   make(map[string]*models.Product),
		categories: make(map[string]*models.Category),
	}
	for _, c := range categories {
		r.seq++
		r.categories[c] = &models.Category{ID: r.seq, Value: c, Label: c}
	}
	return r
}

func (r *fakeCatalogRepo) UpsertProduct(_ context.Context, p *models.Product) error {
	if existing, ok := r.products[p.Name]; ok {
		p.ID = existing.ID
	} else {
		r.seq++
		p.ID = r.seq
	}
	cp := *p
	cp.IsDeleted = false
	r.products[p.Name] = &cp
	return nil
}

func (r *fakeCatalogRepo) GetByName(_ context.Context, name string) (*models.Product, error) {
	p, ok := r.products[name]
	if !ok || p.IsDeleted {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeCatalogRepo) ListAll(_ context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.products {
		if !p.IsDeleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) ListByCategory(_ context.Context, category string) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.products {
		if !p.IsDeleted && p.Category == category {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) SoftDelete(_ context.Context, name string) error {
	if p, ok := r.products[name]; ok {
		p.IsDeleted = true
	}
	return nil
}

func (r *fakeCatalogRepo) SetStock(_ context.Context, name string, amount int) error {
	p, ok := r.products[name]
	if !ok || p.IsDeleted {
		return store.ErrNotFound
	}
	p.Stock = amount
	return nil
}

func (r *fakeCatalogRepo) ListCategories(_ context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCatalogRepo) CategoryExists(_ context.Context, value string) (bool, error) {
	_, ok := r.categories[value]
	return ok, nil
}

func (r *fakeCatalogRepo) AddCategory(_ context.Context, value, label, emoji string) error {
	r.seq++
	r.categories[value] = &models.Category{ID: r.seq, Value: value, Label: label, Emoji: emoji}
	return nil
}

func (r *fakeCatalogRepo) UpdateCategory(_ context.Context, id int64, value, label, emoji string) error {
	for key, c := range r.categories {
		if c.ID == id {
			delete(r.categories, key)
			r.categories[value] = &models.Category{ID: id, Value: value, Label: label, Emoji: emoji}
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *fakeCatalogRepo) DeleteCategory(_ context.Context, id int64) error {
	for key, c := range r.categories {
		if c.ID == id {
			delete(r.categories, key)
			return nil
		}
	}
	return nil
}

func newCatalogService(t *testing.T, repo *fakeCatalogRepo) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: repo, Logger: zaptest.NewLogger(t)}
}

func TestAddOrUpdateProductValidation(t *testing.T) {
	repo := newFakeCatalogRepo("services")
	svc := newCatalogService(t, repo)
	ctx := context.Background()

	err := svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "services", Price: decimal.Zero, Stock: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	err = svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "services", Price: decimal.RequireFromString("-1.00"), Stock: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	err = svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "services", Price: decimal.RequireFromString("1.00"), Stock: -1,
	})
	assert.ErrorIs(t, err, ErrNegativeStock)

	err = svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "no-such", Price: decimal.RequireFromString("1.00"), Stock: 1,
	})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAddOrUpdateProductNormalizesCategory(t *testing.T) {
	repo := newFakeCatalogRepo("services")
	svc := newCatalogService(t, repo)
	ctx := context.Background()

	err := svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "  Services ", Price: decimal.RequireFromString("5.00"), Stock: 2,
	})
	require.NoError(t, err)

	p, err := svc.GetProduct(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, "services", p.Category)
}

func TestUpsertRevivesSoftDeletedProduct(t *testing.T) {
	repo := newFakeCatalogRepo("services")
	svc := newCatalogService(t, repo)
	ctx := context.Background()

	p := &models.Product{Name: "Widget", Category: "services", Price: decimal.RequireFromString("5.00"), Stock: 2}
	require.NoError(t, svc.AddOrUpdateProduct(ctx, p))
	require.NoError(t, svc.RemoveProduct(ctx, "Widget"))

	_, err := svc.GetProduct(ctx, "Widget")
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "services", Price: decimal.RequireFromString("6.00"), Stock: 3,
	}))
	got, err := svc.GetProduct(ctx, "Widget")
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
	assert.Equal(t, 3, got.Stock)
}

func TestSetStock(t *testing.T) {
	repo := newFakeCatalogRepo("services")
	svc := newCatalogService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "services", Price: decimal.RequireFromString("5.00"), Stock: 2,
	}))

	assert.ErrorIs(t, svc.SetStock(ctx, "Widget", -1), ErrNegativeStock)
	assert.ErrorIs(t, svc.SetStock(ctx, "Nope", 5), ErrProductNotFound)

	require.NoError(t, svc.SetStock(ctx, "Widget", 0))
	p, err := svc.GetProduct(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestListProductsByCategory(t *testing.T) {
	repo := newFakeCatalogRepo("services", "accounts")
	svc := newCatalogService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Widget", Category: "services", Price: decimal.RequireFromString("5.00"), Stock: 2,
	}))
	require.NoError(t, svc.AddOrUpdateProduct(ctx, &models.Product{
		Name: "Account", Category: "accounts", Price: decimal.RequireFromString("9.99"), Stock: 1,
	}))

	all, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	accounts, err := svc.ListProducts(ctx, "accounts")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Account", accounts[0].Name)
}

func TestCategoryManagement(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newCatalogService(t, repo)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddCategory(ctx, "", "Label", ""), ErrUnknownCategory)
	assert.ErrorIs(t, svc.AddCategory(ctx, "gaming", " ", ""), ErrUnknownCategory)

	require.NoError(t, svc.AddCategory(ctx, " Gaming ", "Gaming", "🎮"))
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "gaming", cats[0].Value)

	assert.ErrorIs(t, svc.UpdateCategory(ctx, 999, "x", "X", ""), ErrUnknownCategory)
	require.NoError(t, svc.UpdateCategory(ctx, cats[0].ID, "games", "Games", ""))

	require.NoError(t, svc.DeleteCategory(ctx, cats[0].ID))
	cats, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}
