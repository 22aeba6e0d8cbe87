package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

type mockRepository struct {
	products   map[int64]Product
	variants   map[int64]Variant
	categories []Category

	listErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products: make(map[int64]Product),
		variants: make(map[int64]Variant),
	}
}

func (m *mockRepository) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []Product
	for _, p := range m.products {
		if filters.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepository) ListNewest(ctx context.Context, limit int) ([]Product, error) {
	out, _, err := m.ListProducts(context.Background(), ListFilters{ActiveOnly: true})
	return out, err
}

func (m *mockRepository) ListBestsellers(ctx context.Context, limit int) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if p.IsActive && p.Badge == BadgeBestseller {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) GetVariant(ctx context.Context, id int64) (Variant, error) {
	v, ok := m.variants[id]
	if !ok {
		return Variant{}, httpx.ErrNotFound
	}
	return v, nil
}

func (m *mockRepository) ListVariants(ctx context.Context, productID int64) ([]Variant, error) {
	var out []Variant
	for _, v := range m.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockRepository) ListCategories(ctx context.Context) ([]Category, error) {
	return m.categories, nil
}

func testProduct() Product {
	return Product{
		ID:         1,
		SKU:        "DRS-001",
		Name:       i18n.Text{DE: "Sommerkleid", EN: "Summer Dress"},
		CategoryID: 3,
		BasePrice:  49.99,
		IsActive:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestGetProduct(t *testing.T) {
	repo := newMockRepository()
	repo.products[1] = testProduct()
	svc := NewService(repo)

	t.Run("resolves locale", func(t *testing.T) {
		view, err := svc.GetProduct(context.Background(), 1, i18n.LocaleEN)
		require.NoError(t, err)
		assert.Equal(t, "Summer Dress", view.Name)
		assert.Equal(t, 49.99, view.UnitPrice)
	})

	t.Run("missing arabic name falls back to base locale", func(t *testing.T) {
		view, err := svc.GetProduct(context.Background(), 1, i18n.LocaleAR)
		require.NoError(t, err)
		assert.Equal(t, "Sommerkleid", view.Name)
	})

	t.Run("inactive product is not found", func(t *testing.T) {
		p := testProduct()
		p.ID = 2
		p.IsActive = false
		repo.products[2] = p

		_, err := svc.GetProduct(context.Background(), 2, i18n.LocaleDE)
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), 0, i18n.LocaleDE)
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})
}

func TestListVariants(t *testing.T) {
	repo := newMockRepository()
	p := testProduct()
	p.SalePrice = fptr(39.99)
	repo.products[1] = p
	repo.variants[10] = Variant{
		ID:        10,
		ProductID: 1,
		Size:      "M",
		Color:     i18n.Text{DE: "Rot", EN: "Red"},
		StockQty:  5,
	}
	repo.variants[11] = Variant{
		ID:              11,
		ProductID:       1,
		Size:            "L",
		Color:           i18n.Text{DE: "Blau"},
		PriceAdjustment: 2.00,
		StockQty:        2,
	}
	svc := NewService(repo)

	views, err := svc.ListVariants(context.Background(), 1, i18n.LocaleEN)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[int64]VariantView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.Equal(t, "Red", byID[10].Color)
	assert.Equal(t, 39.99, byID[10].UnitPrice)
	// Untranslated color falls back independently of other fields.
	assert.Equal(t, "Blau", byID[11].Color)
	assert.Equal(t, 41.99, byID[11].UnitPrice)
}

func TestListCategoriesLocalized(t *testing.T) {
	repo := newMockRepository()
	parent := int64(1)
	repo.categories = []Category{
		{ID: 1, Slug: "damen", Name: i18n.Text{DE: "Damen", EN: "Women"}, Position: 1, IsActive: true},
		{ID: 2, ParentID: &parent, Slug: "kleider", Name: i18n.Text{DE: "Kleider"}, Position: 2, IsActive: true},
	}
	svc := NewService(repo)

	views, err := svc.ListCategories(context.Background(), i18n.LocaleEN)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Women", views[0].Name)
	assert.Equal(t, "Kleider", views[1].Name)
	require.NotNil(t, views[1].ParentID)
	assert.Equal(t, int64(1), *views[1].ParentID)
}
