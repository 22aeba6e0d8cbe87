package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modamart/modamart/internal/catalog"
	"github.com/modamart/modamart/internal/i18n"
)

type stubCatalog struct {
	newest      []catalog.ProductView
	bestsellers []catalog.ProductView
	categories  []catalog.CategoryView
	err         error
}

func (s *stubCatalog) ListNewest(_ context.Context, _ int, _ i18n.Locale) ([]catalog.ProductView, error) {
	return s.newest, s.err
}

func (s *stubCatalog) ListBestsellers(_ context.Context, _ int, _ i18n.Locale) ([]catalog.ProductView, error) {
	return s.bestsellers, nil
}

func (s *stubCatalog) ListCategories(_ context.Context, _ i18n.Locale) ([]catalog.CategoryView, error) {
	return s.categories, nil
}

func TestHomeAggregatesSections(t *testing.T) {
	cat := &stubCatalog{
		newest:      []catalog.ProductView{{ID: 1, Name: "Kleid"}},
		bestsellers: []catalog.ProductView{{ID: 2, Name: "Hose"}, {ID: 3, Name: "Jacke"}},
		categories:  []catalog.CategoryView{{ID: 10, Name: "Damen"}},
	}
	svc := NewService(cat)

	view, err := svc.Home(context.Background(), i18n.LocaleDE)
	require.NoError(t, err)
	assert.Equal(t, i18n.LocaleDE, view.Locale)
	assert.False(t, view.RTL)
	assert.Len(t, view.Newest, 1)
	assert.Len(t, view.Bestsellers, 2)
	assert.Len(t, view.Categories, 1)
}

func TestHomeMarksArabicRTL(t *testing.T) {
	svc := NewService(&stubCatalog{})
	view, err := svc.Home(context.Background(), i18n.LocaleAR)
	require.NoError(t, err)
	assert.True(t, view.RTL)
}

func TestHomeFailsWhenSectionFails(t *testing.T) {
	svc := NewService(&stubCatalog{err: errors.New("db down")})
	_, err := svc.Home(context.Background(), i18n.LocaleEN)
	assert.Error(t, err)
}
