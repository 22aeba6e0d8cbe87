// Package storefront composes the home page from catalog data.
package storefront

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/modamart/modamart/internal/catalog"
	"github.com/modamart/modamart/internal/i18n"
)

const (
	newestLimit     = 8
	bestsellerLimit = 8
)

// Catalog is the slice of the catalog service the home page needs.
type Catalog interface {
	ListNewest(ctx context.Context, limit int, locale i18n.Locale) ([]catalog.ProductView, error)
	ListBestsellers(ctx context.Context, limit int, locale i18n.Locale) ([]catalog.ProductView, error)
	ListCategories(ctx context.Context, locale i18n.Locale) ([]catalog.CategoryView, error)
}

// HomeView is the aggregated home page payload.
type HomeView struct {
	Locale      i18n.Locale            `json:"locale"`
	RTL         bool                   `json:"rtl"`
	Newest      []catalog.ProductView  `json:"newest"`
	Bestsellers []catalog.ProductView  `json:"bestsellers"`
	Categories  []catalog.CategoryView `json:"categories"`
}

// Service aggregates storefront sections.
type Service struct {
	catalog Catalog
}

// NewService constructs a Service.
func NewService(cat Catalog) *Service {
	return &Service{catalog: cat}
}

// Home fetches the three home page sections concurrently. One failing
// section fails the whole page.
func (s *Service) Home(ctx context.Context, locale i18n.Locale) (HomeView, error) {
	view := HomeView{Locale: locale, RTL: locale.IsRTL()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		newest, err := s.catalog.ListNewest(ctx, newestLimit, locale)
		if err != nil {
			return err
		}
		view.Newest = newest
		return nil
	})
	g.Go(func() error {
		best, err := s.catalog.ListBestsellers(ctx, bestsellerLimit, locale)
		if err != nil {
			return err
		}
		view.Bestsellers = best
		return nil
	})
	g.Go(func() error {
		cats, err := s.catalog.ListCategories(ctx, locale)
		if err != nil {
			return err
		}
		view.Categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}
	return view, nil
}
