package catalog

import (
	"context"
	"fmt"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
	"github.com/modamart/modamart/internal/shared"
)

// Service provides locale-resolved catalog reads for the storefront.
type Service struct {
	repo Repository
}

// NewService constructs a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProduct returns the locale-resolved view of one active product.
func (s *Service) GetProduct(ctx context.Context, id int64, locale i18n.Locale) (ProductView, error) {
	if id <= 0 {
		return ProductView{}, fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	if !p.IsActive {
		return ProductView{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	return s.toView(p, locale)
}

// ListProducts returns one storefront page of products.
func (s *Service) ListProducts(ctx context.Context, filters ListFilters, locale i18n.Locale) ([]ProductView, shared.Pagination, error) {
	filters.ActiveOnly = true
	products, total, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list products: %w", err)
	}
	views, err := s.toViews(products, locale)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return views, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// ListNewest returns the newest active products for the home widgets.
func (s *Service) ListNewest(ctx context.Context, limit int, locale i18n.Locale) ([]ProductView, error) {
	products, err := s.repo.ListNewest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list newest: %w", err)
	}
	return s.toViews(products, locale)
}

// ListBestsellers returns the bestseller selection for the home widgets.
func (s *Service) ListBestsellers(ctx context.Context, limit int, locale i18n.Locale) ([]ProductView, error) {
	products, err := s.repo.ListBestsellers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list bestsellers: %w", err)
	}
	return s.toViews(products, locale)
}

// ListVariants returns the locale-resolved variants of a product.
func (s *Service) ListVariants(ctx context.Context, productID int64, locale i18n.Locale) ([]VariantView, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	variants, err := s.repo.ListVariants(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	views := make([]VariantView, 0, len(variants))
	for i := range variants {
		v := variants[i]
		price, err := VariantUnitPrice(p, &v)
		if err != nil {
			return nil, err
		}
		views = append(views, VariantView{
			ID:        v.ID,
			ProductID: v.ProductID,
			Size:      v.Size,
			Color:     v.Color.Resolve(locale),
			UnitPrice: Round2(price),
			StockQty:  v.StockQty,
		})
	}
	return views, nil
}

// ListCategories returns the flattened, locale-resolved category tree.
func (s *Service) ListCategories(ctx context.Context, locale i18n.Locale) ([]CategoryView, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, CategoryView{
			ID:       c.ID,
			ParentID: c.ParentID,
			Slug:     c.Slug,
			Name:     c.Name.Resolve(locale),
			Position: c.Position,
		})
	}
	return views, nil
}

func (s *Service) toView(p Product, locale i18n.Locale) (ProductView, error) {
	price, err := ResolvePrice(p, locale)
	if err != nil {
		return ProductView{}, err
	}
	return ProductView{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name.Resolve(locale),
		Description:     p.Description.Resolve(locale),
		CategoryID:      p.CategoryID,
		Image:           p.Image,
		UnitPrice:       Round2(price.UnitPrice),
		BasePrice:       Round2(price.BasePrice),
		OnSale:          price.OnSale,
		DiscountPercent: price.DiscountPercent,
		BadgeLabel:      price.BadgeLabel,
	}, nil
}

func (s *Service) toViews(products []Product, locale i18n.Locale) ([]ProductView, error) {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view, err := s.toView(p, locale)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
