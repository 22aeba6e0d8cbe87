package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/modamart/modamart/internal/catalog"
	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// Catalog is the product lookup the wishlist consumes.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
}

// Owner mirrors the cart's ownership resolution: guests are keyed by
// session id, authenticated users by user id.
type Owner struct {
	SessionID string
	UserID    int64
}

func (o Owner) isUser() bool { return o.UserID > 0 }

func (o Owner) key() string {
	if o.isUser() {
		return strconv.FormatInt(o.UserID, 10)
	}
	return o.SessionID
}

// Service applies wishlist mutations and resolves product views.
type Service struct {
	users   Repository
	guests  Repository
	catalog Catalog
}

// NewService constructs a wishlist service.
func NewService(users, guests Repository, cat Catalog) *Service {
	return &Service{users: users, guests: guests, catalog: cat}
}

func (s *Service) repoFor(owner Owner) Repository {
	if owner.isUser() {
		return s.users
	}
	return s.guests
}

// Add puts a product on the owner's wishlist. Adding it twice is a
// no-op.
func (s *Service) Add(ctx context.Context, owner Owner, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, productID)
	}
	return s.repoFor(owner).Add(ctx, owner.key(), productID)
}

// Remove drops a product from the wishlist; removing an absent product
// succeeds.
func (s *Service) Remove(ctx context.Context, owner Owner, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	return s.repoFor(owner).Remove(ctx, owner.key(), productID)
}

// List resolves the wishlist into locale-resolved product views,
// dropping products that have vanished or been deactivated.
func (s *Service) List(ctx context.Context, owner Owner, locale i18n.Locale) ([]catalog.ProductView, error) {
	ids, err := s.repoFor(owner).List(ctx, owner.key())
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	views := make([]catalog.ProductView, 0, len(ids))
	for _, id := range ids {
		product, err := s.catalog.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !product.IsActive {
			continue
		}
		price, err := catalog.ResolvePrice(product, locale)
		if err != nil {
			return nil, err
		}
		views = append(views, catalog.ProductView{
			ID:              product.ID,
			SKU:             product.SKU,
			Name:            product.Name.Resolve(locale),
			CategoryID:      product.CategoryID,
			Image:           product.Image,
			UnitPrice:       catalog.Round2(price.UnitPrice),
			BasePrice:       catalog.Round2(price.BasePrice),
			OnSale:          price.OnSale,
			DiscountPercent: price.DiscountPercent,
			BadgeLabel:      price.BadgeLabel,
		})
	}
	return views, nil
}

// Adopt moves a guest wishlist into the user's account at login.
func (s *Service) Adopt(ctx context.Context, sessionID string, userID int64) error {
	guest := Owner{SessionID: sessionID}
	user := Owner{UserID: userID}

	ids, err := s.guests.List(ctx, guest.key())
	if err != nil {
		return fmt.Errorf("adopt wishlist: %w", err)
	}
	for _, id := range ids {
		if err := s.Add(ctx, user, id); err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				continue
			}
			return fmt.Errorf("adopt wishlist: %w", err)
		}
	}
	if err := s.guests.Clear(ctx, guest.key()); err != nil {
		return fmt.Errorf("adopt wishlist: %w", err)
	}
	return nil
}
