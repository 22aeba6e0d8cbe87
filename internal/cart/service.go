package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modamart/modamart/internal/catalog"
	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// Catalog is the product lookup the cart engine consumes.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	GetVariant(ctx context.Context, id int64) (catalog.Variant, error)
}

// Service applies cart mutations and resolves the aggregated view.
// It routes every operation to the persisted store for authenticated
// owners and to the session store for guests.
type Service struct {
	logger  *slog.Logger
	users   Repository
	guests  Repository
	catalog Catalog
	policy  ShippingPolicy
}

// NewService constructs a cart service.
func NewService(logger *slog.Logger, users, guests Repository, cat Catalog, policy ShippingPolicy) *Service {
	return &Service{logger: logger, users: users, guests: guests, catalog: cat, policy: policy}
}

func (s *Service) repoFor(owner Owner) Repository {
	if owner.IsUser() {
		return s.users
	}
	return s.guests
}

// Add puts quantity units of a product(+variant) into the owner's cart,
// merging into an existing line for the same pair.
func (s *Service) Add(ctx context.Context, owner Owner, productID int64, variantID *int64, quantity int) error {
	if productID <= 0 {
		return fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", httpx.ErrValidation)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, productID)
	}
	if variantID != nil {
		variant, err := s.catalog.GetVariant(ctx, *variantID)
		if err != nil {
			return err
		}
		if variant.ProductID != productID {
			return fmt.Errorf("%w: variant %d does not belong to product %d", httpx.ErrValidation, *variantID, productID)
		}
	}

	return s.repoFor(owner).Add(ctx, owner, productID, variantID, quantity)
}

// SetQuantity replaces a line's quantity. Zero or negative quantities
// are rejected; callers remove lines explicitly.
func (s *Service) SetQuantity(ctx context.Context, owner Owner, lineID int64, quantity int) error {
	if lineID <= 0 {
		return fmt.Errorf("%w: item id required", httpx.ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", httpx.ErrValidation)
	}
	return s.repoFor(owner).SetQuantity(ctx, owner, lineID, quantity)
}

// Remove deletes a line. Removing an absent line succeeds.
func (s *Service) Remove(ctx context.Context, owner Owner, lineID int64) error {
	if lineID <= 0 {
		return fmt.Errorf("%w: item id required", httpx.ErrValidation)
	}
	return s.repoFor(owner).Remove(ctx, owner, lineID)
}

// List resolves the owner's cart into the aggregated view. Lines whose
// product has vanished or been deactivated since they were added are
// dropped from the view rather than failing the whole cart.
func (s *Service) List(ctx context.Context, owner Owner, locale i18n.Locale) (View, error) {
	lines, err := s.repoFor(owner).List(ctx, owner)
	if err != nil {
		return View{}, err
	}

	items := make([]LineView, 0, len(lines))
	for _, line := range lines {
		item, err := s.resolveLine(ctx, line, locale)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				s.logger.Warn("dropping stale cart line",
					slog.String("owner", owner.Key()),
					slog.Int64("product_id", line.ProductID))
				continue
			}
			return View{}, err
		}
		items = append(items, item)
	}

	return Aggregate(items, s.policy), nil
}

// Merge reconciles a guest cart into the user's persisted cart at login
// time: union by product, summing quantities, then the guest cart is
// cleared. Guest lines carry no variant.
func (s *Service) Merge(ctx context.Context, sessionID string, userID int64) error {
	guest := SessionOwner(sessionID)
	user := UserOwner(userID)

	lines, err := s.guests.List(ctx, guest)
	if err != nil {
		return fmt.Errorf("merge: list guest cart: %w", err)
	}

	// Products may have been deactivated while sitting in the guest
	// cart; those lines are silently dropped.
	keep := make([]Line, 0, len(lines))
	for _, line := range lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				continue
			}
			return fmt.Errorf("merge: check product: %w", err)
		}
		if !product.IsActive {
			continue
		}
		keep = append(keep, Line{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	if err := s.users.AddMany(ctx, user, keep); err != nil {
		return fmt.Errorf("merge: add lines: %w", err)
	}
	if err := s.guests.Clear(ctx, guest); err != nil {
		return fmt.Errorf("merge: clear guest cart: %w", err)
	}
	return nil
}

func (s *Service) resolveLine(ctx context.Context, line Line, locale i18n.Locale) (LineView, error) {
	product, err := s.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return LineView{}, err
	}
	if !product.IsActive {
		return LineView{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, line.ProductID)
	}

	var variant *catalog.Variant
	if line.VariantID != nil {
		v, err := s.catalog.GetVariant(ctx, *line.VariantID)
		if err != nil {
			return LineView{}, err
		}
		variant = &v
	}

	unit, err := catalog.VariantUnitPrice(product, variant)
	if err != nil {
		return LineView{}, err
	}

	item := LineView{
		ID:        line.ID,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Name:      product.Name.Resolve(locale),
		Image:     product.Image,
		UnitPrice: catalog.Round2(unit),
		Quantity:  line.Quantity,
		Subtotal:  catalog.Round2(unit * float64(line.Quantity)),
	}
	if variant != nil {
		item.Size = variant.Size
		item.Color = variant.Color.Resolve(locale)
	}
	return item, nil
}
