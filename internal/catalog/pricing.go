package catalog

import (
	"fmt"
	"math"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// PriceInfo is the resolved pricing of one product(+variant) for display.
type PriceInfo struct {
	UnitPrice       float64
	BasePrice       float64
	OnSale          bool
	DiscountPercent int
	BadgeLabel      string
}

// EffectivePrice returns the price actually charged: the sale price when
// present and positive, else the base price. Negative inputs are a data
// error and fail closed.
func EffectivePrice(base float64, sale *float64) (float64, error) {
	if base < 0 || (sale != nil && *sale < 0) {
		return 0, fmt.Errorf("%w: negative price", httpx.ErrValidation)
	}
	if sale != nil && *sale > 0 {
		return *sale, nil
	}
	return base, nil
}

// DiscountPercent computes the rounded half-up discount percentage, or 0
// when there is no real discount.
func DiscountPercent(base, effective float64) int {
	if base <= 0 || effective >= base {
		return 0
	}
	return int(math.Floor((base-effective)/base*100 + 0.5))
}

// ResolvePrice derives the full pricing view of a product for one locale.
// Badge precedence: an explicit badge wins; an explicit sale badge shows
// the discount percentage when a real discount exists, the generic SALE
// label otherwise; without an explicit badge a real discount auto-assigns
// the percentage badge.
func ResolvePrice(p Product, locale i18n.Locale) (PriceInfo, error) {
	effective, err := EffectivePrice(p.BasePrice, p.SalePrice)
	if err != nil {
		return PriceInfo{}, err
	}
	percent := DiscountPercent(p.BasePrice, effective)

	info := PriceInfo{
		UnitPrice:       effective,
		BasePrice:       p.BasePrice,
		OnSale:          percent > 0,
		DiscountPercent: percent,
	}

	switch p.Badge {
	case BadgeNew:
		info.BadgeLabel = i18n.Label(i18n.LabelNew, locale)
	case BadgeBestseller:
		info.BadgeLabel = i18n.Label(i18n.LabelBestseller, locale)
	case BadgeSale:
		if percent > 0 {
			info.BadgeLabel = discountLabel(percent)
		} else {
			info.BadgeLabel = i18n.Label(i18n.LabelSale, locale)
		}
	default:
		if percent > 0 {
			info.BadgeLabel = discountLabel(percent)
		}
	}
	return info, nil
}

// VariantUnitPrice applies the variant's price adjustment on top of the
// product's effective price.
func VariantUnitPrice(p Product, v *Variant) (float64, error) {
	effective, err := EffectivePrice(p.BasePrice, p.SalePrice)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return effective, nil
	}
	price := effective + v.PriceAdjustment
	if price < 0 {
		return 0, fmt.Errorf("%w: variant price below zero", httpx.ErrValidation)
	}
	return price, nil
}

func discountLabel(percent int) string {
	return fmt.Sprintf("-%d%%", percent)
}
