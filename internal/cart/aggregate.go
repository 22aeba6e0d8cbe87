package cart

import "github.com/modamart/modamart/internal/catalog"

// Aggregate folds resolved lines into the totals view. The subtotal is
// summed unrounded and rounded once, so many lines cannot accumulate
// rounding drift. An empty cart never implies a shipping charge.
func Aggregate(items []LineView, policy ShippingPolicy) View {
	if items == nil {
		items = []LineView{}
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	shipping := 0.0
	if subtotal > 0 && subtotal < policy.FreeShippingThreshold {
		shipping = policy.FlatShippingCost
	}

	remaining := policy.FreeShippingThreshold - subtotal
	if remaining < 0 {
		remaining = 0
	}

	return View{
		Items:                 items,
		Subtotal:              catalog.Round2(subtotal),
		Shipping:              catalog.Round2(shipping),
		Total:                 catalog.Round2(subtotal + shipping),
		FreeShippingThreshold: catalog.Round2(policy.FreeShippingThreshold),
		FreeShippingRemaining: catalog.Round2(remaining),
	}
}
