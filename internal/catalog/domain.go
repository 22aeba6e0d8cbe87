package catalog

import (
	"time"

	"github.com/modamart/modamart/internal/i18n"
)

// Badge is the promotional tag attached to a product for display.
type Badge string

const (
	BadgeNone       Badge = ""
	BadgeNew        Badge = "new"
	BadgeSale       Badge = "sale"
	BadgeBestseller Badge = "bestseller"
)

// Product represents a catalog product. Name and description carry the
// translated variants; the German field is always populated.
type Product struct {
	ID          int64      `json:"id"`
	SKU         string     `json:"sku"`
	Name        i18n.Text  `json:"name"`
	Description i18n.Text  `json:"description"`
	CategoryID  int64      `json:"category_id"`
	BasePrice   float64    `json:"base_price"`
	SalePrice   *float64   `json:"sale_price,omitempty"`
	Badge       Badge      `json:"badge,omitempty"`
	Image       string     `json:"image"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Variant refines a product with size/color and its own stock. The
// price adjustment is applied on top of the product's effective price.
type Variant struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	Size            string    `json:"size,omitempty"`
	Color           i18n.Text `json:"color"`
	PriceAdjustment float64   `json:"price_adjustment"`
	StockQty        int       `json:"stock_qty"`
}

// Category is one node of the (flattened) category tree.
type Category struct {
	ID       int64     `json:"id"`
	ParentID *int64    `json:"parent_id,omitempty"`
	Slug     string    `json:"slug"`
	Name     i18n.Text `json:"name"`
	Position int       `json:"position"`
	IsActive bool      `json:"is_active"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *int64
	OnSale     *bool
	ActiveOnly bool
}

// ProductView is the locale-resolved product representation served to
// page scripts.
type ProductView struct {
	ID              int64   `json:"id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	CategoryID      int64   `json:"category_id"`
	Image           string  `json:"image"`
	UnitPrice       float64 `json:"unit_price"`
	BasePrice       float64 `json:"base_price"`
	OnSale          bool    `json:"on_sale"`
	DiscountPercent int     `json:"discount_percent,omitempty"`
	BadgeLabel      string  `json:"badge_label,omitempty"`
}

// CategoryView is the locale-resolved category node.
type CategoryView struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id,omitempty"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// VariantView is the locale-resolved variant representation.
type VariantView struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	StockQty  int     `json:"stock_qty"`
}
