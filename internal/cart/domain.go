package cart

import "strconv"

// Owner identifies who a cart belongs to: an anonymous session or an
// authenticated user. Exactly one mode is active per request.
type Owner struct {
	sessionID string
	userID    int64
}

// SessionOwner builds the owner for an anonymous session cart.
func SessionOwner(sessionID string) Owner {
	return Owner{sessionID: sessionID}
}

// UserOwner builds the owner for an authenticated user cart.
func UserOwner(userID int64) Owner {
	return Owner{userID: userID}
}

// IsUser reports whether the owner is an authenticated user.
func (o Owner) IsUser() bool {
	return o.userID > 0
}

// UserID returns the authenticated user id, 0 for session owners.
func (o Owner) UserID() int64 {
	return o.userID
}

// SessionID returns the session id, empty for user owners.
func (o Owner) SessionID() string {
	return o.sessionID
}

// Key returns a stable string form, used for logging.
func (o Owner) Key() string {
	if o.IsUser() {
		return "user:" + strconv.FormatInt(o.userID, 10)
	}
	return "session:" + o.sessionID
}

// Line is one stored cart entry. Session carts have no variant
// dimension and use the product id as the line id; persisted carts use
// the row id.
type Line struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// LineView is a resolved cart line: unit price and display fields are
// computed at read time, never stored.
type LineView struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	VariantID *int64  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// ShippingPolicy is the externally supplied shipping configuration.
type ShippingPolicy struct {
	FreeShippingThreshold float64
	FlatShippingCost      float64
}

// View is the fully aggregated cart returned by the API.
type View struct {
	Items                 []LineView `json:"items"`
	Subtotal              float64    `json:"subtotal"`
	Shipping              float64    `json:"shipping"`
	Total                 float64    `json:"total"`
	FreeShippingThreshold float64    `json:"free_shipping_threshold"`
	FreeShippingRemaining float64    `json:"free_shipping_remaining"`
}
