package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a user has no cart.
var ErrNotFound = errors.New("cart not found")

// Line is a single (item, quantity) entry in a cart. A cart holds at most
// one line per item; repeated adds increment the quantity.
type Line struct {
	ItemID   string
	Quantity int
}

// Cart is the mutable per-user collection of lines. It stores no price data;
// prices are joined against the catalog when the cart is viewed or checked out.
type Cart struct {
	UserID    string
	Lines     []Line
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists per-user carts. A user has at most one cart, keyed by
// user ID.
type Store interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID string) error
}

// PricedLine is a cart line joined against the catalog.
type PricedLine struct {
	ItemID   string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Subtotal decimal.Decimal
}

// View is the priced projection of a cart. Total always equals Subtotal:
// discounts apply at checkout only, never while the cart is open.
type View struct {
	UserID   string
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}
