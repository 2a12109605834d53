package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for checkout validation.
var (
	// ErrEmptyCart is returned when the user has no cart or it has no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoValidItems is returned when every cart line refers to an item
	// that has since left the catalog.
	ErrNoValidItems = errors.New("cart contains no valid items")
)

// Line is an order line snapshot. Name and price are copied from the catalog
// at checkout time and stay fixed regardless of later catalog edits.
type Line struct {
	ItemID   string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Subtotal decimal.Decimal
}

// Order is an immutable record of a completed checkout.
// Total = round(Subtotal - DiscountAmount, 2); DiscountAmount is either zero
// or the configured percentage of Subtotal.
type Order struct {
	ID             string
	UserID         string
	Lines          []Line
	Subtotal       decimal.Decimal
	DiscountCode   string
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	CreatedAt      time.Time
}

// Log is the append-only order log. Count doubles as the completed-checkout
// counter: both advance only when an order is appended, which happens exactly
// once per successful checkout.
type Log interface {
	Append(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
	Count(ctx context.Context) (int, error)
}
