package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/your-org/discount-cart/internal/domain/cart"
	"github.com/your-org/discount-cart/internal/domain/catalog"
	"github.com/your-org/discount-cart/internal/domain/discount"
)

// Config holds the checkout tunables fixed at startup.
type Config struct {
	// NthOrder is the milestone interval: every NthOrder-th completed
	// checkout mints a new discount code.
	NthOrder int
	// DiscountPercent is the flat percentage a valid code takes off the
	// subtotal.
	DiscountPercent int
}

// Result holds the outcome of a successful checkout.
type Result struct {
	Order *Order
	// NewCode is set when this checkout hit the milestone and minted a
	// fresh discount code.
	NewCode string
}

// Service converts carts into immutable orders. It owns the order counter
// semantics: sequential IDs, the milestone check, and discount redemption.
type Service struct {
	catalog catalog.Repository
	carts   cart.Store
	ledger  discount.Ledger
	issuer  *discount.Issuer
	orders  Log
	cfg     Config

	// mu spans pricing through cart retirement so order IDs stay sequential
	// and the milestone fires exactly once per boundary.
	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a checkout Service.
func NewService(
	cat catalog.Repository,
	carts cart.Store,
	ledger discount.Ledger,
	issuer *discount.Issuer,
	orders Log,
	cfg Config,
) *Service {
	return &Service{
		catalog: cat,
		carts:   carts,
		ledger:  ledger,
		issuer:  issuer,
		orders:  orders,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Checkout converts the user's cart into an order.
//
// Cart lines whose item has left the catalog are dropped silently; checkout
// aborts only when nothing priceable remains. A supplied discount code is
// best-effort: unknown or used codes are ignored, a valid unused code takes
// the configured percentage off and is consumed. On success the cart is
// deleted and, when the new order count is a multiple of the milestone, a
// fresh discount code is minted regardless of whether an unused one is still
// outstanding.
func (s *Service) Checkout(ctx context.Context, userID, discountCode string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, errors.Wrap(err, "get cart")
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	lines, subtotal, err := s.priceLines(ctx, c.Lines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoValidItems
	}

	// Discount resolution is best-effort: an unknown or already-used code
	// never blocks the order.
	discountAmount := decimal.Zero
	appliedCode := ""
	if discountCode != "" {
		dc, err := s.ledger.FindByCode(ctx, discountCode)
		switch {
		case errors.Is(err, discount.ErrNotFound):
		case err != nil:
			return nil, errors.Wrap(err, "find discount code")
		case !dc.Used:
			discountAmount = discount.Percentage(subtotal, s.cfg.DiscountPercent)
			appliedCode = discountCode
		}
	}

	total := subtotal.Sub(discountAmount).Round(2)

	count, err := s.orders.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}
	orderID := fmt.Sprintf("order%03d", count+1)

	o := &Order{
		ID:             orderID,
		UserID:         userID,
		Lines:          lines,
		Subtotal:       subtotal,
		DiscountCode:   appliedCode,
		DiscountAmount: discountAmount,
		Total:          total,
		CreatedAt:      s.now(),
	}

	if appliedCode != "" {
		if err := s.ledger.MarkUsed(ctx, appliedCode, orderID, s.now()); err != nil {
			return nil, errors.Wrap(err, "mark code used")
		}
		// The consumed code was the only one on offer.
		if err := s.ledger.SetAvailableCode(ctx, ""); err != nil {
			return nil, errors.Wrap(err, "clear available code")
		}
	}

	if err := s.orders.Append(ctx, o); err != nil {
		return nil, errors.Wrap(err, "append order")
	}

	newCode := ""
	if (count+1)%s.cfg.NthOrder == 0 {
		minted, err := s.issuer.Issue(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "mint milestone code")
		}
		newCode = minted.Code
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "delete cart")
	}

	return &Result{Order: o, NewCode: newCode}, nil
}

// priceLines snapshots cart lines against the current catalog, dropping lines
// whose item no longer exists.
func (s *Service) priceLines(ctx context.Context, cartLines []cart.Line) ([]Line, decimal.Decimal, error) {
	lines := make([]Line, 0, len(cartLines))
	subtotal := decimal.Zero

	for _, cl := range cartLines {
		item, err := s.catalog.Get(ctx, cl.ItemID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, decimal.Zero, errors.Wrapf(err, "get item %s", cl.ItemID)
		}

		sub := item.Price.Mul(decimal.NewFromInt(int64(cl.Quantity))).Round(2)
		lines = append(lines, Line{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: cl.Quantity,
			Subtotal: sub,
		})
		subtotal = subtotal.Add(sub)
	}

	return lines, subtotal.Round(2), nil
}
