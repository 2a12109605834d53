package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/your-org/discount-cart/internal/domain/catalog"
)

// ItemNotFoundError indicates a requested item does not exist in the catalog.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.ItemID)
}

// InvalidQuantityError indicates a non-positive quantity.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %s", e.ItemID)
}

// Service manages user carts and renders priced cart views.
type Service struct {
	catalog catalog.Repository
	carts   Store

	// mu serializes the increment-or-append read-modify-write on carts.
	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a cart Service backed by the given catalog and cart store.
func NewService(cat catalog.Repository, carts Store) *Service {
	return &Service{
		catalog: cat,
		carts:   carts,
		now:     time.Now,
	}
}

// AddItem adds quantity units of an item to the user's cart, creating the
// cart lazily on first add. If the cart already holds a line for the item,
// its quantity is incremented instead of appending a duplicate line.
// It returns the priced view of the updated cart.
func (s *Service) AddItem(ctx context.Context, userID, itemID string, quantity int) (*View, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{ItemID: itemID}
	}

	if _, err := s.catalog.Get(ctx, itemID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &ItemNotFoundError{ItemID: itemID}
		}
		return nil, errors.Wrapf(err, "get item %s", itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, errors.Wrap(err, "get cart")
		}
		c = &Cart{UserID: userID, CreatedAt: s.now()}
	}

	found := false
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		c.Lines = append(c.Lines, Line{ItemID: itemID, Quantity: quantity})
	}
	c.UpdatedAt = s.now()

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}

	return s.price(ctx, c)
}

// View returns the priced projection of the user's cart. A missing cart is
// indistinguishable from an empty one; View never creates a cart.
func (s *Service) View(ctx context.Context, userID string) (*View, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return emptyView(userID), nil
		}
		return nil, errors.Wrap(err, "get cart")
	}
	return s.price(ctx, c)
}

// price joins cart lines against the catalog. Lines whose item has left the
// catalog are omitted from the view.
func (s *Service) price(ctx context.Context, c *Cart) (*View, error) {
	v := emptyView(c.UserID)
	for _, line := range c.Lines {
		item, err := s.catalog.Get(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "get item %s", line.ItemID)
		}

		sub := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		v.Lines = append(v.Lines, PricedLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
			Subtotal: sub,
		})
		v.Subtotal = v.Subtotal.Add(sub)
	}

	v.Subtotal = v.Subtotal.Round(2)
	v.Total = v.Subtotal
	return v, nil
}

func emptyView(userID string) *View {
	return &View{
		UserID:   userID,
		Lines:    []PricedLine{},
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	}
}
