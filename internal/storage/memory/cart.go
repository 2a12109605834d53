package memory

import (
	"context"
	"sync"

	"github.com/your-org/discount-cart/internal/domain/cart"
)

// CartStore is an in-memory cart.Store keyed by user ID. Carts are copied on
// the way in and out so callers never alias stored line slices.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart
}

var _ cart.Store = (*CartStore)(nil)

// NewCartStore creates an empty cart store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]cart.Cart)}
}

func (s *CartStore) Get(_ context.Context, userID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	out := c
	out.Lines = append([]cart.Line(nil), c.Lines...)
	return &out, nil
}

func (s *CartStore) Save(_ context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.Lines = append([]cart.Line(nil), c.Lines...)
	s.carts[c.UserID] = stored
	return nil
}

// Delete removes the user's cart entirely. Deleting a missing cart is a no-op.
func (s *CartStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
