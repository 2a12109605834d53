// Package memory provides in-memory implementations of the domain store
// interfaces. State lives for the lifetime of the process; a restart loses
// everything. Every store is safe for concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/your-org/discount-cart/internal/domain/catalog"
)

// CatalogStore is an in-memory catalog.Repository. Listing preserves seed
// order.
type CatalogStore struct {
	mu    sync.RWMutex
	items map[string]catalog.Item
	order []string
}

var _ catalog.Repository = (*CatalogStore)(nil)

// NewCatalogStore creates an empty catalog.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{items: make(map[string]catalog.Item)}
}

func (s *CatalogStore) Get(_ context.Context, id string) (*catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &item, nil
}

func (s *CatalogStore) List(_ context.Context) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Reseed atomically replaces the whole item set. A later entry with a
// duplicate ID overwrites the earlier one.
func (s *CatalogStore) Reseed(_ context.Context, items []catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]catalog.Item, len(items))
	s.order = s.order[:0]
	for _, item := range items {
		if _, ok := s.items[item.ID]; !ok {
			s.order = append(s.order, item.ID)
		}
		s.items[item.ID] = item
	}
	return nil
}

// Remove deletes a single item. Checkout tolerates carts referencing removed
// items; this exists so tests can exercise that catalog drift.
func (s *CatalogStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
