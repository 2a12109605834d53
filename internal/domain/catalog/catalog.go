package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested item does not exist in the catalog.
var ErrNotFound = errors.New("item not found")

// Item is a catalog entry. Items are seeded at startup and never mutated
// afterwards; order lines copy name and price instead of referencing them.
type Item struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
}

// Repository defines read access to the item catalog.
//
// Reseed replaces the whole item set atomically. It exists for startup
// seeding and for test harnesses that reset state between scenarios.
type Repository interface {
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Reseed(ctx context.Context, items []Item) error
}
