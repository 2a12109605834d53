package memory

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/your-org/discount-cart/internal/domain/order"
)

// OrderLog is an in-memory append-only order.Log. Its length is the
// completed-checkout counter.
type OrderLog struct {
	mu     sync.RWMutex
	orders []order.Order
	ids    map[string]struct{}
}

var _ order.Log = (*OrderLog)(nil)

// NewOrderLog creates an empty order log.
func NewOrderLog() *OrderLog {
	return &OrderLog{ids: make(map[string]struct{})}
}

func (l *OrderLog) Append(_ context.Context, o *order.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[o.ID]; ok {
		return errors.Errorf("duplicate order ID %q", o.ID)
	}
	stored := *o
	stored.Lines = append([]order.Line(nil), o.Lines...)
	l.ids[o.ID] = struct{}{}
	l.orders = append(l.orders, stored)
	return nil
}

func (l *OrderLog) List(_ context.Context) ([]order.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]order.Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = o
		out[i].Lines = append([]order.Line(nil), o.Lines...)
	}
	return out, nil
}

func (l *OrderLog) Count(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.orders), nil
}
