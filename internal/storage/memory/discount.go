package memory

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/your-org/discount-cart/internal/domain/discount"
)

// DiscountLedger is an in-memory discount.Ledger. Codes are kept in creation
// order; the available pointer tracks the single code currently on offer.
type DiscountLedger struct {
	mu        sync.RWMutex
	codes     []discount.Code
	index     map[string]int
	available string
}

var _ discount.Ledger = (*DiscountLedger)(nil)

// NewDiscountLedger creates an empty ledger.
func NewDiscountLedger() *DiscountLedger {
	return &DiscountLedger{index: make(map[string]int)}
}

func (l *DiscountLedger) Append(_ context.Context, c *discount.Code) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.index[c.Code]; ok {
		return errors.Errorf("duplicate discount code %q", c.Code)
	}
	l.index[c.Code] = len(l.codes)
	l.codes = append(l.codes, *c)
	return nil
}

func (l *DiscountLedger) FindByCode(_ context.Context, code string) (*discount.Code, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[code]
	if !ok {
		return nil, discount.ErrNotFound
	}
	out := l.codes[i]
	return &out, nil
}

func (l *DiscountLedger) List(_ context.Context) ([]discount.Code, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]discount.Code(nil), l.codes...), nil
}

func (l *DiscountLedger) FirstUnused(_ context.Context) (*discount.Code, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.codes {
		if !l.codes[i].Used {
			out := l.codes[i]
			return &out, nil
		}
	}
	return nil, discount.ErrNotFound
}

// MarkUsed flips a code to used. Used codes never revert; marking an
// already-used code again is rejected.
func (l *DiscountLedger) MarkUsed(_ context.Context, code, orderID string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[code]
	if !ok {
		return discount.ErrNotFound
	}
	if l.codes[i].Used {
		return errors.Errorf("discount code %q already used", code)
	}
	l.codes[i].Used = true
	l.codes[i].UsedByOrder = orderID
	l.codes[i].UsedAt = &at
	return nil
}

func (l *DiscountLedger) AvailableCode(_ context.Context) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.available, nil
}

func (l *DiscountLedger) SetAvailableCode(_ context.Context, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.available = code
	return nil
}
