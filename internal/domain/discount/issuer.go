package discount

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// Issuer mints sequential prefix-numbered discount codes (PREFIX1, PREFIX2, …)
// and registers them as the currently available code.
type Issuer struct {
	ledger Ledger
	prefix string

	// mu keeps the count-and-append sequence collision-free.
	mu  sync.Mutex
	now func() time.Time
}

// NewIssuer creates an Issuer minting codes with the given prefix.
func NewIssuer(ledger Ledger, prefix string) *Issuer {
	return &Issuer{
		ledger: ledger,
		prefix: prefix,
		now:    time.Now,
	}
}

// Issue mints the next unique code, appends it to the ledger, and sets it as
// the available code. The numeric suffix starts at the existing-code count
// plus one and is bumped until unique, so manually seeded ledgers with gaps
// never produce a duplicate.
func (i *Issuer) Issue(ctx context.Context) (*Code, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	existing, err := i.ledger.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list codes")
	}

	taken := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		taken[c.Code] = struct{}{}
	}

	n := len(existing) + 1
	code := i.prefix + strconv.Itoa(n)
	for {
		if _, ok := taken[code]; !ok {
			break
		}
		n++
		code = i.prefix + strconv.Itoa(n)
	}

	c := &Code{Code: code, CreatedAt: i.now()}
	if err := i.ledger.Append(ctx, c); err != nil {
		return nil, errors.Wrap(err, "append code")
	}
	if err := i.ledger.SetAvailableCode(ctx, code); err != nil {
		return nil, errors.Wrap(err, "set available code")
	}
	return c, nil
}
