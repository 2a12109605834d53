package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a discount code does not exist in the ledger.
var ErrNotFound = errors.New("discount code not found")

// Code is a discount code record. Once Used becomes true it never reverts;
// UsedByOrder and UsedAt are set together with Used.
type Code struct {
	Code        string
	Used        bool
	UsedByOrder string
	CreatedAt   time.Time
	UsedAt      *time.Time
}

// Ledger stores discount codes in creation order and tracks the single code
// currently offered system-wide. At most one code is available at a time;
// this is a global pointer, not a per-user concept.
type Ledger interface {
	Append(ctx context.Context, c *Code) error
	FindByCode(ctx context.Context, code string) (*Code, error)
	List(ctx context.Context) ([]Code, error)
	// FirstUnused returns the earliest-created unused code, or ErrNotFound.
	FirstUnused(ctx context.Context) (*Code, error)
	// MarkUsed marks a code as redeemed by the given order.
	MarkUsed(ctx context.Context, code, orderID string, at time.Time) error
	// AvailableCode returns the currently offered code, or "" when none.
	AvailableCode(ctx context.Context) (string, error)
	// SetAvailableCode replaces the offered code; "" clears it.
	SetAvailableCode(ctx context.Context, code string) error
}

var hundred = decimal.NewFromInt(100)

// Percentage returns percent% of subtotal, rounded to 2 decimal places.
func Percentage(subtotal decimal.Decimal, percent int) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)
}
