// Package admin provides the manual discount-generation trigger and
// aggregate store statistics.
package admin

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/your-org/discount-cart/internal/domain/discount"
	"github.com/your-org/discount-cart/internal/domain/order"
)

// GenerateResult reports the outcome of a manual discount-generation attempt.
// Ineligibility is not an error: the zero-Generated outcomes carry enough
// detail for the caller to report when a code will next be available.
type GenerateResult struct {
	Generated         bool
	Message           string
	Code              string
	CurrentOrderCount int
	NextDiscountAt    int
	// OrdersRemaining is set only when the milestone has not been reached.
	OrdersRemaining int
}

// Statistics aggregates the order log and discount ledger.
type Statistics struct {
	TotalItemsPurchased int
	TotalPurchaseAmount decimal.Decimal
	TotalDiscountAmount decimal.Decimal
	Codes               []discount.Code
}

// Service implements the admin operations.
type Service struct {
	orders   order.Log
	ledger   discount.Ledger
	issuer   *discount.Issuer
	nthOrder int
}

// NewService creates an admin Service.
func NewService(orders order.Log, ledger discount.Ledger, issuer *discount.Issuer, nthOrder int) *Service {
	return &Service{
		orders:   orders,
		ledger:   ledger,
		issuer:   issuer,
		nthOrder: nthOrder,
	}
}

// GenerateDiscount mints a discount code when the order count sits exactly on
// a milestone boundary and no unused code is outstanding. Unlike the
// automatic mint during checkout, which always issues at the boundary, the
// manual path refuses to stack a second unused code.
func (s *Service) GenerateDiscount(ctx context.Context) (*GenerateResult, error) {
	count, err := s.orders.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}

	if count%s.nthOrder != 0 {
		remaining := s.nthOrder - count%s.nthOrder
		return &GenerateResult{
			Message:           "discount code cannot be generated yet",
			CurrentOrderCount: count,
			NextDiscountAt:    (count/s.nthOrder + 1) * s.nthOrder,
			OrdersRemaining:   remaining,
		}, nil
	}

	unused, err := s.ledger.FirstUnused(ctx)
	switch {
	case err == nil:
		return &GenerateResult{
			Message:           fmt.Sprintf("unused discount code %q already exists", unused.Code),
			Code:              unused.Code,
			CurrentOrderCount: count,
			NextDiscountAt:    count + s.nthOrder,
		}, nil
	case !errors.Is(err, discount.ErrNotFound):
		return nil, errors.Wrap(err, "find unused code")
	}

	minted, err := s.issuer.Issue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "issue code")
	}

	return &GenerateResult{
		Generated:         true,
		Message:           "discount code generated successfully",
		Code:              minted.Code,
		CurrentOrderCount: count,
		NextDiscountAt:    count + s.nthOrder,
	}, nil
}

// Statistics aggregates all completed orders and the full ledger. It is a
// pure read; nothing is mutated.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	stats := &Statistics{
		TotalPurchaseAmount: decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
	}
	for _, o := range all {
		for _, line := range o.Lines {
			stats.TotalItemsPurchased += line.Quantity
		}
		stats.TotalPurchaseAmount = stats.TotalPurchaseAmount.Add(o.Total)
		stats.TotalDiscountAmount = stats.TotalDiscountAmount.Add(o.DiscountAmount)
	}
	stats.TotalPurchaseAmount = stats.TotalPurchaseAmount.Round(2)
	stats.TotalDiscountAmount = stats.TotalDiscountAmount.Round(2)

	codes, err := s.ledger.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list codes")
	}
	stats.Codes = codes

	return stats, nil
}
