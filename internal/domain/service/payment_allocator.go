package service

import (
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
)

// OutstandingSnapshot is a loan's outstanding buckets at allocation time.
type OutstandingSnapshot struct {
	Penalty   decimal.Decimal `json:"penalty"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
}

// Total returns the sum of the buckets.
func (s OutstandingSnapshot) Total() decimal.Decimal {
	return s.Penalty.Add(s.Interest).Add(s.Principal)
}

// Allocation is a payment split across the waterfall buckets.
type Allocation struct {
	PenaltyPaid   decimal.Decimal `json:"penalty_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
}

// Total returns the amount actually applied to the loan.
func (a Allocation) Total() decimal.Decimal {
	return a.PenaltyPaid.Add(a.InterestPaid).Add(a.PrincipalPaid)
}

// PaymentAllocator splits a payment across penalty, interest and principal
// using a strict priority waterfall: penalty first, then interest, then
// principal.
type PaymentAllocator struct{}

// NewPaymentAllocator creates a PaymentAllocator.
func NewPaymentAllocator() *PaymentAllocator {
	return &PaymentAllocator{}
}

// Allocate splits amount over the snapshot. Each bucket is capped at its
// outstanding value and the three allocations sum exactly to the amount.
// A payment exceeding the total outstanding is rejected: the allocator never
// invents money.
func (a *PaymentAllocator) Allocate(amount decimal.Decimal, snapshot OutstandingSnapshot) (Allocation, error) {
	if amount.IsNegative() ||
		snapshot.Penalty.IsNegative() ||
		snapshot.Interest.IsNegative() ||
		snapshot.Principal.IsNegative() {
		return Allocation{}, model.ErrInsufficientAllocationInput
	}
	if amount.GreaterThan(snapshot.Total()) {
		return Allocation{}, model.ErrOverpaymentRejected
	}

	remaining := amount

	penaltyPaid := decimal.Min(remaining, snapshot.Penalty)
	remaining = remaining.Sub(penaltyPaid)

	interestPaid := decimal.Min(remaining, snapshot.Interest)
	remaining = remaining.Sub(interestPaid)

	principalPaid := decimal.Min(remaining, snapshot.Principal)

	return Allocation{
		PenaltyPaid:   penaltyPaid,
		InterestPaid:  interestPaid,
		PrincipalPaid: principalPaid,
	}, nil
}
