package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment (owned by the servicing system)
// ---------------------------------------------------------------------------

// Payment is an incoming repayment. The servicing system records the payment;
// the allocator writes back the waterfall breakdown.
type Payment struct {
	id            string
	loanID        string
	amount        decimal.Decimal
	paymentDate   time.Time
	penaltyPaid   decimal.Decimal
	interestPaid  decimal.Decimal
	principalPaid decimal.Decimal
	createdAt     time.Time
}

// NewPayment creates a payment with its allocation breakdown. The breakdown
// must sum to the amount actually applied to the loan.
func NewPayment(
	loanID string,
	amount decimal.Decimal,
	paymentDate time.Time,
	penaltyPaid, interestPaid, principalPaid decimal.Decimal,
	now time.Time,
) (Payment, error) {
	if loanID == "" {
		return Payment{}, errors.New("loan id is required")
	}
	if amount.IsNegative() {
		return Payment{}, ErrInsufficientAllocationInput
	}
	applied := penaltyPaid.Add(interestPaid).Add(principalPaid)
	if !applied.Equal(amount) {
		return Payment{}, errors.New("allocation breakdown does not sum to payment amount")
	}
	return Payment{
		id:            uuid.New().String(),
		loanID:        loanID,
		amount:        amount,
		paymentDate:   paymentDate,
		penaltyPaid:   penaltyPaid,
		interestPaid:  interestPaid,
		principalPaid: principalPaid,
		createdAt:     now,
	}, nil
}

// ReconstructPayment rebuilds a payment from persistence.
func ReconstructPayment(
	id, loanID string,
	amount decimal.Decimal,
	paymentDate time.Time,
	penaltyPaid, interestPaid, principalPaid decimal.Decimal,
	createdAt time.Time,
) Payment {
	return Payment{
		id:            id,
		loanID:        loanID,
		amount:        amount,
		paymentDate:   paymentDate,
		penaltyPaid:   penaltyPaid,
		interestPaid:  interestPaid,
		principalPaid: principalPaid,
		createdAt:     createdAt,
	}
}

func (p Payment) ID() string                     { return p.id }
func (p Payment) LoanID() string                 { return p.loanID }
func (p Payment) Amount() decimal.Decimal        { return p.amount }
func (p Payment) PaymentDate() time.Time         { return p.paymentDate }
func (p Payment) PenaltyPaid() decimal.Decimal   { return p.penaltyPaid }
func (p Payment) InterestPaid() decimal.Decimal  { return p.interestPaid }
func (p Payment) PrincipalPaid() decimal.Decimal { return p.principalPaid }
func (p Payment) CreatedAt() time.Time           { return p.createdAt }
