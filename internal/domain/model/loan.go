package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan snapshot (owned by the servicing system)
// ---------------------------------------------------------------------------

// Loan is the engine's view of a loan. The servicing system owns the record;
// the engine reads the terms and writes back only the denormalized outstanding
// buckets. Mutations return a new copy.
type Loan struct {
	id                   string
	loanNumber           string
	product              valueobject.LoanProduct
	principal            decimal.Decimal
	annualRate           decimal.Decimal
	disbursementDate     time.Time
	tenureMonths         int
	status               valueobject.LoanStatus
	outstandingPrincipal decimal.Decimal
	outstandingInterest  decimal.Decimal
	outstandingPenalty   decimal.Decimal
}

// ReconstructLoan rebuilds a Loan snapshot from persistence.
func ReconstructLoan(
	id, loanNumber string,
	product valueobject.LoanProduct,
	principal, annualRate decimal.Decimal,
	disbursementDate time.Time,
	tenureMonths int,
	status valueobject.LoanStatus,
	outstandingPrincipal, outstandingInterest, outstandingPenalty decimal.Decimal,
) Loan {
	return Loan{
		id:                   id,
		loanNumber:           loanNumber,
		product:              product,
		principal:            principal,
		annualRate:           annualRate,
		disbursementDate:     disbursementDate,
		tenureMonths:         tenureMonths,
		status:               status,
		outstandingPrincipal: outstandingPrincipal,
		outstandingInterest:  outstandingInterest,
		outstandingPenalty:   outstandingPenalty,
	}
}

// IsDisbursed reports whether the loan has a disbursement date.
func (l Loan) IsDisbursed() bool { return !l.disbursementDate.IsZero() }

// TotalOutstanding returns the sum of the three outstanding buckets.
func (l Loan) TotalOutstanding() decimal.Decimal {
	return l.outstandingPrincipal.Add(l.outstandingInterest).Add(l.outstandingPenalty)
}

// AccrueInterest adds accrued interest to the outstanding interest bucket.
func (l Loan) AccrueInterest(amount decimal.Decimal) (Loan, error) {
	if amount.IsNegative() {
		return l, errors.New("accrued interest must not be negative")
	}
	next := l
	next.outstandingInterest = l.outstandingInterest.Add(amount)
	return next, nil
}

// ApplyAllocation reduces the outstanding buckets by an allocation breakdown.
// Each bucket must have been capped by the allocator; going negative is a
// programming error and is rejected.
func (l Loan) ApplyAllocation(penalty, interest, principal decimal.Decimal) (Loan, error) {
	if penalty.IsNegative() || interest.IsNegative() || principal.IsNegative() {
		return l, ErrInsufficientAllocationInput
	}
	if penalty.GreaterThan(l.outstandingPenalty) ||
		interest.GreaterThan(l.outstandingInterest) ||
		principal.GreaterThan(l.outstandingPrincipal) {
		return l, errors.New("allocation exceeds outstanding bucket")
	}
	next := l
	next.outstandingPenalty = l.outstandingPenalty.Sub(penalty)
	next.outstandingInterest = l.outstandingInterest.Sub(interest)
	next.outstandingPrincipal = l.outstandingPrincipal.Sub(principal)
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                            { return l.id }
func (l Loan) LoanNumber() string                    { return l.loanNumber }
func (l Loan) Product() valueobject.LoanProduct      { return l.product }
func (l Loan) Principal() decimal.Decimal            { return l.principal }
func (l Loan) AnnualRate() decimal.Decimal           { return l.annualRate }
func (l Loan) DisbursementDate() time.Time           { return l.disbursementDate }
func (l Loan) TenureMonths() int                     { return l.tenureMonths }
func (l Loan) Status() valueobject.LoanStatus        { return l.status }
func (l Loan) OutstandingPrincipal() decimal.Decimal { return l.outstandingPrincipal }
func (l Loan) OutstandingInterest() decimal.Decimal  { return l.outstandingInterest }
func (l Loan) OutstandingPenalty() decimal.Decimal   { return l.outstandingPenalty }
