package valueobject

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan as tracked by the
// servicing system. The accrual engine only processes ACTIVE loans.
type LoanStatus struct {
	value string
}

const (
	loanStatusApproved    = "APPROVED"
	loanStatusActive      = "ACTIVE"
	loanStatusClosed      = "CLOSED"
	loanStatusDefaulted   = "DEFAULTED"
	loanStatusRescheduled = "RESCHEDULED"
)

var (
	LoanStatusApproved    = LoanStatus{value: loanStatusApproved}
	LoanStatusActive      = LoanStatus{value: loanStatusActive}
	LoanStatusClosed      = LoanStatus{value: loanStatusClosed}
	LoanStatusDefaulted   = LoanStatus{value: loanStatusDefaulted}
	LoanStatusRescheduled = LoanStatus{value: loanStatusRescheduled}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusApproved:    LoanStatusApproved,
	loanStatusActive:      LoanStatusActive,
	loanStatusClosed:      LoanStatusClosed,
	loanStatusDefaulted:   LoanStatusDefaulted,
	loanStatusRescheduled: LoanStatusRescheduled,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsAccruable reports whether daily interest should accrue for a loan in this
// status.
func (s LoanStatus) IsAccruable() bool {
	return s.value == loanStatusActive || s.value == loanStatusDefaulted
}
