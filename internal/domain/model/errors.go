package model

import "errors"

// Engine-level error kinds. Repositories and services wrap these with context;
// callers classify with errors.Is.
var (
	// ErrLoanNotFound is returned when a loan id resolves to nothing.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrNotYetDisbursed is returned when interest is requested for a loan
	// that has no disbursement date.
	ErrNotYetDisbursed = errors.New("loan not yet disbursed")

	// ErrInvalidDateRange is returned when a date range has to before from.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInsufficientAllocationInput is returned when a payment amount or an
	// outstanding snapshot bucket is negative.
	ErrInsufficientAllocationInput = errors.New("insufficient allocation input")

	// ErrOverpaymentRejected is returned when a payment exceeds the loan's
	// total outstanding. The allocator never invents money; the surrounding
	// system decides what to do with the excess.
	ErrOverpaymentRejected = errors.New("payment exceeds total outstanding")

	// ErrDuplicateJobDate is returned when creating a job row for a date that
	// already has one. The storage layer raises it from its uniqueness
	// constraint so concurrent triggers are arbitrated, not merged.
	ErrDuplicateJobDate = errors.New("accrual job already exists for this date")
)
