package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// boundaryDays is the loan age, in days, at which the product's post-year
// rate takes over from the base rate.
const boundaryDays = 365

// RateTable maps a loan product to the annual rate that applies once the loan
// is older than one year. The table is configuration: new products are
// additive, no code change required.
type RateTable map[valueobject.LoanProduct]decimal.Decimal

// DefaultRateTable returns the cooperative's standard post-year rates.
func DefaultRateTable() RateTable {
	return RateTable{
		valueobject.ProductSAO:          decimal.RequireFromString("13.75"),
		valueobject.ProductRythuBandhu:  decimal.RequireFromString("14.50"),
		valueobject.ProductRythuNethany: decimal.RequireFromString("14.50"),
		valueobject.ProductLongTermEMI:  decimal.RequireFromString("12.75"),
		valueobject.ProductAmulDairy:    decimal.RequireFromString("14.00"),
	}
}

// defaultPostYearSpread is added to the base rate for products missing from
// the table.
var defaultPostYearSpread = decimal.RequireFromString("2.00")

// RateResolver answers "which annual rate is in force for this loan on this
// date". Pure lookup, no side effects.
type RateResolver struct {
	postYear RateTable
}

// NewRateResolver creates a resolver over the given post-year rate table.
// A nil table falls back to DefaultRateTable.
func NewRateResolver(table RateTable) *RateResolver {
	if table == nil {
		table = DefaultRateTable()
	}
	return &RateResolver{postYear: table}
}

// RateOn returns the annual rate applicable to the loan on the target date.
// Within the first 365 days of disbursement the base rate applies; after that
// the product's post-year rate, or base + 2.00 for unknown products.
func (r *RateResolver) RateOn(loan model.Loan, target time.Time) (decimal.Decimal, error) {
	if !loan.IsDisbursed() {
		return decimal.Decimal{}, model.ErrNotYetDisbursed
	}

	if daysBetween(loan.DisbursementDate(), target) <= boundaryDays {
		return loan.AnnualRate(), nil
	}
	return r.PostYearRate(loan), nil
}

// PostYearRate returns the rate the loan switches to after the one-year
// boundary.
func (r *RateResolver) PostYearRate(loan model.Loan) decimal.Decimal {
	if rate, ok := r.postYear[loan.Product()]; ok {
		return rate
	}
	return loan.AnnualRate().Add(defaultPostYearSpread)
}

// BoundaryDate returns the calendar date on which the loan completes 365 days
// from disbursement.
func (r *RateResolver) BoundaryDate(loan model.Loan) time.Time {
	return dateOnly(loan.DisbursementDate()).AddDate(0, 0, boundaryDays)
}

// dateOnly truncates a timestamp to a UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}
