package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one row of an amortization schedule.
type Installment struct {
	Number             int             `json:"installment_number"`
	DueDate            time.Time       `json:"due_date"`
	EMI                decimal.Decimal `json:"emi_amount"`
	PrincipalComponent decimal.Decimal `json:"principal_component"`
	InterestComponent  decimal.Decimal `json:"interest_component"`
	OutstandingAfter   decimal.Decimal `json:"outstanding_balance"`
}

// EMICalculator computes level installments under the reducing-balance
// method. Stateless; all methods are pure.
type EMICalculator struct{}

// NewEMICalculator creates an EMICalculator.
func NewEMICalculator() *EMICalculator {
	return &EMICalculator{}
}

// MonthlyPayment computes the level installment:
//
//	emi = P × r × (1+r)^n / ((1+r)^n − 1), r = annualRate/12/100
//
// A zero rate degrades to an even split. The power term uses float64 and the
// result switches back to decimal, as monetary arithmetic elsewhere does.
func (c *EMICalculator) MonthlyPayment(principal, annualRate decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths <= 0 {
		return decimal.Decimal{}, errors.New("tenure months must be positive")
	}
	if principal.IsNegative() {
		return decimal.Decimal{}, errors.New("principal must not be negative")
	}

	monthlyRate := annualRate.InexactFloat64() / 12.0 / 100.0
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2), nil
	}

	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	payment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2), nil
}

// Schedule produces the full amortization table. The final installment's
// principal component absorbs rounding so that the principal components sum
// exactly to the original principal and the closing balance is exactly zero.
func (c *EMICalculator) Schedule(
	principal, annualRate decimal.Decimal,
	tenureMonths int,
	startDate time.Time,
) ([]Installment, error) {
	emi, err := c.MonthlyPayment(principal, annualRate, tenureMonths)
	if err != nil {
		return nil, err
	}

	monthlyRate := annualRate.Div(decimal.NewFromInt(1200))
	schedule := make([]Installment, 0, tenureMonths)
	outstanding := principal

	for number := 1; number <= tenureMonths; number++ {
		interest := outstanding.Mul(monthlyRate).Round(2)
		principalPart := emi.Sub(interest)
		total := emi

		// Last installment: clear the balance exactly and recompute the total.
		if number == tenureMonths {
			principalPart = outstanding
			total = principalPart.Add(interest)
		}

		outstanding = outstanding.Sub(principalPart)

		schedule = append(schedule, Installment{
			Number:             number,
			DueDate:            startDate.AddDate(0, number, 0),
			EMI:                total,
			PrincipalComponent: principalPart,
			InterestComponent:  interest,
			OutstandingAfter:   outstanding,
		})
	}

	return schedule, nil
}

// SolveTenure returns the minimum whole number of months that amortizes the
// principal at the given rate with the given installment:
//
//	n = log(emi / (emi − P×r)) / log(1 + r), rounded up
//
// Used by prepayment and rescheduling simulations.
func (c *EMICalculator) SolveTenure(principal, annualRate, emi decimal.Decimal) (int, error) {
	if !emi.IsPositive() {
		return 0, errors.New("emi must be positive")
	}

	monthlyRate := annualRate.InexactFloat64() / 12.0 / 100.0
	if monthlyRate == 0 {
		return int(math.Ceil(principal.InexactFloat64() / emi.InexactFloat64())), nil
	}

	monthlyInterest := principal.InexactFloat64() * monthlyRate
	if emi.InexactFloat64() <= monthlyInterest {
		return 0, fmt.Errorf("emi %s does not cover monthly interest", emi.StringFixed(2))
	}

	n := math.Log(emi.InexactFloat64()/(emi.InexactFloat64()-monthlyInterest)) / math.Log(1+monthlyRate)
	return int(math.Ceil(n)), nil
}
