package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
)

var daysTimesHundred = decimal.NewFromInt(365 * 100)

// InterestPeriod is one sub-range of an interest computation, carrying its
// own day count and rate. A range that crosses the one-year boundary has two
// periods; otherwise one.
type InterestPeriod struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Days       int             `json:"days"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	Interest   decimal.Decimal `json:"interest"`
}

// InterestResult is the full breakdown of a pro-rata interest computation.
// The breakdown feeds ledger narration and projections.
type InterestResult struct {
	From            time.Time        `json:"from"`
	To              time.Time        `json:"to"`
	TotalDays       int              `json:"total_days"`
	Principal       decimal.Decimal  `json:"principal"`
	CrossesBoundary bool             `json:"crosses_boundary"`
	Periods         []InterestPeriod `json:"periods"`
	Total           decimal.Decimal  `json:"total"`
}

// Narration renders the breakdown as ledger narration text.
func (r InterestResult) Narration() string {
	if len(r.Periods) == 1 {
		p := r.Periods[0]
		return fmt.Sprintf("Interest @ %s%% for %d day(s)", p.AnnualRate.String(), p.Days)
	}
	s := ""
	for i, p := range r.Periods {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%d day(s) @ %s%%", p.Days, p.AnnualRate.String())
	}
	return "Interest " + s + " (crosses 1-year boundary)"
}

// ProRataInterestCalculator computes exact simple daily interest over
// [from, to), splitting at the one-year rate boundary when the range crosses
// it. It never looks up payment history: callers re-invoke per sub-range with
// an updated principal when a payment falls inside the range.
type ProRataInterestCalculator struct {
	rates *RateResolver
}

// NewProRataInterestCalculator wires the rate resolver.
func NewProRataInterestCalculator(rates *RateResolver) *ProRataInterestCalculator {
	return &ProRataInterestCalculator{rates: rates}
}

// Compute returns the interest owed on principal over [from, to). A zero or
// negative day count, or a zero principal, yields a zero result rather than
// an error. Each period's contribution is rounded to 2 places and the total
// is the sum of the rounded contributions, so splitting a range at the
// boundary is exactly additive.
func (c *ProRataInterestCalculator) Compute(
	loan model.Loan,
	principal decimal.Decimal,
	from, to time.Time,
) (InterestResult, error) {
	if !loan.IsDisbursed() {
		return InterestResult{}, model.ErrNotYetDisbursed
	}

	from = dateOnly(from)
	to = dateOnly(to)

	result := InterestResult{
		From:      from,
		To:        to,
		Principal: principal,
		Total:     decimal.Zero,
	}

	totalDays := daysBetween(from, to)
	if totalDays <= 0 || principal.IsZero() {
		return result, nil
	}
	result.TotalDays = totalDays

	ageAtStart := daysBetween(loan.DisbursementDate(), from)
	ageAtEnd := daysBetween(loan.DisbursementDate(), to)

	if ageAtStart <= boundaryDays && boundaryDays < ageAtEnd {
		result.CrossesBoundary = true
		boundary := c.rates.BoundaryDate(loan)

		baseRate, err := c.rates.RateOn(loan, from)
		if err != nil {
			return InterestResult{}, err
		}
		postRate, err := c.rates.RateOn(loan, boundary.AddDate(0, 0, 1))
		if err != nil {
			return InterestResult{}, err
		}

		result.Periods = appendPeriod(result.Periods, principal, baseRate, from, boundary)
		result.Periods = appendPeriod(result.Periods, principal, postRate, boundary, to)
	} else {
		rate, err := c.rates.RateOn(loan, from)
		if err != nil {
			return InterestResult{}, err
		}
		result.Periods = appendPeriod(result.Periods, principal, rate, from, to)
	}

	for _, p := range result.Periods {
		result.Total = result.Total.Add(p.Interest)
	}
	return result, nil
}

// appendPeriod adds a sub-period unless it spans zero days.
func appendPeriod(periods []InterestPeriod, principal, rate decimal.Decimal, from, to time.Time) []InterestPeriod {
	days := daysBetween(from, to)
	if days <= 0 {
		return periods
	}
	return append(periods, InterestPeriod{
		From:       from,
		To:         to,
		Days:       days,
		AnnualRate: rate,
		Interest:   dailyInterest(principal, rate, days),
	})
}

// dailyInterest computes principal × (rate / 365 / 100) × days, rounded to
// 2 places.
func dailyInterest(principal, annualRate decimal.Decimal, days int) decimal.Decimal {
	return principal.
		Mul(annualRate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(daysTimesHundred).
		Round(2)
}
