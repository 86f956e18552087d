package service

import (
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
)

// DefaultClassificationThresholdDays is the overdue-day count past which a
// loan becomes a candidate for default classification. The classification
// decision itself belongs to the servicing system.
const DefaultClassificationThresholdDays = 90

// penaltyTier is one row of the overdue tier table.
type penaltyTier struct {
	maxDays int // inclusive; 0 means unbounded
	label   string
	rate    decimal.Decimal // percent of overdue amount
}

// Tier table: 0 < days ≤ 30 → 2%, 30 < days ≤ 90 → 4%, days > 90 → 6%.
var penaltyTiers = []penaltyTier{
	{maxDays: 30, label: "0-30 days", rate: decimal.RequireFromString("2.0")},
	{maxDays: 90, label: "31-90 days", rate: decimal.RequireFromString("4.0")},
	{maxDays: 0, label: ">90 days", rate: decimal.RequireFromString("6.0")},
}

// PenaltyResult describes the tier applied to an overdue amount.
type PenaltyResult struct {
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
	OverdueDays      int             `json:"overdue_days"`
	Tier             string          `json:"tier"`
	Rate             decimal.Decimal `json:"rate"`
	Penalty          decimal.Decimal `json:"penalty"`
	DefaultCandidate bool            `json:"default_candidate"`
}

// PenaltyCalculator maps an overdue-day count to a tier and computes the
// penalty on the overdue amount.
type PenaltyCalculator struct {
	classificationThresholdDays int
}

// NewPenaltyCalculator creates a calculator. A non-positive threshold falls
// back to DefaultClassificationThresholdDays.
func NewPenaltyCalculator(classificationThresholdDays int) *PenaltyCalculator {
	if classificationThresholdDays <= 0 {
		classificationThresholdDays = DefaultClassificationThresholdDays
	}
	return &PenaltyCalculator{classificationThresholdDays: classificationThresholdDays}
}

// Compute returns the tiered penalty. Zero or negative overdue days yields a
// zero penalty with no tier.
func (c *PenaltyCalculator) Compute(overdueAmount decimal.Decimal, overdueDays int) (PenaltyResult, error) {
	if overdueAmount.IsNegative() {
		return PenaltyResult{}, model.ErrInsufficientAllocationInput
	}

	result := PenaltyResult{
		OverdueAmount: overdueAmount,
		OverdueDays:   overdueDays,
		Penalty:       decimal.Zero,
		Rate:          decimal.Zero,
	}
	if overdueDays <= 0 {
		return result, nil
	}

	tier := penaltyTiers[len(penaltyTiers)-1]
	for _, t := range penaltyTiers {
		if t.maxDays > 0 && overdueDays <= t.maxDays {
			tier = t
			break
		}
	}

	result.Tier = tier.label
	result.Rate = tier.rate
	result.Penalty = overdueAmount.Mul(tier.rate).Div(decimal.NewFromInt(100)).Round(2)
	result.DefaultCandidate = overdueDays > c.classificationThresholdDays
	return result, nil
}
