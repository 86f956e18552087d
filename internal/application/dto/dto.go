package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ComputeInterestRequest asks for pro-rata interest on a loan's outstanding
// principal over [From, To).
type ComputeInterestRequest struct {
	LoanID string    `json:"loan_id"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// GenerateScheduleRequest asks for a loan's full amortization schedule.
type GenerateScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// SimulatePrepaymentRequest asks what a lump-sum prepayment does to a loan.
// Mode selects what stays fixed: "reduce_tenure" keeps the installment and
// shortens the term, "reduce_emi" keeps the term and lowers the installment.
type SimulatePrepaymentRequest struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode"`
}

// ComputePenaltyRequest asks for the tiered penalty on an overdue amount.
type ComputePenaltyRequest struct {
	LoanID        string          `json:"loan_id"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	DueDate       time.Time       `json:"due_date"`
	AsOf          time.Time       `json:"as_of"`
}

// ProjectDuesRequest asks for a loan's total payable as of a future date.
type ProjectDuesRequest struct {
	LoanID string    `json:"loan_id"`
	AsOf   time.Time `json:"as_of"`
}

// AllocatePaymentRequest posts a repayment against a loan.
type AllocatePaymentRequest struct {
	LoanID      string          `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Actor       string          `json:"actor,omitempty"`
}

// RunAccrualRequest triggers the daily accrual pass for one calendar date.
type RunAccrualRequest struct {
	JobDate     time.Time `json:"job_date"`
	TriggeredBy string    `json:"triggered_by,omitempty"`
}

// GetLedgerRequest asks for a loan's journal over an optional date range.
// Zero From/To mean an unbounded range end.
type GetLedgerRequest struct {
	LoanID string    `json:"loan_id"`
	From   time.Time `json:"from,omitempty"`
	To     time.Time `json:"to,omitempty"`
}

// PortfolioSnapshotRequest asks for portfolio-wide dues as of a date.
type PortfolioSnapshotRequest struct {
	AsOf time.Time `json:"as_of"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InterestPeriodResponse is one rate sub-period of an interest breakdown.
type InterestPeriodResponse struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Days       int             `json:"days"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	Interest   decimal.Decimal `json:"interest"`
}

// InterestResponse is the full breakdown of an interest computation.
type InterestResponse struct {
	LoanID          string                   `json:"loan_id"`
	From            time.Time                `json:"from"`
	To              time.Time                `json:"to"`
	TotalDays       int                      `json:"total_days"`
	Principal       decimal.Decimal          `json:"principal"`
	CrossesBoundary bool                     `json:"crosses_boundary"`
	Periods         []InterestPeriodResponse `json:"periods"`
	Total           decimal.Decimal          `json:"total"`
	Narration       string                   `json:"narration"`
	FromCache       bool                     `json:"from_cache"`
}

// InstallmentResponse is one row of an amortization schedule.
type InstallmentResponse struct {
	Number             int             `json:"installment_number"`
	DueDate            time.Time       `json:"due_date"`
	EMI                decimal.Decimal `json:"emi_amount"`
	PrincipalComponent decimal.Decimal `json:"principal_component"`
	InterestComponent  decimal.Decimal `json:"interest_component"`
	OutstandingAfter   decimal.Decimal `json:"outstanding_balance"`
}

// ScheduleResponse is a loan's full amortization schedule.
type ScheduleResponse struct {
	LoanID       string                `json:"loan_id"`
	EMI          decimal.Decimal       `json:"emi_amount"`
	TenureMonths int                   `json:"tenure_months"`
	Installments []InstallmentResponse `json:"installments"`
}

// PrepaymentSimulationResponse describes the effect of a lump-sum prepayment.
type PrepaymentSimulationResponse struct {
	LoanID               string          `json:"loan_id"`
	Mode                 string          `json:"mode"`
	PrincipalAfter       decimal.Decimal `json:"principal_after"`
	EMI                  decimal.Decimal `json:"emi_amount"`
	RemainingTenure      int             `json:"remaining_tenure_months"`
	TenureMonthsSaved    int             `json:"tenure_months_saved,omitempty"`
	InstallmentReduction decimal.Decimal `json:"installment_reduction,omitempty"`
}

// PenaltyResponse is the tiered penalty on an overdue amount.
type PenaltyResponse struct {
	LoanID           string          `json:"loan_id"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
	OverdueDays      int             `json:"overdue_days"`
	Tier             string          `json:"tier,omitempty"`
	Rate             decimal.Decimal `json:"rate"`
	Penalty          decimal.Decimal `json:"penalty"`
	DefaultCandidate bool            `json:"default_candidate"`
}

// DuesProjectionResponse is a loan's total payable as of a date.
type DuesProjectionResponse struct {
	LoanID               string          `json:"loan_id"`
	AsOf                 time.Time       `json:"as_of"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	OutstandingInterest  decimal.Decimal `json:"outstanding_interest"`
	OutstandingPenalty   decimal.Decimal `json:"outstanding_penalty"`
	ProjectedInterest    decimal.Decimal `json:"projected_interest"`
	CrossesBoundary      bool            `json:"crosses_boundary"`
	TotalPayable         decimal.Decimal `json:"total_payable"`
}

// AllocationResponse is the waterfall breakdown of a posted payment.
type AllocationResponse struct {
	LoanID        string          `json:"loan_id"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	PenaltyPaid   decimal.Decimal `json:"penalty_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}

// AccrualRunResponse summarizes one daily accrual pass.
type AccrualRunResponse struct {
	JobID            string          `json:"job_id"`
	JobDate          time.Time       `json:"job_date"`
	Status           string          `json:"status"`
	LoansProcessed   int             `json:"loans_processed"`
	TotalAccrued     decimal.Decimal `json:"total_accrued"`
	ErrorCount       int             `json:"error_count"`
	AlreadyCompleted bool            `json:"already_completed"`
}

// LedgerEntryResponse is one journal row.
type LedgerEntryResponse struct {
	ID              string           `json:"id"`
	LoanID          string           `json:"loan_id"`
	TransactionDate time.Time        `json:"transaction_date"`
	Kind            string           `json:"kind"`
	Debit           decimal.Decimal  `json:"debit"`
	Credit          decimal.Decimal  `json:"credit"`
	Balance         decimal.Decimal  `json:"balance"`
	RateApplied     *decimal.Decimal `json:"rate_applied,omitempty"`
	DaysCounted     *int             `json:"days_counted,omitempty"`
	Narration       string           `json:"narration,omitempty"`
	Actor           string           `json:"actor"`
	CreatedAt       time.Time        `json:"created_at"`
}

// LedgerResponse is a loan's journal with the chain verification verdict.
type LedgerResponse struct {
	LoanID  string                `json:"loan_id"`
	Entries []LedgerEntryResponse `json:"entries"`
}

// PortfolioLoanDues is one loan's row in a portfolio snapshot.
type PortfolioLoanDues struct {
	LoanID            string          `json:"loan_id"`
	LoanNumber        string          `json:"loan_number"`
	Product           string          `json:"product"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	ProjectedInterest decimal.Decimal `json:"projected_interest"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
}

// PortfolioSnapshotResponse aggregates dues across the accruable portfolio.
type PortfolioSnapshotResponse struct {
	AsOf              time.Time           `json:"as_of"`
	LoanCount         int                 `json:"loan_count"`
	TotalOutstanding  decimal.Decimal     `json:"total_outstanding"`
	ProjectedInterest decimal.Decimal     `json:"projected_interest"`
	TotalPayable      decimal.Decimal     `json:"total_payable"`
	Loans             []PortfolioLoanDues `json:"loans"`
}
