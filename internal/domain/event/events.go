package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Ledger events
// ---------------------------------------------------------------------------

// InterestAccrued is raised when one day of interest is posted to a loan's
// ledger.
type InterestAccrued struct {
	events.BaseEvent
	LoanID      string          `json:"loan_id"`
	AccrualDate time.Time       `json:"accrual_date"`
	Amount      decimal.Decimal `json:"amount"`
	RateApplied decimal.Decimal `json:"rate_applied"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

func NewInterestAccrued(loanID string, accrualDate time.Time, amount, rate, newBalance decimal.Decimal) InterestAccrued {
	return InterestAccrued{
		BaseEvent:   events.NewBaseEvent("accrual.interest.accrued", loanID, "Loan"),
		LoanID:      loanID,
		AccrualDate: accrualDate,
		Amount:      amount,
		RateApplied: rate,
		NewBalance:  newBalance,
	}
}

// PaymentPosted is raised when a payment is allocated and posted to the
// ledger.
type PaymentPosted struct {
	events.BaseEvent
	LoanID        string          `json:"loan_id"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	PenaltyPaid   decimal.Decimal `json:"penalty_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}

func NewPaymentPosted(loanID, paymentID string, amount, penalty, interest, principal, newBalance decimal.Decimal) PaymentPosted {
	return PaymentPosted{
		BaseEvent:     events.NewBaseEvent("accrual.payment.posted", loanID, "Loan"),
		LoanID:        loanID,
		PaymentID:     paymentID,
		Amount:        amount,
		PenaltyPaid:   penalty,
		InterestPaid:  interest,
		PrincipalPaid: principal,
		NewBalance:    newBalance,
	}
}

// RateSwitched is raised when a loan crosses the one-year boundary and a
// RATE_CHANGE marker is posted.
type RateSwitched struct {
	events.BaseEvent
	LoanID   string          `json:"loan_id"`
	OldRate  decimal.Decimal `json:"old_rate"`
	NewRate  decimal.Decimal `json:"new_rate"`
	SwitchOn time.Time       `json:"switch_on"`
}

func NewRateSwitched(loanID string, oldRate, newRate decimal.Decimal, switchOn time.Time) RateSwitched {
	return RateSwitched{
		BaseEvent: events.NewBaseEvent("accrual.rate.switched", loanID, "Loan"),
		LoanID:    loanID,
		OldRate:   oldRate,
		NewRate:   newRate,
		SwitchOn:  switchOn,
	}
}

// ---------------------------------------------------------------------------
// Job events
// ---------------------------------------------------------------------------

// AccrualJobCompleted is raised when a daily accrual pass finishes.
type AccrualJobCompleted struct {
	events.BaseEvent
	JobID          string          `json:"job_id"`
	JobDate        time.Time       `json:"job_date"`
	LoansProcessed int             `json:"loans_processed"`
	TotalAccrued   decimal.Decimal `json:"total_accrued"`
	ErrorCount     int             `json:"error_count"`
}

func NewAccrualJobCompleted(jobID string, jobDate time.Time, loansProcessed int, totalAccrued decimal.Decimal, errorCount int) AccrualJobCompleted {
	return AccrualJobCompleted{
		BaseEvent:      events.NewBaseEvent("accrual.job.completed", jobID, "AccrualJob"),
		JobID:          jobID,
		JobDate:        jobDate,
		LoansProcessed: loansProcessed,
		TotalAccrued:   totalAccrued,
		ErrorCount:     errorCount,
	}
}

// AccrualJobFailed is raised when a daily accrual pass aborts fatally.
type AccrualJobFailed struct {
	events.BaseEvent
	JobID   string    `json:"job_id"`
	JobDate time.Time `json:"job_date"`
	Detail  string    `json:"detail"`
}

func NewAccrualJobFailed(jobID string, jobDate time.Time, detail string) AccrualJobFailed {
	return AccrualJobFailed{
		BaseEvent: events.NewBaseEvent("accrual.job.failed", jobID, "AccrualJob"),
		JobID:     jobID,
		JobDate:   jobDate,
		Detail:    detail,
	}
}
