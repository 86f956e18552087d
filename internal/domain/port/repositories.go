package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/event"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository reads loan snapshots and writes back the denormalized
// outstanding buckets. The servicing system owns everything else on the row.
type LoanRepository interface {
	FindByID(ctx context.Context, id string) (model.Loan, error)
	ListAccruable(ctx context.Context) ([]model.Loan, error)
	UpdateOutstanding(ctx context.Context, loan model.Loan) error
}

// PaymentRepository persists payments with their allocation breakdown and
// exposes the history stats used for cache fingerprints.
type PaymentRepository interface {
	Save(ctx context.Context, p model.Payment) error
	ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error)
	// HistoryStats returns the payment count and latest payment date for a
	// loan; the zero time means no payments.
	HistoryStats(ctx context.Context, loanID string) (int, time.Time, error)
}

// LedgerRepository is the append-only journal. Append must be atomic per
// loan: it takes a per-loan lock, reads the latest balance (seeding from the
// loan's disbursed principal when the journal is empty), stamps the entry and
// inserts it. Any caller-supplied balance is ignored.
type LedgerRepository interface {
	Append(ctx context.Context, draft model.EntryDraft) (model.LedgerEntry, error)
	// LatestBalance returns the balance of the most recent entry strictly
	// before asOf, or the loan's disbursed principal if there is none.
	LatestBalance(ctx context.Context, loanID string, asOf time.Time) (decimal.Decimal, error)
	// EntriesFor returns a loan's entries in (transaction date, created at)
	// order. Zero from/to mean an unbounded range end.
	EntriesFor(ctx context.Context, loanID string, from, to time.Time) ([]model.LedgerEntry, error)
	// ExistsForDate reports whether an entry of the given kind already exists
	// for (loan, date). Backs the batch job's idempotent resume.
	ExistsForDate(ctx context.Context, loanID string, date time.Time, kind valueobject.EntryKind) (bool, error)
}

// AccrualJobRepository persists batch job rows keyed by calendar date. The
// storage layer must enforce job-date uniqueness so concurrent triggers for
// the same date collapse to one row.
type AccrualJobRepository interface {
	FindByDate(ctx context.Context, jobDate time.Time) (model.AccrualJob, bool, error)
	// Create inserts a new job row. When a row for the date already exists it
	// returns model.ErrDuplicateJobDate; exactly one of two racing triggers
	// gets past this call.
	Create(ctx context.Context, job model.AccrualJob) error
	// Update writes back the state of an existing job row.
	Update(ctx context.Context, job model.AccrualJob) error
}

// ---------------------------------------------------------------------------
// Calculation cache port
// ---------------------------------------------------------------------------

// CacheKey identifies a memoized derived result.
type CacheKey struct {
	LoanID string
	AsOf   time.Time
	Kind   string
}

// Cache memoizes expensive derived results. It is best-effort: the engine
// must remain correct with the cache entirely disabled. A stored value is
// only returned when the caller's fingerprint matches the stored one.
type Cache interface {
	Get(ctx context.Context, key CacheKey, fingerprint string) ([]byte, bool, error)
	Put(ctx context.Context, key CacheKey, fingerprint string, value []byte, ttl time.Duration) error
	// Invalidate drops every cached result for a loan. Called on any ledger
	// append for that loan.
	Invalidate(ctx context.Context, loanID string) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
