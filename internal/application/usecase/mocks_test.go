package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/event"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan repository mock
// ---------------------------------------------------------------------------

type mockLoanRepository struct {
	mu sync.Mutex

	findByIDFunc          func(ctx context.Context, id string) (model.Loan, error)
	listAccruableFunc     func(ctx context.Context) ([]model.Loan, error)
	updateOutstandingFunc func(ctx context.Context, loan model.Loan) error

	updatedLoans []model.Loan
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, model.ErrLoanNotFound
}

func (m *mockLoanRepository) ListAccruable(ctx context.Context) ([]model.Loan, error) {
	if m.listAccruableFunc != nil {
		return m.listAccruableFunc(ctx)
	}
	return nil, nil
}

func (m *mockLoanRepository) UpdateOutstanding(ctx context.Context, loan model.Loan) error {
	m.mu.Lock()
	m.updatedLoans = append(m.updatedLoans, loan)
	m.mu.Unlock()
	if m.updateOutstandingFunc != nil {
		return m.updateOutstandingFunc(ctx, loan)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Payment repository mock
// ---------------------------------------------------------------------------

type mockPaymentRepository struct {
	saveFunc         func(ctx context.Context, p model.Payment) error
	listByLoanFunc   func(ctx context.Context, loanID string) ([]model.Payment, error)
	historyStatsFunc func(ctx context.Context, loanID string) (int, time.Time, error)

	savedPayments []model.Payment
}

func (m *mockPaymentRepository) Save(ctx context.Context, p model.Payment) error {
	m.savedPayments = append(m.savedPayments, p)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error) {
	if m.listByLoanFunc != nil {
		return m.listByLoanFunc(ctx, loanID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) HistoryStats(ctx context.Context, loanID string) (int, time.Time, error) {
	if m.historyStatsFunc != nil {
		return m.historyStatsFunc(ctx, loanID)
	}
	return 0, time.Time{}, nil
}

// ---------------------------------------------------------------------------
// Ledger repository mock
// ---------------------------------------------------------------------------

type mockLedgerRepository struct {
	mu sync.Mutex

	appendFunc        func(ctx context.Context, draft model.EntryDraft) (model.LedgerEntry, error)
	latestBalanceFunc func(ctx context.Context, loanID string, asOf time.Time) (decimal.Decimal, error)
	entriesForFunc    func(ctx context.Context, loanID string, from, to time.Time) ([]model.LedgerEntry, error)
	existsForDateFunc func(ctx context.Context, loanID string, date time.Time, kind valueobject.EntryKind) (bool, error)

	seed            decimal.Decimal
	appendedDrafts  []model.EntryDraft
	appendedEntries []model.LedgerEntry
}

func (m *mockLedgerRepository) Append(ctx context.Context, draft model.EntryDraft) (model.LedgerEntry, error) {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.seed
	if n := len(m.appendedEntries); n > 0 {
		balance = m.appendedEntries[n-1].Balance()
	}
	entry, err := model.NewLedgerEntry(draft, balance, time.Now().UTC())
	if err != nil {
		return model.LedgerEntry{}, err
	}
	m.appendedDrafts = append(m.appendedDrafts, draft)
	m.appendedEntries = append(m.appendedEntries, entry)
	return entry, nil
}

func (m *mockLedgerRepository) LatestBalance(ctx context.Context, loanID string, asOf time.Time) (decimal.Decimal, error) {
	if m.latestBalanceFunc != nil {
		return m.latestBalanceFunc(ctx, loanID, asOf)
	}
	return m.seed, nil
}

func (m *mockLedgerRepository) EntriesFor(ctx context.Context, loanID string, from, to time.Time) ([]model.LedgerEntry, error) {
	if m.entriesForFunc != nil {
		return m.entriesForFunc(ctx, loanID, from, to)
	}
	return m.appendedEntries, nil
}

func (m *mockLedgerRepository) ExistsForDate(ctx context.Context, loanID string, date time.Time, kind valueobject.EntryKind) (bool, error) {
	if m.existsForDateFunc != nil {
		return m.existsForDateFunc(ctx, loanID, date, kind)
	}
	return false, nil
}

func (m *mockLedgerRepository) draftsOfKind(kind valueobject.EntryKind) []model.EntryDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.EntryDraft
	for _, d := range m.appendedDrafts {
		if d.Kind.Equal(kind) {
			out = append(out, d)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Accrual job repository mock
// ---------------------------------------------------------------------------

type mockAccrualJobRepository struct {
	findByDateFunc func(ctx context.Context, jobDate time.Time) (model.AccrualJob, bool, error)
	createFunc     func(ctx context.Context, job model.AccrualJob) error
	updateFunc     func(ctx context.Context, job model.AccrualJob) error

	savedJobs []model.AccrualJob
}

func (m *mockAccrualJobRepository) FindByDate(ctx context.Context, jobDate time.Time) (model.AccrualJob, bool, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, jobDate)
	}
	return model.AccrualJob{}, false, nil
}

func (m *mockAccrualJobRepository) Create(ctx context.Context, job model.AccrualJob) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, job); err != nil {
			return err
		}
	}
	m.savedJobs = append(m.savedJobs, job)
	return nil
}

func (m *mockAccrualJobRepository) Update(ctx context.Context, job model.AccrualJob) error {
	m.savedJobs = append(m.savedJobs, job)
	if m.updateFunc != nil {
		return m.updateFunc(ctx, job)
	}
	return nil
}

func (m *mockAccrualJobRepository) lastSaved() model.AccrualJob {
	return m.savedJobs[len(m.savedJobs)-1]
}

// ---------------------------------------------------------------------------
// Cache mock
// ---------------------------------------------------------------------------

type mockCache struct {
	mu sync.Mutex

	getFunc func(ctx context.Context, key port.CacheKey, fingerprint string) ([]byte, bool, error)
	putFunc func(ctx context.Context, key port.CacheKey, fingerprint string, value []byte, ttl time.Duration) error

	putCalls         int
	invalidatedLoans []string
}

func (m *mockCache) Get(ctx context.Context, key port.CacheKey, fingerprint string) ([]byte, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key, fingerprint)
	}
	return nil, false, nil
}

func (m *mockCache) Put(ctx context.Context, key port.CacheKey, fingerprint string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	m.putCalls++
	m.mu.Unlock()
	if m.putFunc != nil {
		return m.putFunc(ctx, key, fingerprint, value, ttl)
	}
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context, loanID string) error {
	m.mu.Lock()
	m.invalidatedLoans = append(m.invalidatedLoans, loanID)
	m.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Event publisher mock
// ---------------------------------------------------------------------------

type mockEventPublisher struct {
	mu sync.Mutex

	publishFunc func(ctx context.Context, events ...event.DomainEvent) error

	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	m.mu.Lock()
	m.publishedEvents = append(m.publishedEvents, events...)
	m.mu.Unlock()
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	return nil
}

func (m *mockEventPublisher) eventsOfType(eventType string) []event.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []event.DomainEvent
	for _, e := range m.publishedEvents {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
