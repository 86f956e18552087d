package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// ActorSystem is the actor recorded on entries posted by the engine itself.
const ActorSystem = "system"

// ---------------------------------------------------------------------------
// LedgerEntry aggregate
// ---------------------------------------------------------------------------

// EntryDraft is the caller-supplied part of a ledger entry. The running
// balance is never taken from the draft; it is recomputed on append from the
// loan's latest entry so the chain cannot drift.
type EntryDraft struct {
	LoanID          string
	TransactionDate time.Time
	Kind            valueobject.EntryKind
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	RateApplied     *decimal.Decimal
	DaysCounted     *int
	Narration       string
	Actor           string
}

// LedgerEntry is an immutable row in a loan's append-only journal. Corrections
// are new ADJUSTMENT entries, never edits.
type LedgerEntry struct {
	id              string
	loanID          string
	transactionDate time.Time
	kind            valueobject.EntryKind
	debit           decimal.Decimal
	credit          decimal.Decimal
	balance         decimal.Decimal
	rateApplied     *decimal.Decimal
	daysCounted     *int
	narration       string
	actor           string
	createdAt       time.Time
}

// NewLedgerEntry builds an entry from a draft, stamping the running balance
// from the previous balance: balance = previous - credit + debit.
func NewLedgerEntry(draft EntryDraft, previousBalance decimal.Decimal, now time.Time) (LedgerEntry, error) {
	if draft.LoanID == "" {
		return LedgerEntry{}, errors.New("loan id is required")
	}
	if draft.TransactionDate.IsZero() {
		return LedgerEntry{}, errors.New("transaction date is required")
	}
	if draft.Kind.IsZero() {
		return LedgerEntry{}, fmt.Errorf("entry kind is required")
	}
	if draft.Debit.IsNegative() || draft.Credit.IsNegative() {
		return LedgerEntry{}, errors.New("debit and credit must not be negative")
	}
	if draft.Debit.IsPositive() && draft.Credit.IsPositive() {
		return LedgerEntry{}, errors.New("entry must be either a debit or a credit")
	}

	actor := draft.Actor
	if actor == "" {
		actor = ActorSystem
	}

	return LedgerEntry{
		id:              uuid.New().String(),
		loanID:          draft.LoanID,
		transactionDate: draft.TransactionDate,
		kind:            draft.Kind,
		debit:           draft.Debit,
		credit:          draft.Credit,
		balance:         previousBalance.Sub(draft.Credit).Add(draft.Debit),
		rateApplied:     draft.RateApplied,
		daysCounted:     draft.DaysCounted,
		narration:       draft.Narration,
		actor:           actor,
		createdAt:       now,
	}, nil
}

// ReconstructLedgerEntry rebuilds an entry from persistence (no validation).
func ReconstructLedgerEntry(
	id, loanID string,
	transactionDate time.Time,
	kind valueobject.EntryKind,
	debit, credit, balance decimal.Decimal,
	rateApplied *decimal.Decimal,
	daysCounted *int,
	narration, actor string,
	createdAt time.Time,
) LedgerEntry {
	return LedgerEntry{
		id:              id,
		loanID:          loanID,
		transactionDate: transactionDate,
		kind:            kind,
		debit:           debit,
		credit:          credit,
		balance:         balance,
		rateApplied:     rateApplied,
		daysCounted:     daysCounted,
		narration:       narration,
		actor:           actor,
		createdAt:       createdAt,
	}
}

// VerifyChain recomputes running balances for entries ordered by
// (transaction date, created at), seeded from the loan's disbursed principal,
// and reports the first entry whose stored balance does not match.
func VerifyChain(seed decimal.Decimal, entries []LedgerEntry) error {
	balance := seed
	for i, e := range entries {
		balance = balance.Sub(e.credit).Add(e.debit)
		if !balance.Equal(e.balance) {
			return fmt.Errorf("ledger chain broken at entry %d (%s): computed %s, stored %s",
				i, e.id, balance.String(), e.balance.String())
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (e LedgerEntry) ID() string                     { return e.id }
func (e LedgerEntry) LoanID() string                 { return e.loanID }
func (e LedgerEntry) TransactionDate() time.Time     { return e.transactionDate }
func (e LedgerEntry) Kind() valueobject.EntryKind    { return e.kind }
func (e LedgerEntry) Debit() decimal.Decimal         { return e.debit }
func (e LedgerEntry) Credit() decimal.Decimal        { return e.credit }
func (e LedgerEntry) Balance() decimal.Decimal       { return e.balance }
func (e LedgerEntry) RateApplied() *decimal.Decimal  { return e.rateApplied }
func (e LedgerEntry) DaysCounted() *int              { return e.daysCounted }
func (e LedgerEntry) Narration() string              { return e.narration }
func (e LedgerEntry) Actor() string                  { return e.actor }
func (e LedgerEntry) CreatedAt() time.Time           { return e.createdAt }
