package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	pkgpostgres "github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/postgres"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// LedgerRepo implements port.LedgerRepository over an append-only table.
// Rows are never updated or deleted.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

// NewLedgerRepo creates a PostgreSQL-backed ledger repository.
func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

const entryColumns = `
	id, loan_id, transaction_date, kind, debit, credit, balance,
	rate_applied, days_counted, narration, actor, created_at
`

// Append stamps and inserts one entry inside a transaction holding the loan's
// advisory lock, so concurrent appends for the same loan serialize and the
// running balance cannot fork. The balance is always recomputed here; whatever
// the caller thinks the balance is gets ignored.
func (r *LedgerRepo) Append(ctx context.Context, draft model.EntryDraft) (model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, draft.LoanID); err != nil {
			return fmt.Errorf("acquire loan lock: %w", err)
		}

		previous, err := latestBalance(ctx, tx, draft.LoanID, time.Time{})
		if err != nil {
			return err
		}

		entry, err = model.NewLedgerEntry(draft, previous, time.Now().UTC())
		if err != nil {
			return err
		}

		insert := `
			INSERT INTO ledger_entries (` + entryColumns + `)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`
		_, err = tx.Exec(ctx, insert,
			entry.ID(), entry.LoanID(), entry.TransactionDate(), entry.Kind().String(),
			entry.Debit(), entry.Credit(), entry.Balance(),
			entry.RateApplied(), entry.DaysCounted(), entry.Narration(), entry.Actor(), entry.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.LedgerEntry{}, err
	}
	return entry, nil
}

// LatestBalance returns the running balance strictly before asOf, seeded from
// the loan's disbursed principal when the journal is empty.
func (r *LedgerRepo) LatestBalance(ctx context.Context, loanID string, asOf time.Time) (decimal.Decimal, error) {
	return latestBalance(ctx, r.pool, loanID, asOf)
}

func latestBalance(ctx context.Context, q pkgpostgres.Querier, loanID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT balance FROM ledger_entries
		WHERE loan_id = $1 AND ($2::timestamptz IS NULL OR transaction_date < $2)
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT 1
	`
	var cutoff *time.Time
	if !asOf.IsZero() {
		cutoff = &asOf
	}

	var balance decimal.Decimal
	err := q.QueryRow(ctx, query, loanID, cutoff).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Empty journal: seed from the disbursed principal.
		err = q.QueryRow(ctx, `SELECT principal FROM loans WHERE id = $1`, loanID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, model.ErrLoanNotFound
		}
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("latest balance: %w", err)
	}
	return balance, nil
}

// EntriesFor returns a loan's journal over [from, to] in posting order.
func (r *LedgerRepo) EntriesFor(ctx context.Context, loanID string, from, to time.Time) ([]model.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE loan_id = $1
		  AND ($2::timestamptz IS NULL OR transaction_date >= $2)
		  AND ($3::timestamptz IS NULL OR transaction_date <= $3)
		ORDER BY transaction_date, created_at
	`
	var fromArg, toArg *time.Time
	if !from.IsZero() {
		fromArg = &from
	}
	if !to.IsZero() {
		toArg = &to
	}

	rows, err := r.pool.Query(ctx, query, loanID, fromArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ExistsForDate reports whether an entry of the given kind exists for the
// (loan, calendar date) pair.
func (r *LedgerRepo) ExistsForDate(ctx context.Context, loanID string, date time.Time, kind valueobject.EntryKind) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ledger_entries
			WHERE loan_id = $1 AND transaction_date::date = $2::date AND kind = $3
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, loanID, date, kind.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check ledger entry: %w", err)
	}
	return exists, nil
}

func scanEntryRow(s scannable) (model.LedgerEntry, error) {
	var (
		id, loanID, kindStr    string
		transactionDate        time.Time
		debit, credit, balance decimal.Decimal
		rateApplied            *decimal.Decimal
		daysCounted            *int
		narration, actor       string
		createdAt              time.Time
	)

	err := s.Scan(
		&id, &loanID, &transactionDate, &kindStr, &debit, &credit, &balance,
		&rateApplied, &daysCounted, &narration, &actor, &createdAt,
	)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("scan ledger entry: %w", err)
	}

	kind, err := valueobject.NewEntryKind(kindStr)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("parse entry kind: %w", err)
	}

	return model.ReconstructLedgerEntry(
		id, loanID, transactionDate, kind,
		debit, credit, balance,
		rateApplied, daysCounted, narration, actor, createdAt,
	), nil
}
