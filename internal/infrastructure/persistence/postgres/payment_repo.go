package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Save persists a payment with its waterfall breakdown.
func (r *PaymentRepo) Save(ctx context.Context, p model.Payment) error {
	query := `
		INSERT INTO payments (
			id, loan_id, amount, payment_date,
			penalty_paid, interest_paid, principal_paid, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID(), p.LoanID(), p.Amount(), p.PaymentDate(),
		p.PenaltyPaid(), p.InterestPaid(), p.PrincipalPaid(), p.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

// ListByLoan returns a loan's payments, oldest first.
func (r *PaymentRepo) ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error) {
	query := `
		SELECT id, loan_id, amount, payment_date,
		       penalty_paid, interest_paid, principal_paid, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY payment_date, created_at
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var (
			id, scannedLoanID                              string
			amount, penaltyPaid, interestPaid, principalPd decimal.Decimal
			paymentDate, createdAt                         time.Time
		)
		if err := rows.Scan(&id, &scannedLoanID, &amount, &paymentDate,
			&penaltyPaid, &interestPaid, &principalPd, &createdAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, model.ReconstructPayment(
			id, scannedLoanID, amount, paymentDate,
			penaltyPaid, interestPaid, principalPd, createdAt,
		))
	}
	return payments, rows.Err()
}

// HistoryStats returns the payment count and latest payment date for a loan.
func (r *PaymentRepo) HistoryStats(ctx context.Context, loanID string) (int, time.Time, error) {
	query := `SELECT count(*), coalesce(max(payment_date), 'epoch'::timestamptz) FROM payments WHERE loan_id = $1`

	var (
		count  int
		latest time.Time
	)
	if err := r.pool.QueryRow(ctx, query, loanID).Scan(&count, &latest); err != nil {
		return 0, time.Time{}, fmt.Errorf("payment history stats: %w", err)
	}
	if count == 0 {
		return 0, time.Time{}, nil
	}
	return count, latest, nil
}
