package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// LoanRepo implements port.LoanRepository. The loans table is owned by the
// servicing system; this repository only writes back the outstanding buckets.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `
	id, loan_number, product, principal, annual_rate,
	disbursement_date, tenure_months, status,
	outstanding_principal, outstanding_interest, outstanding_penalty
`

// FindByID retrieves one loan snapshot.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, model.ErrLoanNotFound
	}
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

// ListAccruable retrieves every disbursed loan in an accruable status.
func (r *LoanRepo) ListAccruable(ctx context.Context) ([]model.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE status IN ('ACTIVE', 'DEFAULTED')
		  AND disbursement_date IS NOT NULL
		ORDER BY loan_number
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query accruable loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// UpdateOutstanding writes back the denormalized outstanding buckets.
func (r *LoanRepo) UpdateOutstanding(ctx context.Context, loan model.Loan) error {
	query := `
		UPDATE loans SET
			outstanding_principal = $2,
			outstanding_interest  = $3,
			outstanding_penalty   = $4,
			updated_at            = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		loan.ID(),
		loan.OutstandingPrincipal(),
		loan.OutstandingInterest(),
		loan.OutstandingPenalty(),
	)
	if err != nil {
		return fmt.Errorf("update outstanding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLoanNotFound
	}
	return nil
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, loanNumber, productStr, statusStr              string
		principal, annualRate                              decimal.Decimal
		disbursementDate                                   *time.Time
		tenureMonths                                       int
		outstandingPrincipal, outstandingInterest, penalty decimal.Decimal
	)

	err := s.Scan(
		&id, &loanNumber, &productStr, &principal, &annualRate,
		&disbursementDate, &tenureMonths, &statusStr,
		&outstandingPrincipal, &outstandingInterest, &penalty,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, err
	}
	if err != nil {
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	product, err := valueobject.NewLoanProduct(productStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan product: %w", err)
	}
	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}

	var disbursed time.Time
	if disbursementDate != nil {
		disbursed = *disbursementDate
	}

	return model.ReconstructLoan(
		id, loanNumber, product,
		principal, annualRate,
		disbursed, tenureMonths, status,
		outstandingPrincipal, outstandingInterest, penalty,
	), nil
}
