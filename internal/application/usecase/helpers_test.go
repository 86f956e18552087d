package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

var disbursementDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// activeLoan is a seasonal crop loan three months into its first year with
// some interest and penalty already outstanding.
func activeLoan() model.Loan {
	return model.ReconstructLoan(
		testutil.TestLoanID1, "PACS-2024-0001",
		valueobject.ProductSAO,
		decimal.NewFromInt(100000), decimal.RequireFromString("7.0"),
		disbursementDate, 12,
		valueobject.LoanStatusActive,
		decimal.NewFromInt(100000),
		decimal.RequireFromString("575.34"),
		decimal.RequireFromString("200.00"),
	)
}

func emiLoan() model.Loan {
	return model.ReconstructLoan(
		testutil.TestLoanID2, "PACS-2024-0002",
		valueobject.ProductLongTermEMI,
		decimal.NewFromInt(300000), decimal.NewFromInt(12),
		disbursementDate, 108,
		valueobject.LoanStatusActive,
		decimal.NewFromInt(300000), decimal.Zero, decimal.Zero,
	)
}

func loanRepoReturning(loan model.Loan) *mockLoanRepository {
	return &mockLoanRepository{
		findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
			return loan, nil
		},
	}
}

func interestCalculator() *service.ProRataInterestCalculator {
	return service.NewProRataInterestCalculator(service.NewRateResolver(nil))
}
