package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

func TestGenerateSchedule_Execute(t *testing.T) {
	uc := usecase.NewGenerateScheduleUseCase(loanRepoReturning(emiLoan()), service.NewEMICalculator())

	t.Run("builds the full amortization table", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GenerateScheduleRequest{LoanID: testutil.TestLoanID2})

		require.NoError(t, err)
		assert.Equal(t, 108, resp.TenureMonths)
		require.Len(t, resp.Installments, 108)
		assert.True(t, resp.EMI.IsPositive())

		last := resp.Installments[107]
		assert.True(t, last.OutstandingAfter.IsZero())

		sum := decimal.Zero
		for _, inst := range resp.Installments {
			sum = sum.Add(inst.PrincipalComponent)
		}
		testutil.AssertDecimalEqual(t, "300000", sum)
	})

	t.Run("fails when loan not found", func(t *testing.T) {
		missing := usecase.NewGenerateScheduleUseCase(&mockLoanRepository{}, service.NewEMICalculator())

		_, err := missing.Execute(context.Background(), dto.GenerateScheduleRequest{LoanID: "missing"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find loan")
	})
}

func TestGenerateSchedule_SimulatePrepayment(t *testing.T) {
	uc := usecase.NewGenerateScheduleUseCase(loanRepoReturning(emiLoan()), service.NewEMICalculator())
	amount := decimal.NewFromInt(50000)

	t.Run("reduce tenure keeps the installment", func(t *testing.T) {
		resp, err := uc.SimulatePrepayment(context.Background(), dto.SimulatePrepaymentRequest{
			LoanID: testutil.TestLoanID2,
			Amount: amount,
			Mode:   usecase.PrepaymentModeReduceTenure,
		})

		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "250000", resp.PrincipalAfter)
		assert.Greater(t, resp.TenureMonthsSaved, 0)
		assert.Greater(t, resp.RemainingTenure, 0)
		assert.True(t, resp.EMI.IsPositive())
	})

	t.Run("reduce emi keeps the tenure", func(t *testing.T) {
		resp, err := uc.SimulatePrepayment(context.Background(), dto.SimulatePrepaymentRequest{
			LoanID: testutil.TestLoanID2,
			Amount: amount,
			Mode:   usecase.PrepaymentModeReduceEMI,
		})

		require.NoError(t, err)
		assert.True(t, resp.InstallmentReduction.IsPositive())
		assert.Greater(t, resp.RemainingTenure, 0)
	})

	t.Run("rejects a prepayment that would close the loan", func(t *testing.T) {
		_, err := uc.SimulatePrepayment(context.Background(), dto.SimulatePrepaymentRequest{
			LoanID: testutil.TestLoanID2,
			Amount: decimal.NewFromInt(300000),
			Mode:   usecase.PrepaymentModeReduceTenure,
		})
		assert.Error(t, err)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		_, err := uc.SimulatePrepayment(context.Background(), dto.SimulatePrepaymentRequest{
			LoanID: testutil.TestLoanID2,
			Amount: amount,
			Mode:   "windfall",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown prepayment mode")
	})
}
