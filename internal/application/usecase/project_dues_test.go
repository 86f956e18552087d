package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

func TestProjectDues_Execute(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return today }

	t.Run("projects interest on top of the outstanding buckets", func(t *testing.T) {
		uc := usecase.NewProjectDuesUseCase(loanRepoReturning(activeLoan()), interestCalculator()).
			WithClock(clock)

		resp, err := uc.Execute(context.Background(), dto.ProjectDuesRequest{
			LoanID: testutil.TestLoanID1,
			AsOf:   today.AddDate(0, 0, 30),
		})

		require.NoError(t, err)
		// 30 more days at 7% on 100000.
		testutil.AssertDecimalEqual(t, "575.34", resp.ProjectedInterest)
		testutil.AssertDecimalEqual(t, "100000", resp.OutstandingPrincipal)
		testutil.AssertDecimalEqual(t, "101350.68", resp.TotalPayable)
		assert.False(t, resp.CrossesBoundary)
	})

	t.Run("flags a projection that crosses the rate boundary", func(t *testing.T) {
		uc := usecase.NewProjectDuesUseCase(loanRepoReturning(activeLoan()), interestCalculator()).
			WithClock(clock)

		resp, err := uc.Execute(context.Background(), dto.ProjectDuesRequest{
			LoanID: testutil.TestLoanID1,
			AsOf:   disbursementDate.AddDate(0, 0, 400),
		})

		require.NoError(t, err)
		assert.True(t, resp.CrossesBoundary)
	})

	t.Run("rejects a past as-of date", func(t *testing.T) {
		uc := usecase.NewProjectDuesUseCase(loanRepoReturning(activeLoan()), interestCalculator()).
			WithClock(clock)

		_, err := uc.Execute(context.Background(), dto.ProjectDuesRequest{
			LoanID: testutil.TestLoanID1,
			AsOf:   today.AddDate(0, 0, -1),
		})

		assert.ErrorIs(t, err, model.ErrInvalidDateRange)
	})

	t.Run("fails when loan not found", func(t *testing.T) {
		uc := usecase.NewProjectDuesUseCase(&mockLoanRepository{}, interestCalculator()).WithClock(clock)

		_, err := uc.Execute(context.Background(), dto.ProjectDuesRequest{
			LoanID: "missing",
			AsOf:   today,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find loan")
	})
}
