package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

func TestComputeInterest_Execute(t *testing.T) {
	from := disbursementDate
	to := disbursementDate.AddDate(0, 0, 30)

	t.Run("computes and caches a fresh result", func(t *testing.T) {
		cache := &mockCache{}
		uc := usecase.NewComputeInterestUseCase(
			loanRepoReturning(activeLoan()), &mockPaymentRepository{}, cache, interestCalculator())

		resp, err := uc.Execute(context.Background(), dto.ComputeInterestRequest{
			LoanID: testutil.TestLoanID1, From: from, To: to,
		})

		require.NoError(t, err)
		assert.Equal(t, 30, resp.TotalDays)
		testutil.AssertDecimalEqual(t, "575.34", resp.Total)
		assert.False(t, resp.FromCache)
		assert.Equal(t, 1, cache.putCalls)
	})

	t.Run("serves a matching cached result", func(t *testing.T) {
		cached, err := json.Marshal(dto.InterestResponse{
			LoanID: testutil.TestLoanID1, From: from, To: to, TotalDays: 30,
		})
		require.NoError(t, err)

		cache := &mockCache{
			getFunc: func(ctx context.Context, key port.CacheKey, fingerprint string) ([]byte, bool, error) {
				return cached, true, nil
			},
		}
		uc := usecase.NewComputeInterestUseCase(
			loanRepoReturning(activeLoan()), &mockPaymentRepository{}, cache, interestCalculator())

		resp, err := uc.Execute(context.Background(), dto.ComputeInterestRequest{
			LoanID: testutil.TestLoanID1, From: from, To: to,
		})

		require.NoError(t, err)
		assert.True(t, resp.FromCache)
		assert.Equal(t, 0, cache.putCalls)
	})

	t.Run("cache failure degrades to a fresh computation", func(t *testing.T) {
		cache := &mockCache{
			getFunc: func(ctx context.Context, key port.CacheKey, fingerprint string) ([]byte, bool, error) {
				return nil, false, fmt.Errorf("redis unavailable")
			},
			putFunc: func(ctx context.Context, key port.CacheKey, fingerprint string, value []byte, ttl time.Duration) error {
				return fmt.Errorf("redis unavailable")
			},
		}
		uc := usecase.NewComputeInterestUseCase(
			loanRepoReturning(activeLoan()), &mockPaymentRepository{}, cache, interestCalculator())

		resp, err := uc.Execute(context.Background(), dto.ComputeInterestRequest{
			LoanID: testutil.TestLoanID1, From: from, To: to,
		})

		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "575.34", resp.Total)
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		cache := &mockCache{}
		uc := usecase.NewComputeInterestUseCase(
			loanRepoReturning(activeLoan()), &mockPaymentRepository{}, cache, interestCalculator())

		_, err := uc.Execute(context.Background(), dto.ComputeInterestRequest{
			LoanID: testutil.TestLoanID1, From: to, To: from,
		})

		assert.ErrorIs(t, err, model.ErrInvalidDateRange)
		assert.Equal(t, 0, cache.putCalls)
	})

	t.Run("fails when loan not found", func(t *testing.T) {
		uc := usecase.NewComputeInterestUseCase(
			&mockLoanRepository{}, &mockPaymentRepository{}, &mockCache{}, interestCalculator())

		_, err := uc.Execute(context.Background(), dto.ComputeInterestRequest{
			LoanID: "missing", From: from, To: to,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find loan")
	})

	t.Run("fails when payment history is unavailable", func(t *testing.T) {
		paymentRepo := &mockPaymentRepository{
			historyStatsFunc: func(ctx context.Context, loanID string) (int, time.Time, error) {
				return 0, time.Time{}, fmt.Errorf("database unavailable")
			},
		}
		uc := usecase.NewComputeInterestUseCase(
			loanRepoReturning(activeLoan()), paymentRepo, &mockCache{}, interestCalculator())

		_, err := uc.Execute(context.Background(), dto.ComputeInterestRequest{
			LoanID: testutil.TestLoanID1, From: from, To: to,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "build fingerprint")
	})
}
