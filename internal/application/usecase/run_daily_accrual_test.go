package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

type accrualMocks struct {
	loanRepo   *mockLoanRepository
	ledgerRepo *mockLedgerRepository
	jobRepo    *mockAccrualJobRepository
	cache      *mockCache
	publisher  *mockEventPublisher
}

func newAccrualUseCase(m accrualMocks) *usecase.RunDailyAccrualUseCase {
	rates := service.NewRateResolver(nil)
	return usecase.NewRunDailyAccrualUseCase(
		m.loanRepo, m.ledgerRepo, m.jobRepo, m.cache, m.publisher,
		rates, service.NewProRataInterestCalculator(rates),
		slog.New(slog.NewTextHandler(io.Discard, nil)), 2,
	)
}

func defaultAccrualMocks(loans ...model.Loan) accrualMocks {
	return accrualMocks{
		loanRepo: &mockLoanRepository{
			listAccruableFunc: func(ctx context.Context) ([]model.Loan, error) {
				return loans, nil
			},
		},
		ledgerRepo: &mockLedgerRepository{seed: decimal.NewFromInt(100000)},
		jobRepo:    &mockAccrualJobRepository{},
		cache:      &mockCache{},
		publisher:  &mockEventPublisher{},
	}
}

func TestRunDailyAccrual_Execute(t *testing.T) {
	jobDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("posts one day of interest per accruable loan", func(t *testing.T) {
		m := defaultAccrualMocks(activeLoan(), emiLoan())
		uc := newAccrualUseCase(m)

		resp, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		require.NoError(t, err)
		assert.Equal(t, valueobject.JobStatusCompleted.String(), resp.Status)
		assert.Equal(t, 2, resp.LoansProcessed)
		assert.Equal(t, 0, resp.ErrorCount)
		assert.False(t, resp.AlreadyCompleted)
		// 100000 @ 7% and 300000 @ 12%, one day each.
		testutil.AssertDecimalEqual(t, "117.81", resp.TotalAccrued)

		drafts := m.ledgerRepo.draftsOfKind(valueobject.EntryKindAccrual)
		require.Len(t, drafts, 2)
		for _, d := range drafts {
			assert.True(t, d.TransactionDate.Equal(jobDate))
			require.NotNil(t, d.DaysCounted)
			assert.Equal(t, 1, *d.DaysCounted)
			require.NotNil(t, d.RateApplied)
		}

		assert.Len(t, m.publisher.eventsOfType("accrual.interest.accrued"), 2)
		assert.Len(t, m.publisher.eventsOfType("accrual.job.completed"), 1)
		assert.Len(t, m.loanRepo.updatedLoans, 2)
		assert.Len(t, m.cache.invalidatedLoans, 2)

		last := m.jobRepo.lastSaved()
		assert.True(t, last.Status().Equal(valueobject.JobStatusCompleted))
	})

	t.Run("a completed job is never re-run", func(t *testing.T) {
		completed := completedJob(t, jobDate)
		m := defaultAccrualMocks(activeLoan())
		m.jobRepo.findByDateFunc = func(ctx context.Context, d time.Time) (model.AccrualJob, bool, error) {
			return completed, true, nil
		}
		uc := newAccrualUseCase(m)

		resp, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		require.NoError(t, err)
		assert.True(t, resp.AlreadyCompleted)
		assert.Equal(t, 5, resp.LoansProcessed)
		assert.Empty(t, m.jobRepo.savedJobs)
		assert.Empty(t, m.ledgerRepo.appendedDrafts)
	})

	t.Run("a concurrent trigger is rejected", func(t *testing.T) {
		running, err := newPendingJob(t, jobDate).Start(jobDate)
		require.NoError(t, err)

		m := defaultAccrualMocks(activeLoan())
		m.jobRepo.findByDateFunc = func(ctx context.Context, d time.Time) (model.AccrualJob, bool, error) {
			return running, true, nil
		}
		uc := newAccrualUseCase(m)

		_, err = uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})
		assert.ErrorIs(t, err, usecase.ErrJobAlreadyRunning)
	})

	t.Run("loans with an existing entry are skipped on retry", func(t *testing.T) {
		m := defaultAccrualMocks(activeLoan(), emiLoan())
		m.ledgerRepo.existsForDateFunc = func(ctx context.Context, loanID string, d time.Time, kind valueobject.EntryKind) (bool, error) {
			return loanID == testutil.TestLoanID1, nil
		}
		uc := newAccrualUseCase(m)

		resp, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.LoansProcessed)
		// Only the EMI loan actually accrued.
		testutil.AssertDecimalEqual(t, "98.63", resp.TotalAccrued)
		assert.Len(t, m.ledgerRepo.draftsOfKind(valueobject.EntryKindAccrual), 1)
	})

	t.Run("a per-loan failure does not abort the pass", func(t *testing.T) {
		m := defaultAccrualMocks(activeLoan(), emiLoan())
		real := &mockLedgerRepository{seed: decimal.NewFromInt(100000)}
		m.ledgerRepo.appendFunc = func(ctx context.Context, draft model.EntryDraft) (model.LedgerEntry, error) {
			if draft.LoanID == testutil.TestLoanID1 {
				return model.LedgerEntry{}, fmt.Errorf("lock timeout")
			}
			return real.Append(ctx, draft)
		}
		uc := newAccrualUseCase(m)

		resp, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		require.NoError(t, err)
		assert.Equal(t, valueobject.JobStatusCompleted.String(), resp.Status)
		assert.Equal(t, 1, resp.LoansProcessed)
		assert.Equal(t, 1, resp.ErrorCount)

		details := m.jobRepo.lastSaved().ErrorDetails()
		require.Len(t, details, 1)
		assert.Equal(t, testutil.TestLoanID1, details[0].LoanID)
		assert.Contains(t, details[0].Error, "lock timeout")
	})

	t.Run("a fatal failure marks the job failed", func(t *testing.T) {
		m := defaultAccrualMocks()
		m.loanRepo.listAccruableFunc = func(ctx context.Context) ([]model.Loan, error) {
			return nil, fmt.Errorf("database unavailable")
		}
		uc := newAccrualUseCase(m)

		_, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "list accruable loans")
		assert.True(t, m.jobRepo.lastSaved().Status().Equal(valueobject.JobStatusFailed))
		assert.Len(t, m.publisher.eventsOfType("accrual.job.failed"), 1)
	})

	t.Run("the loser of a create race yields to a running winner", func(t *testing.T) {
		running, err := newPendingJob(t, jobDate).Start(jobDate)
		require.NoError(t, err)

		m := defaultAccrualMocks(activeLoan())
		finds := 0
		m.jobRepo.findByDateFunc = func(ctx context.Context, d time.Time) (model.AccrualJob, bool, error) {
			finds++
			if finds == 1 {
				// The winner's insert lands between this read and our create.
				return model.AccrualJob{}, false, nil
			}
			return running, true, nil
		}
		m.jobRepo.createFunc = func(ctx context.Context, job model.AccrualJob) error {
			return model.ErrDuplicateJobDate
		}
		uc := newAccrualUseCase(m)

		_, err = uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		assert.ErrorIs(t, err, usecase.ErrJobAlreadyRunning)
		assert.Empty(t, m.jobRepo.savedJobs)
		assert.Empty(t, m.ledgerRepo.appendedDrafts)
	})

	t.Run("the loser of a create race reports a completed winner", func(t *testing.T) {
		completed := completedJob(t, jobDate)
		m := defaultAccrualMocks(activeLoan())
		finds := 0
		m.jobRepo.findByDateFunc = func(ctx context.Context, d time.Time) (model.AccrualJob, bool, error) {
			finds++
			if finds == 1 {
				return model.AccrualJob{}, false, nil
			}
			return completed, true, nil
		}
		m.jobRepo.createFunc = func(ctx context.Context, job model.AccrualJob) error {
			return model.ErrDuplicateJobDate
		}
		uc := newAccrualUseCase(m)

		resp, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: jobDate})

		require.NoError(t, err)
		assert.True(t, resp.AlreadyCompleted)
		assert.Equal(t, 5, resp.LoansProcessed)
		assert.Empty(t, m.ledgerRepo.appendedDrafts)
	})

	t.Run("cancellation between loans marks the job failed", func(t *testing.T) {
		m := defaultAccrualMocks(activeLoan(), emiLoan())
		uc := newAccrualUseCase(m)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := uc.Execute(ctx, dto.RunAccrualRequest{JobDate: jobDate})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, m.ledgerRepo.draftsOfKind(valueobject.EntryKindAccrual))
		assert.True(t, m.jobRepo.lastSaved().Status().Equal(valueobject.JobStatusFailed))
		assert.Len(t, m.publisher.eventsOfType("accrual.job.failed"), 1)
	})

	t.Run("rate switch is posted on the first post-boundary day", func(t *testing.T) {
		switchDate := disbursementDate.AddDate(0, 0, 366)
		m := defaultAccrualMocks(activeLoan())
		uc := newAccrualUseCase(m)

		resp, err := uc.Execute(context.Background(), dto.RunAccrualRequest{JobDate: switchDate})

		require.NoError(t, err)
		// One day at the post-year SAO rate.
		testutil.AssertDecimalEqual(t, "37.67", resp.TotalAccrued)

		changes := m.ledgerRepo.draftsOfKind(valueobject.EntryKindRateChange)
		require.Len(t, changes, 1)
		require.NotNil(t, changes[0].RateApplied)
		testutil.AssertDecimalEqual(t, "13.75", *changes[0].RateApplied)

		assert.Len(t, m.publisher.eventsOfType("accrual.rate.switched"), 1)
	})
}

func newPendingJob(t *testing.T, jobDate time.Time) model.AccrualJob {
	t.Helper()
	job, err := model.NewAccrualJob(jobDate, "cron", jobDate)
	require.NoError(t, err)
	return job
}

func completedJob(t *testing.T, jobDate time.Time) model.AccrualJob {
	t.Helper()
	job, err := newPendingJob(t, jobDate).Start(jobDate)
	require.NoError(t, err)
	job, err = job.Complete(5, decimal.NewFromInt(100), nil, jobDate.Add(time.Minute))
	require.NoError(t, err)
	return job
}
