package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/event"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// ErrJobAlreadyRunning is returned when a trigger races an in-flight pass for
// the same date.
var ErrJobAlreadyRunning = errors.New("accrual job already running for this date")

// defaultAccrualWorkers bounds concurrent per-loan processing.
const defaultAccrualWorkers = 8

// RunDailyAccrualUseCase executes the portfolio-wide daily interest pass. One
// job row exists per calendar date; a completed job is never re-run, a failed
// one resumes where it stopped via the per-loan entry existence check.
type RunDailyAccrualUseCase struct {
	loanRepo   port.LoanRepository
	ledgerRepo port.LedgerRepository
	jobRepo    port.AccrualJobRepository
	cache      port.Cache
	publisher  port.EventPublisher
	rates      *service.RateResolver
	calculator *service.ProRataInterestCalculator
	logger     *slog.Logger
	workers    int
	now        func() time.Time
}

// NewRunDailyAccrualUseCase wires dependencies. A non-positive worker count
// falls back to defaultAccrualWorkers.
func NewRunDailyAccrualUseCase(
	loanRepo port.LoanRepository,
	ledgerRepo port.LedgerRepository,
	jobRepo port.AccrualJobRepository,
	cache port.Cache,
	publisher port.EventPublisher,
	rates *service.RateResolver,
	calculator *service.ProRataInterestCalculator,
	logger *slog.Logger,
	workers int,
) *RunDailyAccrualUseCase {
	if workers <= 0 {
		workers = defaultAccrualWorkers
	}
	return &RunDailyAccrualUseCase{
		loanRepo:   loanRepo,
		ledgerRepo: ledgerRepo,
		jobRepo:    jobRepo,
		cache:      cache,
		publisher:  publisher,
		rates:      rates,
		calculator: calculator,
		logger:     logger,
		workers:    workers,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the wall clock. Test hook.
func (uc *RunDailyAccrualUseCase) WithClock(now func() time.Time) *RunDailyAccrualUseCase {
	uc.now = now
	return uc
}

// Execute runs the accrual pass for the requested calendar date. Triggering a
// date whose job already completed is a no-op, reported with
// AlreadyCompleted=true rather than an error.
func (uc *RunDailyAccrualUseCase) Execute(
	ctx context.Context,
	req dto.RunAccrualRequest,
) (dto.AccrualRunResponse, error) {
	jobDate := time.Date(req.JobDate.Year(), req.JobDate.Month(), req.JobDate.Day(), 0, 0, 0, 0, time.UTC)
	now := uc.now()

	job, found, err := uc.jobRepo.FindByDate(ctx, jobDate)
	if err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("find job: %w", err)
	}
	switch {
	case found && job.Status().Equal(valueobject.JobStatusCompleted):
		resp := jobResponse(job)
		resp.AlreadyCompleted = true
		return resp, nil
	case found && job.Status().Equal(valueobject.JobStatusRunning):
		return dto.AccrualRunResponse{}, ErrJobAlreadyRunning
	case !found:
		job, err = model.NewAccrualJob(jobDate, req.TriggeredBy, now)
		if err != nil {
			return dto.AccrualRunResponse{}, fmt.Errorf("create job: %w", err)
		}
		// The insert-only create makes the job-date unique index arbitrate
		// concurrent triggers: the loser re-reads the winner's row.
		if err := uc.jobRepo.Create(ctx, job); err != nil {
			if errors.Is(err, model.ErrDuplicateJobDate) {
				return uc.yieldToWinner(ctx, jobDate)
			}
			return dto.AccrualRunResponse{}, fmt.Errorf("create job: %w", err)
		}
	}

	job, err = job.Start(now)
	if err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("start job: %w", err)
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("update job: %w", err)
	}

	loans, err := uc.loanRepo.ListAccruable(ctx)
	if err != nil {
		return uc.failJob(ctx, job, fmt.Errorf("list accruable loans: %w", err))
	}

	uc.logger.Info("accrual pass started",
		"job_id", job.ID(), "job_date", jobDate.Format("2006-01-02"), "loans", len(loans))

	var (
		mu           sync.Mutex
		processed    int
		totalAccrued = decimal.Zero
		jobErrors    []model.JobError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, loan := range loans {
		// Cancellation is cooperative between loans; an in-flight loan
		// finishes, the rest are never dispatched.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			accrued, err := uc.accrueLoan(gctx, loan, jobDate)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Per-loan failures are isolated; the pass continues.
				uc.logger.Error("loan accrual failed",
					"job_id", job.ID(), "loan_id", loan.ID(), "error", err)
				jobErrors = append(jobErrors, model.JobError{LoanID: loan.ID(), Error: err.Error()})
				return nil
			}
			processed++
			totalAccrued = totalAccrued.Add(accrued)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return uc.failJob(ctx, job, err)
	}
	if err := ctx.Err(); err != nil {
		return uc.failJob(ctx, job, fmt.Errorf("accrual pass cancelled after %d loans: %w", processed, err))
	}

	job, err = job.Complete(processed, totalAccrued, jobErrors, uc.now())
	if err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("complete job: %w", err)
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("update job: %w", err)
	}

	uc.logger.Info("accrual pass completed",
		"job_id", job.ID(), "loans_processed", processed,
		"total_accrued", totalAccrued.StringFixed(2), "errors", len(jobErrors))

	evt := event.NewAccrualJobCompleted(job.ID(), job.JobDate(), processed, totalAccrued, len(jobErrors))
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return jobResponse(job), nil
}

// accrueLoan posts one day of interest for one loan and returns the amount.
// A loan that already has an accrual entry for the date is skipped with a
// zero amount.
func (uc *RunDailyAccrualUseCase) accrueLoan(
	ctx context.Context,
	loan model.Loan,
	jobDate time.Time,
) (decimal.Decimal, error) {
	exists, err := uc.ledgerRepo.ExistsForDate(ctx, loan.ID(), jobDate, valueobject.EntryKindAccrual)
	if err != nil {
		return decimal.Zero, fmt.Errorf("check existing entry: %w", err)
	}
	if exists {
		return decimal.Zero, nil
	}

	if err := uc.postRateSwitchIfDue(ctx, loan, jobDate); err != nil {
		return decimal.Zero, err
	}

	result, err := uc.calculator.Compute(loan, loan.OutstandingPrincipal(), jobDate.AddDate(0, 0, -1), jobDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("compute interest: %w", err)
	}
	if len(result.Periods) == 0 {
		return decimal.Zero, nil
	}

	rate := result.Periods[0].AnnualRate
	days := result.TotalDays
	entry, err := uc.ledgerRepo.Append(ctx, model.EntryDraft{
		LoanID:          loan.ID(),
		TransactionDate: jobDate,
		Kind:            valueobject.EntryKindAccrual,
		Debit:           result.Total,
		RateApplied:     &rate,
		DaysCounted:     &days,
		Narration:       result.Narration(),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("append ledger entry: %w", err)
	}

	updated, err := loan.AccrueInterest(result.Total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("accrue interest: %w", err)
	}
	if err := uc.loanRepo.UpdateOutstanding(ctx, updated); err != nil {
		return decimal.Zero, fmt.Errorf("update outstanding: %w", err)
	}

	_ = uc.cache.Invalidate(ctx, loan.ID())

	evt := event.NewInterestAccrued(loan.ID(), jobDate, result.Total, rate, entry.Balance())
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return decimal.Zero, fmt.Errorf("publish events: %w", err)
	}
	return result.Total, nil
}

// postRateSwitchIfDue posts the RATE_CHANGE marker on the first post-boundary
// day, once.
func (uc *RunDailyAccrualUseCase) postRateSwitchIfDue(
	ctx context.Context,
	loan model.Loan,
	jobDate time.Time,
) error {
	if !loan.IsDisbursed() {
		return nil
	}
	switchDate := uc.rates.BoundaryDate(loan).AddDate(0, 0, 1)
	if !jobDate.Equal(switchDate) {
		return nil
	}

	exists, err := uc.ledgerRepo.ExistsForDate(ctx, loan.ID(), jobDate, valueobject.EntryKindRateChange)
	if err != nil {
		return fmt.Errorf("check rate change entry: %w", err)
	}
	if exists {
		return nil
	}

	newRate := uc.rates.PostYearRate(loan)
	if _, err := uc.ledgerRepo.Append(ctx, model.EntryDraft{
		LoanID:          loan.ID(),
		TransactionDate: jobDate,
		Kind:            valueobject.EntryKindRateChange,
		RateApplied:     &newRate,
		Narration: fmt.Sprintf("Rate switched from %s%% to %s%% after 1 year",
			loan.AnnualRate().String(), newRate.String()),
	}); err != nil {
		return fmt.Errorf("append rate change entry: %w", err)
	}

	evt := event.NewRateSwitched(loan.ID(), loan.AnnualRate(), newRate, jobDate)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

// yieldToWinner handles a lost create race by reporting the winner's row.
func (uc *RunDailyAccrualUseCase) yieldToWinner(
	ctx context.Context,
	jobDate time.Time,
) (dto.AccrualRunResponse, error) {
	job, found, err := uc.jobRepo.FindByDate(ctx, jobDate)
	if err != nil {
		return dto.AccrualRunResponse{}, fmt.Errorf("find job after create conflict: %w", err)
	}
	if found && job.Status().Equal(valueobject.JobStatusCompleted) {
		resp := jobResponse(job)
		resp.AlreadyCompleted = true
		return resp, nil
	}
	return dto.AccrualRunResponse{}, ErrJobAlreadyRunning
}

// failJob marks the job failed and reports the fatal cause.
func (uc *RunDailyAccrualUseCase) failJob(
	ctx context.Context,
	job model.AccrualJob,
	cause error,
) (dto.AccrualRunResponse, error) {
	// The failure bookkeeping must land even when the cause is the caller's
	// own cancellation.
	ctx = context.WithoutCancel(ctx)

	failed, err := job.Fail(cause.Error(), uc.now())
	if err != nil {
		return dto.AccrualRunResponse{}, errors.Join(cause, err)
	}
	if err := uc.jobRepo.Update(ctx, failed); err != nil {
		return dto.AccrualRunResponse{}, errors.Join(cause, err)
	}

	uc.logger.Error("accrual pass failed", "job_id", failed.ID(), "error", cause)

	evt := event.NewAccrualJobFailed(failed.ID(), failed.JobDate(), cause.Error())
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.AccrualRunResponse{}, errors.Join(cause, err)
	}
	return dto.AccrualRunResponse{}, cause
}

func jobResponse(job model.AccrualJob) dto.AccrualRunResponse {
	return dto.AccrualRunResponse{
		JobID:          job.ID(),
		JobDate:        job.JobDate(),
		Status:         job.Status().String(),
		LoansProcessed: job.LoansProcessed(),
		TotalAccrued:   job.TotalAccrued(),
		ErrorCount:     len(job.ErrorDetails()),
	}
}
