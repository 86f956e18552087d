package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// AccrualJob aggregate
// ---------------------------------------------------------------------------

// JobError records a per-loan failure inside a batch run. Per-loan failures
// are isolated; they never abort the batch.
type JobError struct {
	LoanID string `json:"loan_id"`
	Error  string `json:"error"`
}

// AccrualJob tracks one portfolio-wide accrual pass. The job date is the
// idempotency key: at most one job row exists per calendar date, and a
// completed job is never re-run. Mutations return a new copy.
type AccrualJob struct {
	id             string
	jobDate        time.Time
	status         valueobject.JobStatus
	loansProcessed int
	totalAccrued   decimal.Decimal
	errorDetails   []JobError
	triggeredBy    string
	startedAt      time.Time
	completedAt    time.Time
	createdAt      time.Time
}

// NewAccrualJob creates a job in pending status for the given calendar date.
func NewAccrualJob(jobDate time.Time, triggeredBy string, now time.Time) (AccrualJob, error) {
	if jobDate.IsZero() {
		return AccrualJob{}, fmt.Errorf("job date is required")
	}
	if triggeredBy == "" {
		triggeredBy = ActorSystem
	}
	return AccrualJob{
		id:           uuid.New().String(),
		jobDate:      jobDate,
		status:       valueobject.JobStatusPending,
		totalAccrued: decimal.Zero,
		triggeredBy:  triggeredBy,
		createdAt:    now,
	}, nil
}

// ReconstructAccrualJob rebuilds a job from persistence.
func ReconstructAccrualJob(
	id string,
	jobDate time.Time,
	status valueobject.JobStatus,
	loansProcessed int,
	totalAccrued decimal.Decimal,
	errorDetails []JobError,
	triggeredBy string,
	startedAt, completedAt, createdAt time.Time,
) AccrualJob {
	return AccrualJob{
		id:             id,
		jobDate:        jobDate,
		status:         status,
		loansProcessed: loansProcessed,
		totalAccrued:   totalAccrued,
		errorDetails:   errorDetails,
		triggeredBy:    triggeredBy,
		startedAt:      startedAt,
		completedAt:    completedAt,
		createdAt:      createdAt,
	}
}

// Start transitions pending|failed -> running. A failed job may be retried;
// the per-loan existence check keeps retries from double-posting.
func (j AccrualJob) Start(now time.Time) (AccrualJob, error) {
	if !j.status.Equal(valueobject.JobStatusPending) && !j.status.Equal(valueobject.JobStatusFailed) {
		return j, fmt.Errorf("%w: cannot start job in status %s", valueobject.ErrInvalidStatusTransition, j.status)
	}
	next := j
	next.status = valueobject.JobStatusRunning
	next.startedAt = now
	next.completedAt = time.Time{}
	next.loansProcessed = 0
	next.totalAccrued = decimal.Zero
	next.errorDetails = nil
	return next, nil
}

// Complete transitions running -> completed and records the run summary.
func (j AccrualJob) Complete(loansProcessed int, totalAccrued decimal.Decimal, errs []JobError, now time.Time) (AccrualJob, error) {
	if !j.status.Equal(valueobject.JobStatusRunning) {
		return j, fmt.Errorf("%w: cannot complete job in status %s", valueobject.ErrInvalidStatusTransition, j.status)
	}
	next := j
	next.status = valueobject.JobStatusCompleted
	next.loansProcessed = loansProcessed
	next.totalAccrued = totalAccrued
	next.errorDetails = append([]JobError(nil), errs...)
	next.completedAt = now
	return next, nil
}

// Fail transitions running -> failed with the fatal error detail.
func (j AccrualJob) Fail(detail string, now time.Time) (AccrualJob, error) {
	if !j.status.Equal(valueobject.JobStatusRunning) {
		return j, fmt.Errorf("%w: cannot fail job in status %s", valueobject.ErrInvalidStatusTransition, j.status)
	}
	next := j
	next.status = valueobject.JobStatusFailed
	next.errorDetails = append(append([]JobError(nil), j.errorDetails...), JobError{Error: detail})
	next.completedAt = now
	return next, nil
}

// Duration returns the wall-clock duration of a finished run, or zero if the
// job has not finished.
func (j AccrualJob) Duration() time.Duration {
	if j.startedAt.IsZero() || j.completedAt.IsZero() {
		return 0
	}
	return j.completedAt.Sub(j.startedAt)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (j AccrualJob) ID() string                      { return j.id }
func (j AccrualJob) JobDate() time.Time              { return j.jobDate }
func (j AccrualJob) Status() valueobject.JobStatus   { return j.status }
func (j AccrualJob) LoansProcessed() int             { return j.loansProcessed }
func (j AccrualJob) TotalAccrued() decimal.Decimal   { return j.totalAccrued }
func (j AccrualJob) TriggeredBy() string             { return j.triggeredBy }
func (j AccrualJob) StartedAt() time.Time            { return j.startedAt }
func (j AccrualJob) CompletedAt() time.Time          { return j.completedAt }
func (j AccrualJob) CreatedAt() time.Time            { return j.createdAt }

// ErrorDetails returns a defensive copy of the per-loan error list.
func (j AccrualJob) ErrorDetails() []JobError {
	if j.errorDetails == nil {
		return nil
	}
	out := make([]JobError, len(j.errorDetails))
	copy(out, j.errorDetails)
	return out
}
