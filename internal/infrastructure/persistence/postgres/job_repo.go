package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// AccrualJobRepo implements port.AccrualJobRepository. A unique index on
// job_date makes the calendar date the idempotency key; concurrent triggers
// for the same date collapse to one row.
type AccrualJobRepo struct {
	pool *pgxpool.Pool
}

// NewAccrualJobRepo creates a PostgreSQL-backed job repository.
func NewAccrualJobRepo(pool *pgxpool.Pool) *AccrualJobRepo {
	return &AccrualJobRepo{pool: pool}
}

// FindByDate retrieves the job row for a calendar date, if any.
func (r *AccrualJobRepo) FindByDate(ctx context.Context, jobDate time.Time) (model.AccrualJob, bool, error) {
	query := `
		SELECT id, job_date, status, loans_processed, total_accrued,
		       error_details, triggered_by, started_at, completed_at, created_at
		FROM accrual_jobs
		WHERE job_date = $1::date
	`
	var (
		id, statusStr, triggeredBy string
		date, createdAt            time.Time
		startedAt, completedAt     *time.Time
		loansProcessed             int
		totalAccrued               decimal.Decimal
		errorDetails               []byte
	)
	err := r.pool.QueryRow(ctx, query, jobDate).Scan(
		&id, &date, &statusStr, &loansProcessed, &totalAccrued,
		&errorDetails, &triggeredBy, &startedAt, &completedAt, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AccrualJob{}, false, nil
	}
	if err != nil {
		return model.AccrualJob{}, false, fmt.Errorf("scan accrual job: %w", err)
	}

	status, err := valueobject.NewJobStatus(statusStr)
	if err != nil {
		return model.AccrualJob{}, false, fmt.Errorf("parse job status: %w", err)
	}

	var jobErrors []model.JobError
	if len(errorDetails) > 0 {
		if err := json.Unmarshal(errorDetails, &jobErrors); err != nil {
			return model.AccrualJob{}, false, fmt.Errorf("parse job error details: %w", err)
		}
	}

	return model.ReconstructAccrualJob(
		id, date, status, loansProcessed, totalAccrued, jobErrors, triggeredBy,
		timeOrZero(startedAt), timeOrZero(completedAt), createdAt,
	), true, nil
}

// Create inserts the job row for its date. The insert never updates: when the
// unique index on job_date already holds a row, zero rows are affected and
// model.ErrDuplicateJobDate is returned, so of two racing triggers exactly one
// owns the pass.
func (r *AccrualJobRepo) Create(ctx context.Context, job model.AccrualJob) error {
	details, err := json.Marshal(job.ErrorDetails())
	if err != nil {
		return fmt.Errorf("marshal job error details: %w", err)
	}

	query := `
		INSERT INTO accrual_jobs (
			id, job_date, status, loans_processed, total_accrued,
			error_details, triggered_by, started_at, completed_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (job_date) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		job.ID(), job.JobDate(), job.Status().String(), job.LoansProcessed(), job.TotalAccrued(),
		details, job.TriggeredBy(), nullableTime(job.StartedAt()), nullableTime(job.CompletedAt()), job.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("create accrual job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDuplicateJobDate
	}
	return nil
}

// Update writes back a state transition for an existing job row, matched by id
// so it can never resurrect a row the date conflict already assigned elsewhere.
func (r *AccrualJobRepo) Update(ctx context.Context, job model.AccrualJob) error {
	details, err := json.Marshal(job.ErrorDetails())
	if err != nil {
		return fmt.Errorf("marshal job error details: %w", err)
	}

	query := `
		UPDATE accrual_jobs SET
			status          = $2,
			loans_processed = $3,
			total_accrued   = $4,
			error_details   = $5,
			started_at      = $6,
			completed_at    = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		job.ID(), job.Status().String(), job.LoansProcessed(), job.TotalAccrued(),
		details, nullableTime(job.StartedAt()), nullableTime(job.CompletedAt()),
	)
	if err != nil {
		return fmt.Errorf("update accrual job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update accrual job: no row for id %s", job.ID())
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
