package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
)

// jobTimeout bounds one scheduled accrual pass.
const jobTimeout = 30 * time.Minute

// AccrualScheduler fires the daily accrual pass on a cron schedule. The use
// case's job-date idempotency makes double fires harmless.
type AccrualScheduler struct {
	cron      *cron.Cron
	accrualUC *usecase.RunDailyAccrualUseCase
	logger    *slog.Logger
}

// NewAccrualScheduler creates a scheduler around the accrual use case.
func NewAccrualScheduler(accrualUC *usecase.RunDailyAccrualUseCase, logger *slog.Logger) *AccrualScheduler {
	return &AccrualScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		accrualUC: accrualUC,
		logger:    logger,
	}
}

// Start registers the schedule and begins firing. The spec is a standard
// five-field cron expression evaluated in UTC.
func (s *AccrualScheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("accrual scheduler started", "schedule", spec)
	return nil
}

// Stop waits for an in-flight run to finish and halts the scheduler.
func (s *AccrualScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("accrual scheduler stopped")
}

func (s *AccrualScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	resp, err := s.accrualUC.Execute(ctx, dto.RunAccrualRequest{
		JobDate:     time.Now().UTC(),
		TriggeredBy: "scheduler",
	})
	if err != nil {
		s.logger.Error("scheduled accrual run failed", "error", err)
		return
	}
	if resp.AlreadyCompleted {
		s.logger.Info("scheduled accrual run skipped, already completed",
			"job_date", resp.JobDate.Format("2006-01-02"))
		return
	}
	s.logger.Info("scheduled accrual run finished",
		"job_id", resp.JobID,
		"loans_processed", resp.LoansProcessed,
		"total_accrued", resp.TotalAccrued.StringFixed(2),
		"errors", resp.ErrorCount,
	)
}
