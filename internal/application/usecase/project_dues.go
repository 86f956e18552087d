package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
)

// ProjectDuesUseCase answers "what will this loan owe on date X": the current
// outstanding buckets plus interest projected from today through the target
// date. Read-only.
type ProjectDuesUseCase struct {
	loanRepo   port.LoanRepository
	calculator *service.ProRataInterestCalculator
	now        func() time.Time
}

// NewProjectDuesUseCase wires dependencies.
func NewProjectDuesUseCase(
	loanRepo port.LoanRepository,
	calculator *service.ProRataInterestCalculator,
) *ProjectDuesUseCase {
	return &ProjectDuesUseCase{
		loanRepo:   loanRepo,
		calculator: calculator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the wall clock. Test hook.
func (uc *ProjectDuesUseCase) WithClock(now func() time.Time) *ProjectDuesUseCase {
	uc.now = now
	return uc
}

// Execute projects the loan's total payable as of the requested date.
func (uc *ProjectDuesUseCase) Execute(
	ctx context.Context,
	req dto.ProjectDuesRequest,
) (dto.DuesProjectionResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.DuesProjectionResponse{}, fmt.Errorf("find loan: %w", err)
	}

	today := uc.now()
	if req.AsOf.Before(today.Truncate(24 * time.Hour)) {
		return dto.DuesProjectionResponse{}, fmt.Errorf("%w: as-of date is in the past", model.ErrInvalidDateRange)
	}

	projection, err := uc.calculator.Compute(loan, loan.OutstandingPrincipal(), today, req.AsOf)
	if err != nil {
		return dto.DuesProjectionResponse{}, fmt.Errorf("project interest: %w", err)
	}

	total := loan.TotalOutstanding().Add(projection.Total)

	return dto.DuesProjectionResponse{
		LoanID:               loan.ID(),
		AsOf:                 projection.To,
		OutstandingPrincipal: loan.OutstandingPrincipal(),
		OutstandingInterest:  loan.OutstandingInterest(),
		OutstandingPenalty:   loan.OutstandingPenalty(),
		ProjectedInterest:    projection.Total,
		CrossesBoundary:      projection.CrossesBoundary,
		TotalPayable:         total,
	}, nil
}
