package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
)

// PortfolioSnapshotUseCase aggregates projected dues across every accruable
// loan. Read-only; nothing is posted.
type PortfolioSnapshotUseCase struct {
	loanRepo   port.LoanRepository
	calculator *service.ProRataInterestCalculator
	now        func() time.Time
}

// NewPortfolioSnapshotUseCase wires dependencies.
func NewPortfolioSnapshotUseCase(
	loanRepo port.LoanRepository,
	calculator *service.ProRataInterestCalculator,
) *PortfolioSnapshotUseCase {
	return &PortfolioSnapshotUseCase{
		loanRepo:   loanRepo,
		calculator: calculator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the wall clock. Test hook.
func (uc *PortfolioSnapshotUseCase) WithClock(now func() time.Time) *PortfolioSnapshotUseCase {
	uc.now = now
	return uc
}

// Execute builds the portfolio-wide dues snapshot as of the requested date.
func (uc *PortfolioSnapshotUseCase) Execute(
	ctx context.Context,
	req dto.PortfolioSnapshotRequest,
) (dto.PortfolioSnapshotResponse, error) {
	loans, err := uc.loanRepo.ListAccruable(ctx)
	if err != nil {
		return dto.PortfolioSnapshotResponse{}, fmt.Errorf("list accruable loans: %w", err)
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = uc.now()
	}

	resp := dto.PortfolioSnapshotResponse{
		AsOf:              asOf,
		LoanCount:         len(loans),
		TotalOutstanding:  decimal.Zero,
		ProjectedInterest: decimal.Zero,
		TotalPayable:      decimal.Zero,
		Loans:             make([]dto.PortfolioLoanDues, 0, len(loans)),
	}

	today := uc.now()
	for _, loan := range loans {
		projection, err := uc.calculator.Compute(loan, loan.OutstandingPrincipal(), today, asOf)
		if err != nil {
			return dto.PortfolioSnapshotResponse{}, fmt.Errorf("project loan %s: %w", loan.ID(), err)
		}

		outstanding := loan.TotalOutstanding()
		payable := outstanding.Add(projection.Total)

		resp.Loans = append(resp.Loans, dto.PortfolioLoanDues{
			LoanID:            loan.ID(),
			LoanNumber:        loan.LoanNumber(),
			Product:           loan.Product().String(),
			TotalOutstanding:  outstanding,
			ProjectedInterest: projection.Total,
			TotalPayable:      payable,
		})
		resp.TotalOutstanding = resp.TotalOutstanding.Add(outstanding)
		resp.ProjectedInterest = resp.ProjectedInterest.Add(projection.Total)
		resp.TotalPayable = resp.TotalPayable.Add(payable)
	}

	return resp, nil
}
