package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
)

// ComputePenaltyUseCase computes the tiered penalty on an overdue amount.
type ComputePenaltyUseCase struct {
	loanRepo   port.LoanRepository
	calculator *service.PenaltyCalculator
}

// NewComputePenaltyUseCase wires dependencies.
func NewComputePenaltyUseCase(
	loanRepo port.LoanRepository,
	calculator *service.PenaltyCalculator,
) *ComputePenaltyUseCase {
	return &ComputePenaltyUseCase{
		loanRepo:   loanRepo,
		calculator: calculator,
	}
}

// Execute returns the penalty owed on the overdue amount given its due date.
// An AsOf before or on the due date yields a zero penalty.
func (uc *ComputePenaltyUseCase) Execute(
	ctx context.Context,
	req dto.ComputePenaltyRequest,
) (dto.PenaltyResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.PenaltyResponse{}, fmt.Errorf("find loan: %w", err)
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	overdueDays := overdueDaysBetween(req.DueDate, asOf)

	result, err := uc.calculator.Compute(req.OverdueAmount, overdueDays)
	if err != nil {
		return dto.PenaltyResponse{}, fmt.Errorf("compute penalty: %w", err)
	}

	return dto.PenaltyResponse{
		LoanID:           loan.ID(),
		OverdueAmount:    result.OverdueAmount,
		OverdueDays:      result.OverdueDays,
		Tier:             result.Tier,
		Rate:             result.Rate,
		Penalty:          result.Penalty,
		DefaultCandidate: result.DefaultCandidate,
	}, nil
}

// overdueDaysBetween counts whole calendar days from the due date to asOf.
func overdueDaysBetween(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	at := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(at.Sub(due).Hours() / 24)
}
