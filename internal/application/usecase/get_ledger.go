package usecase

import (
	"context"
	"fmt"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
)

// GetLedgerUseCase returns a loan's journal in posting order.
type GetLedgerUseCase struct {
	loanRepo   port.LoanRepository
	ledgerRepo port.LedgerRepository
}

// NewGetLedgerUseCase wires dependencies.
func NewGetLedgerUseCase(
	loanRepo port.LoanRepository,
	ledgerRepo port.LedgerRepository,
) *GetLedgerUseCase {
	return &GetLedgerUseCase{
		loanRepo:   loanRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Execute returns the loan's entries over the requested range.
func (uc *GetLedgerUseCase) Execute(
	ctx context.Context,
	req dto.GetLedgerRequest,
) (dto.LedgerResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LedgerResponse{}, fmt.Errorf("find loan: %w", err)
	}

	entries, err := uc.ledgerRepo.EntriesFor(ctx, loan.ID(), req.From, req.To)
	if err != nil {
		return dto.LedgerResponse{}, fmt.Errorf("list entries: %w", err)
	}

	rows := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, dto.LedgerEntryResponse{
			ID:              e.ID(),
			LoanID:          e.LoanID(),
			TransactionDate: e.TransactionDate(),
			Kind:            e.Kind().String(),
			Debit:           e.Debit(),
			Credit:          e.Credit(),
			Balance:         e.Balance(),
			RateApplied:     e.RateApplied(),
			DaysCounted:     e.DaysCounted(),
			Narration:       e.Narration(),
			Actor:           e.Actor(),
			CreatedAt:       e.CreatedAt(),
		})
	}

	return dto.LedgerResponse{
		LoanID:  loan.ID(),
		Entries: rows,
	}, nil
}
