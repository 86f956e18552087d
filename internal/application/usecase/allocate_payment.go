package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/event"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
)

// AllocatePaymentUseCase applies a repayment to a loan through the waterfall
// (penalty, then interest, then principal), posts the ledger entry and writes
// back the outstanding buckets.
type AllocatePaymentUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	ledgerRepo  port.LedgerRepository
	cache       port.Cache
	publisher   port.EventPublisher
	allocator   *service.PaymentAllocator
}

// NewAllocatePaymentUseCase wires dependencies.
func NewAllocatePaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	ledgerRepo port.LedgerRepository,
	cache port.Cache,
	publisher port.EventPublisher,
	allocator *service.PaymentAllocator,
) *AllocatePaymentUseCase {
	return &AllocatePaymentUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		publisher:   publisher,
		allocator:   allocator,
	}
}

// Execute posts a payment against a loan.
func (uc *AllocatePaymentUseCase) Execute(
	ctx context.Context,
	req dto.AllocatePaymentRequest,
) (dto.AllocationResponse, error) {
	now := time.Now().UTC()

	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("find loan: %w", err)
	}

	snapshot := service.OutstandingSnapshot{
		Penalty:   loan.OutstandingPenalty(),
		Interest:  loan.OutstandingInterest(),
		Principal: loan.OutstandingPrincipal(),
	}
	allocation, err := uc.allocator.Allocate(req.Amount, snapshot)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("allocate payment: %w", err)
	}

	payment, err := model.NewPayment(
		loan.ID(), req.Amount, req.PaymentDate,
		allocation.PenaltyPaid, allocation.InterestPaid, allocation.PrincipalPaid,
		now,
	)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("build payment: %w", err)
	}

	entry, err := uc.ledgerRepo.Append(ctx, model.EntryDraft{
		LoanID:          loan.ID(),
		TransactionDate: req.PaymentDate,
		Kind:            valueobject.EntryKindPayment,
		Credit:          allocation.Total(),
		Narration: fmt.Sprintf("Payment %s (penalty %s, interest %s, principal %s)",
			req.Amount.StringFixed(2),
			allocation.PenaltyPaid.StringFixed(2),
			allocation.InterestPaid.StringFixed(2),
			allocation.PrincipalPaid.StringFixed(2)),
		Actor: req.Actor,
	})
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("append ledger entry: %w", err)
	}

	loan, err = loan.ApplyAllocation(allocation.PenaltyPaid, allocation.InterestPaid, allocation.PrincipalPaid)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("apply allocation: %w", err)
	}
	if err := uc.loanRepo.UpdateOutstanding(ctx, loan); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("update outstanding: %w", err)
	}
	if err := uc.paymentRepo.Save(ctx, payment); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("save payment: %w", err)
	}

	// Any derived result memoized for this loan is now stale.
	_ = uc.cache.Invalidate(ctx, loan.ID())

	evt := event.NewPaymentPosted(
		loan.ID(), payment.ID(), req.Amount,
		allocation.PenaltyPaid, allocation.InterestPaid, allocation.PrincipalPaid,
		entry.Balance(),
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.AllocationResponse{
		LoanID:        loan.ID(),
		PaymentID:     payment.ID(),
		Amount:        req.Amount,
		PenaltyPaid:   allocation.PenaltyPaid,
		InterestPaid:  allocation.InterestPaid,
		PrincipalPaid: allocation.PrincipalPaid,
		NewBalance:    entry.Balance(),
	}, nil
}
