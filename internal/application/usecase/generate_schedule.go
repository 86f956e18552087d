package usecase

import (
	"context"
	"fmt"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
)

// Prepayment simulation modes.
const (
	PrepaymentModeReduceTenure = "reduce_tenure"
	PrepaymentModeReduceEMI    = "reduce_emi"
)

// GenerateScheduleUseCase produces amortization schedules and prepayment
// simulations for EMI loans.
type GenerateScheduleUseCase struct {
	loanRepo   port.LoanRepository
	calculator *service.EMICalculator
}

// NewGenerateScheduleUseCase wires dependencies.
func NewGenerateScheduleUseCase(
	loanRepo port.LoanRepository,
	calculator *service.EMICalculator,
) *GenerateScheduleUseCase {
	return &GenerateScheduleUseCase{
		loanRepo:   loanRepo,
		calculator: calculator,
	}
}

// Execute returns the loan's full amortization table from its disbursement
// terms.
func (uc *GenerateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GenerateScheduleRequest,
) (dto.ScheduleResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}

	emi, err := uc.calculator.MonthlyPayment(loan.Principal(), loan.AnnualRate(), loan.TenureMonths())
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("compute installment: %w", err)
	}

	schedule, err := uc.calculator.Schedule(loan.Principal(), loan.AnnualRate(), loan.TenureMonths(), loan.DisbursementDate())
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("build schedule: %w", err)
	}

	installments := make([]dto.InstallmentResponse, 0, len(schedule))
	for _, inst := range schedule {
		installments = append(installments, dto.InstallmentResponse{
			Number:             inst.Number,
			DueDate:            inst.DueDate,
			EMI:                inst.EMI,
			PrincipalComponent: inst.PrincipalComponent,
			InterestComponent:  inst.InterestComponent,
			OutstandingAfter:   inst.OutstandingAfter,
		})
	}

	return dto.ScheduleResponse{
		LoanID:       loan.ID(),
		EMI:          emi,
		TenureMonths: loan.TenureMonths(),
		Installments: installments,
	}, nil
}

// SimulatePrepayment answers what a lump-sum prepayment against the current
// outstanding principal does to the loan, without touching any state.
func (uc *GenerateScheduleUseCase) SimulatePrepayment(
	ctx context.Context,
	req dto.SimulatePrepaymentRequest,
) (dto.PrepaymentSimulationResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.PrepaymentSimulationResponse{}, fmt.Errorf("find loan: %w", err)
	}

	if !req.Amount.IsPositive() {
		return dto.PrepaymentSimulationResponse{}, fmt.Errorf("prepayment amount must be positive")
	}
	if req.Amount.GreaterThanOrEqual(loan.OutstandingPrincipal()) {
		return dto.PrepaymentSimulationResponse{}, fmt.Errorf("prepayment of %s would close the loan; use a payment instead", req.Amount.StringFixed(2))
	}

	remaining := loan.OutstandingPrincipal().Sub(req.Amount)
	currentEMI, err := uc.calculator.MonthlyPayment(loan.Principal(), loan.AnnualRate(), loan.TenureMonths())
	if err != nil {
		return dto.PrepaymentSimulationResponse{}, fmt.Errorf("compute installment: %w", err)
	}

	resp := dto.PrepaymentSimulationResponse{
		LoanID:         loan.ID(),
		Mode:           req.Mode,
		PrincipalAfter: remaining,
	}

	switch req.Mode {
	case PrepaymentModeReduceTenure:
		baseline, err := uc.calculator.SolveTenure(loan.OutstandingPrincipal(), loan.AnnualRate(), currentEMI)
		if err != nil {
			return dto.PrepaymentSimulationResponse{}, fmt.Errorf("solve current tenure: %w", err)
		}
		shortened, err := uc.calculator.SolveTenure(remaining, loan.AnnualRate(), currentEMI)
		if err != nil {
			return dto.PrepaymentSimulationResponse{}, fmt.Errorf("solve new tenure: %w", err)
		}
		resp.EMI = currentEMI
		resp.RemainingTenure = shortened
		resp.TenureMonthsSaved = baseline - shortened

	case PrepaymentModeReduceEMI:
		months, err := uc.calculator.SolveTenure(loan.OutstandingPrincipal(), loan.AnnualRate(), currentEMI)
		if err != nil {
			return dto.PrepaymentSimulationResponse{}, fmt.Errorf("solve current tenure: %w", err)
		}
		newEMI, err := uc.calculator.MonthlyPayment(remaining, loan.AnnualRate(), months)
		if err != nil {
			return dto.PrepaymentSimulationResponse{}, fmt.Errorf("compute new installment: %w", err)
		}
		resp.EMI = newEMI
		resp.RemainingTenure = months
		resp.InstallmentReduction = currentEMI.Sub(newEMI)

	default:
		return dto.PrepaymentSimulationResponse{}, fmt.Errorf("unknown prepayment mode %q", req.Mode)
	}

	return resp, nil
}
