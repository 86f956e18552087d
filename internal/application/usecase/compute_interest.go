package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
)

// cacheTTL bounds how long a memoized calculation may live even if its
// fingerprint never changes.
const cacheTTL = 24 * time.Hour

const cacheKindInterest = "interest"

// ComputeInterestUseCase computes pro-rata interest on a loan's outstanding
// principal over a date range, memoizing the result until the loan's state
// changes.
type ComputeInterestUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	cache       port.Cache
	calculator  *service.ProRataInterestCalculator
}

// NewComputeInterestUseCase wires dependencies.
func NewComputeInterestUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	cache port.Cache,
	calculator *service.ProRataInterestCalculator,
) *ComputeInterestUseCase {
	return &ComputeInterestUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
		calculator:  calculator,
	}
}

// Execute returns the interest breakdown for the requested range. The cache is
// best-effort: a cache failure degrades to a fresh computation, never to an
// error.
func (uc *ComputeInterestUseCase) Execute(
	ctx context.Context,
	req dto.ComputeInterestRequest,
) (dto.InterestResponse, error) {
	if req.To.Before(req.From) {
		return dto.InterestResponse{}, fmt.Errorf("range %s to %s: %w",
			req.From.Format("2006-01-02"), req.To.Format("2006-01-02"), model.ErrInvalidDateRange)
	}

	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.InterestResponse{}, fmt.Errorf("find loan: %w", err)
	}

	fingerprint, err := uc.fingerprint(ctx, loan.ID(), loan.OutstandingPrincipal().String(), loan.AnnualRate().String())
	if err != nil {
		return dto.InterestResponse{}, fmt.Errorf("build fingerprint: %w", err)
	}

	key := port.CacheKey{LoanID: loan.ID(), AsOf: req.To, Kind: cacheKindInterest}
	if cached, ok, _ := uc.cache.Get(ctx, key, fingerprint); ok {
		var resp dto.InterestResponse
		if err := json.Unmarshal(cached, &resp); err == nil && resp.From.Equal(req.From) {
			resp.FromCache = true
			return resp, nil
		}
	}

	result, err := uc.calculator.Compute(loan, loan.OutstandingPrincipal(), req.From, req.To)
	if err != nil {
		return dto.InterestResponse{}, fmt.Errorf("compute interest: %w", err)
	}

	resp := interestResponse(loan.ID(), result)
	if payload, err := json.Marshal(resp); err == nil {
		_ = uc.cache.Put(ctx, key, fingerprint, payload, cacheTTL)
	}
	return resp, nil
}

// fingerprint derives the cache validity token from everything the result
// depends on: the loan's outstanding principal and rate plus its payment
// history shape.
func (uc *ComputeInterestUseCase) fingerprint(ctx context.Context, loanID, principal, rate string) (string, error) {
	count, latest, err := uc.paymentRepo.HistoryStats(ctx, loanID)
	if err != nil {
		return "", err
	}
	latestPart := "none"
	if !latest.IsZero() {
		latestPart = latest.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%s|%d|%s", principal, rate, count, latestPart), nil
}

func interestResponse(loanID string, result service.InterestResult) dto.InterestResponse {
	periods := make([]dto.InterestPeriodResponse, 0, len(result.Periods))
	for _, p := range result.Periods {
		periods = append(periods, dto.InterestPeriodResponse{
			From:       p.From,
			To:         p.To,
			Days:       p.Days,
			AnnualRate: p.AnnualRate,
			Interest:   p.Interest,
		})
	}
	return dto.InterestResponse{
		LoanID:          loanID,
		From:            result.From,
		To:              result.To,
		TotalDays:       result.TotalDays,
		Principal:       result.Principal,
		CrossesBoundary: result.CrossesBoundary,
		Periods:         periods,
		Total:           result.Total,
		Narration:       result.Narration(),
	}
}
