package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/dto"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
)

const dateLayout = "2006-01-02"

// AccrualHandler exposes the engine's operations over HTTP.
type AccrualHandler struct {
	interestUC  *usecase.ComputeInterestUseCase
	scheduleUC  *usecase.GenerateScheduleUseCase
	penaltyUC   *usecase.ComputePenaltyUseCase
	duesUC      *usecase.ProjectDuesUseCase
	paymentUC   *usecase.AllocatePaymentUseCase
	accrualUC   *usecase.RunDailyAccrualUseCase
	ledgerUC    *usecase.GetLedgerUseCase
	portfolioUC *usecase.PortfolioSnapshotUseCase
	logger      *slog.Logger
}

// NewAccrualHandler wires the use cases.
func NewAccrualHandler(
	interestUC *usecase.ComputeInterestUseCase,
	scheduleUC *usecase.GenerateScheduleUseCase,
	penaltyUC *usecase.ComputePenaltyUseCase,
	duesUC *usecase.ProjectDuesUseCase,
	paymentUC *usecase.AllocatePaymentUseCase,
	accrualUC *usecase.RunDailyAccrualUseCase,
	ledgerUC *usecase.GetLedgerUseCase,
	portfolioUC *usecase.PortfolioSnapshotUseCase,
	logger *slog.Logger,
) *AccrualHandler {
	return &AccrualHandler{
		interestUC:  interestUC,
		scheduleUC:  scheduleUC,
		penaltyUC:   penaltyUC,
		duesUC:      duesUC,
		paymentUC:   paymentUC,
		accrualUC:   accrualUC,
		ledgerUC:    ledgerUC,
		portfolioUC: portfolioUC,
		logger:      logger,
	}
}

// RegisterRoutes attaches the API routes to the given mux.
func (h *AccrualHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/loans/{id}/interest", h.computeInterest)
	mux.HandleFunc("GET /v1/loans/{id}/schedule", h.generateSchedule)
	mux.HandleFunc("POST /v1/loans/{id}/prepayment-simulation", h.simulatePrepayment)
	mux.HandleFunc("POST /v1/loans/{id}/penalty", h.computePenalty)
	mux.HandleFunc("GET /v1/loans/{id}/dues", h.projectDues)
	mux.HandleFunc("POST /v1/loans/{id}/payments", h.allocatePayment)
	mux.HandleFunc("GET /v1/loans/{id}/ledger", h.getLedger)
	mux.HandleFunc("POST /v1/accruals/run", h.runAccrual)
	mux.HandleFunc("GET /v1/portfolio/snapshot", h.portfolioSnapshot)
}

func (h *AccrualHandler) computeInterest(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.interestUC.Execute(r.Context(), dto.ComputeInterestRequest{
		LoanID: r.PathValue("id"),
		From:   from,
		To:     to,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) generateSchedule(w http.ResponseWriter, r *http.Request) {
	resp, err := h.scheduleUC.Execute(r.Context(), dto.GenerateScheduleRequest{
		LoanID: r.PathValue("id"),
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) simulatePrepayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount decimal.Decimal `json:"amount"`
		Mode   string          `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.scheduleUC.SimulatePrepayment(r.Context(), dto.SimulatePrepaymentRequest{
		LoanID: r.PathValue("id"),
		Amount: body.Amount,
		Mode:   body.Mode,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) computePenalty(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OverdueAmount decimal.Decimal `json:"overdue_amount"`
		DueDate       string          `json:"due_date"`
		AsOf          string          `json:"as_of,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dueDate, err := time.Parse(dateLayout, body.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var asOf time.Time
	if body.AsOf != "" {
		if asOf, err = time.Parse(dateLayout, body.AsOf); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	resp, err := h.penaltyUC.Execute(r.Context(), dto.ComputePenaltyRequest{
		LoanID:        r.PathValue("id"),
		OverdueAmount: body.OverdueAmount,
		DueDate:       dueDate,
		AsOf:          asOf,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) projectDues(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.duesUC.Execute(r.Context(), dto.ProjectDuesRequest{
		LoanID: r.PathValue("id"),
		AsOf:   asOf,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) allocatePayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount      decimal.Decimal `json:"amount"`
		PaymentDate string          `json:"payment_date"`
		Actor       string          `json:"actor,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	paymentDate, err := time.Parse(dateLayout, body.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.paymentUC.Execute(r.Context(), dto.AllocatePaymentRequest{
		LoanID:      r.PathValue("id"),
		Amount:      body.Amount,
		PaymentDate: paymentDate,
		Actor:       body.Actor,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AccrualHandler) getLedger(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse(dateLayout, v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	resp, err := h.ledgerUC.Execute(r.Context(), dto.GetLedgerRequest{
		LoanID: r.PathValue("id"),
		From:   from,
		To:     to,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) runAccrual(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobDate     string `json:"job_date,omitempty"`
		TriggeredBy string `json:"triggered_by,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	jobDate := time.Now().UTC()
	if body.JobDate != "" {
		var err error
		if jobDate, err = time.Parse(dateLayout, body.JobDate); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	resp, err := h.accrualUC.Execute(r.Context(), dto.RunAccrualRequest{
		JobDate:     jobDate,
		TriggeredBy: body.TriggeredBy,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) portfolioSnapshot(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if v := r.URL.Query().Get("as_of"); v != "" {
		var err error
		if asOf, err = time.Parse(dateLayout, v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	resp, err := h.portfolioUC.Execute(r.Context(), dto.PortfolioSnapshotRequest{AsOf: asOf})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccrualHandler) writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, model.ErrOverpaymentRejected),
		errors.Is(err, model.ErrInvalidDateRange),
		errors.Is(err, model.ErrNotYetDisbursed),
		errors.Is(err, model.ErrInsufficientAllocationInput):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, usecase.ErrJobAlreadyRunning):
		writeError(w, http.StatusConflict, err)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, errors.New("missing query parameter " + name)
	}
	return time.Parse(dateLayout, v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
