package loans

import (
	"net/http"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	"github.com/chris/household-ledger/pkg/mapping"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/go-chi/chi/v5"
)

// LoansHandler holds the dependencies for loan handlers.
type LoansHandler struct {
	Processor *processor.Processor
}

// NewLoansHandler creates a new LoansHandler.
func NewLoansHandler(p *processor.Processor) *LoansHandler {
	return &LoansHandler{Processor: p}
}

// Routes mounts the handlers on r.
func (h *LoansHandler) Routes(r chi.Router) {
	r.Post("/loans", h.CreateLoan)
	r.Get("/loans/{loanId}", h.GetLoan)
	r.Delete("/loans/{loanId}", h.DeleteLoan)
	r.Get("/loans/{loanId}/payments", h.ListPayments)
	r.Post("/loans/{loanId}/payments", h.PayInstallment)
	r.Delete("/loan-payments/{paymentId}", h.DeletePayment)
}

// CreateLoan handles the logic for recording a new loan.
func (h *LoansHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var body api.NewLoan
	if !respond.Decode(w, r, &body) {
		return
	}

	loan, err := h.Processor.CreateLoan(r.Context(), processor.CreateLoanInput{
		Title:             body.Title,
		Amount:            body.Amount,
		InstallmentAmount: body.InstallmentAmount,
		RegisteredBy:      respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiLoan(loan))
}

// GetLoan handles the logic for retrieving one loan.
func (h *LoansHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.Processor.Loan(r.Context(), chi.URLParam(r, "loanId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiLoan(loan))
}

// DeleteLoan removes a loan that has no payments.
func (h *LoansHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.Processor.DeleteLoan(r.Context(), chi.URLParam(r, "loanId"), respond.Member(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPayments returns the installments paid on a loan.
func (h *LoansHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Processor.LoanPayments(r.Context(), chi.URLParam(r, "loanId"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]*api.Payment, len(payments))
	for i := range payments {
		out[i] = mapping.ToApiLoanPayment(&payments[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// PayInstallment pays towards the loan.
func (h *LoansHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	var body api.NewPayment
	if !respond.Decode(w, r, &body) {
		return
	}

	_, payment, err := h.Processor.PayLoanInstallment(r.Context(), processor.PayLoanInput{
		LoanID:        chi.URLParam(r, "loanId"),
		BankAccountID: body.BankAccountId,
		Amount:        body.Amount,
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiLoanPayment(payment))
}

// DeletePayment undoes one installment.
func (h *LoansHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	loan, err := h.Processor.DeleteLoanPayment(r.Context(), chi.URLParam(r, "paymentId"), respond.Member(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiLoan(loan))
}
