package debts

import (
	"net/http"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	"github.com/chris/household-ledger/pkg/mapping"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/go-chi/chi/v5"
)

// DebtsHandler holds the dependencies for previous-debt handlers.
type DebtsHandler struct {
	Processor *processor.Processor
}

// NewDebtsHandler creates a new DebtsHandler.
func NewDebtsHandler(p *processor.Processor) *DebtsHandler {
	return &DebtsHandler{Processor: p}
}

// Routes mounts the handlers on r.
func (h *DebtsHandler) Routes(r chi.Router) {
	r.Post("/debts", h.CreateDebt)
	r.Get("/debts/{debtId}", h.GetDebt)
	r.Delete("/debts/{debtId}", h.DeleteDebt)
	r.Get("/debts/{debtId}/payments", h.ListPayments)
	r.Post("/debts/{debtId}/payments", h.PayDebt)
	r.Delete("/debt-payments/{paymentId}", h.DeletePayment)
}

// CreateDebt handles the logic for recording money owed to a person.
func (h *DebtsHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var body api.NewDebt
	if !respond.Decode(w, r, &body) {
		return
	}

	debt, err := h.Processor.CreateDebt(r.Context(), processor.CreateDebtInput{
		Person:       body.Person,
		Amount:       body.Amount,
		RegisteredBy: respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiDebt(debt))
}

// GetDebt handles the logic for retrieving one debt.
func (h *DebtsHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := h.Processor.Debt(r.Context(), chi.URLParam(r, "debtId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiDebt(debt))
}

// DeleteDebt removes a debt that has no payments.
func (h *DebtsHandler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := h.Processor.DeleteDebt(r.Context(), chi.URLParam(r, "debtId"), respond.Member(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPayments returns the payments made on a debt.
func (h *DebtsHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Processor.DebtPayments(r.Context(), chi.URLParam(r, "debtId"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]*api.Payment, len(payments))
	for i := range payments {
		out[i] = mapping.ToApiDebtPayment(&payments[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// PayDebt pays towards the debt.
func (h *DebtsHandler) PayDebt(w http.ResponseWriter, r *http.Request) {
	var body api.NewPayment
	if !respond.Decode(w, r, &body) {
		return
	}

	_, payment, err := h.Processor.PayDebt(r.Context(), processor.PayDebtInput{
		DebtID:        chi.URLParam(r, "debtId"),
		BankAccountID: body.BankAccountId,
		Amount:        body.Amount,
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiDebtPayment(payment))
}

// DeletePayment undoes one payment.
func (h *DebtsHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	debt, err := h.Processor.DeleteDebtPayment(r.Context(), chi.URLParam(r, "paymentId"), respond.Member(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiDebt(debt))
}
