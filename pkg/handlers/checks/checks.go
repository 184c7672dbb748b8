package checks

import (
	"net/http"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	"github.com/chris/household-ledger/pkg/mapping"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/go-chi/chi/v5"
)

// ChecksHandler holds the dependencies for check handlers.
type ChecksHandler struct {
	Processor *processor.Processor
}

// NewChecksHandler creates a new ChecksHandler.
func NewChecksHandler(p *processor.Processor) *ChecksHandler {
	return &ChecksHandler{Processor: p}
}

// Routes mounts the handlers on r.
func (h *ChecksHandler) Routes(r chi.Router) {
	r.Post("/checks", h.CreateCheck)
	r.Get("/checks/{checkId}", h.GetCheck)
	r.Post("/checks/{checkId}/clear", h.ClearCheck)
	r.Delete("/checks/{checkId}", h.DeleteCheck)
}

// CreateCheck records a pending check.
func (h *ChecksHandler) CreateCheck(w http.ResponseWriter, r *http.Request) {
	var body api.NewCheck
	if !respond.Decode(w, r, &body) {
		return
	}

	chk, err := h.Processor.CreateCheck(r.Context(), processor.CreateCheckInput{
		BankAccountID: body.BankAccountId,
		Amount:        body.Amount,
		Payee:         body.Payee,
		DueDate:       body.DueDate.Time,
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiCheck(chk))
}

// GetCheck handles the logic for retrieving one check.
func (h *ChecksHandler) GetCheck(w http.ResponseWriter, r *http.Request) {
	chk, err := h.Processor.Check(r.Context(), chi.URLParam(r, "checkId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCheck(chk))
}

// ClearCheck pays the check. The body is optional.
func (h *ChecksHandler) ClearCheck(w http.ResponseWriter, r *http.Request) {
	var body api.ClearCheck
	if r.ContentLength != 0 && !respond.Decode(w, r, &body) {
		return
	}

	chk, err := h.Processor.ClearCheck(r.Context(), chi.URLParam(r, "checkId"), mapping.FromApiString(body.ReceiptRef), respond.Member(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCheck(chk))
}

// DeleteCheck removes the check, refunding it if it had cleared.
func (h *ChecksHandler) DeleteCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Processor.DeleteCheck(r.Context(), chi.URLParam(r, "checkId"), respond.Member(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
