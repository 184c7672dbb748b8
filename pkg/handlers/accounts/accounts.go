package accounts

import (
	"net/http"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	"github.com/chris/household-ledger/pkg/mapping"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/go-chi/chi/v5"
)

// AccountsHandler holds the dependencies for account and journal handlers.
type AccountsHandler struct {
	Processor *processor.Processor
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(p *processor.Processor) *AccountsHandler {
	return &AccountsHandler{Processor: p}
}

// Routes mounts the handlers on r.
func (h *AccountsHandler) Routes(r chi.Router) {
	r.Post("/accounts", h.CreateAccount)
	r.Get("/accounts", h.ListAccounts)
	r.Get("/accounts/{accountId}", h.GetAccount)
	r.Get("/accounts/{accountId}/journal", h.GetJournal)
	r.Get("/accounts/{accountId}/checks", h.ListChecks)
	r.Post("/accounts/{accountId}/expenses", h.RecordExpense)
	r.Post("/accounts/{accountId}/incomes", h.RecordIncome)
	r.Delete("/expenses/{expenseId}", h.DeleteExpense)
	r.Delete("/incomes/{incomeId}", h.DeleteIncome)
}

// CreateAccount handles the logic for opening a new account.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body api.NewAccount
	if !respond.Decode(w, r, &body) {
		return
	}

	acc, err := h.Processor.CreateAccount(r.Context(), processor.CreateAccountInput{
		OwnerID:        mapping.ToDomainOwner(body.OwnerId),
		Name:           body.Name,
		InitialBalance: body.InitialBalance,
		RegisteredBy:   respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiAccount(acc))
}

// ListAccounts handles the logic for retrieving all accounts.
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accs, err := h.Processor.Accounts(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]*api.Account, len(accs))
	for i := range accs {
		out[i] = mapping.ToApiAccount(&accs[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// GetAccount handles the logic for retrieving one account.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Processor.Account(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(acc))
}

// GetJournal returns the account together with every entry booked on it.
func (h *AccountsHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	j, err := h.Processor.AccountJournal(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiJournal(j.Account, j.Expenses, j.Incomes))
}

// ListChecks returns every check drawn on the account.
func (h *AccountsHandler) ListChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.Processor.ChecksFor(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]*api.Check, len(checks))
	for i := range checks {
		out[i] = mapping.ToApiCheck(&checks[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// RecordExpense books a plain expense on the account.
func (h *AccountsHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var body api.NewExpense
	if !respond.Decode(w, r, &body) {
		return
	}

	e, err := h.Processor.RecordExpense(r.Context(), processor.RecordExpenseInput{
		BankAccountID: chi.URLParam(r, "accountId"),
		Amount:        body.Amount,
		Category:      body.Category,
		Description:   mapping.FromApiString(body.Description),
		Date:          mapping.FromApiDate(body.Date),
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiExpense(e))
}

// RecordIncome books an income on the account.
func (h *AccountsHandler) RecordIncome(w http.ResponseWriter, r *http.Request) {
	var body api.NewIncome
	if !respond.Decode(w, r, &body) {
		return
	}

	in, err := h.Processor.RecordIncome(r.Context(), processor.RecordIncomeInput{
		BankAccountID: chi.URLParam(r, "accountId"),
		Amount:        body.Amount,
		Source:        body.Source,
		Description:   mapping.FromApiString(body.Description),
		Date:          mapping.FromApiDate(body.Date),
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiIncome(in))
}

// DeleteExpense reverses a plain expense.
func (h *AccountsHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Processor.DeleteExpense(r.Context(), chi.URLParam(r, "expenseId"), respond.Member(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteIncome reverses an income.
func (h *AccountsHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.Processor.DeleteIncome(r.Context(), chi.URLParam(r, "incomeId"), respond.Member(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
