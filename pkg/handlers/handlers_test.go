package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	"github.com/chris/household-ledger/pkg/observability"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/chris/household-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type client struct {
	t      *testing.T
	router http.Handler
}

func newClient(t *testing.T) *client {
	metrics := observability.NewMetrics()
	p := processor.New(memory.New(), nil, zap.NewNop(), metrics, processor.Config{MaxAttempts: 3})
	return &client{t: t, router: NewRouter(p, zap.NewNop(), metrics)}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(respond.MemberHeader, "ali")
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	if out != nil && rr.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), out))
	}
	return rr.Code
}

func TestGoalLifecycle(t *testing.T) {
	c := newClient(t)

	var acc api.Account
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/accounts", api.NewAccount{OwnerId: api.Ali, Name: "Card", InitialBalance: 100000}, &acc))

	var goal api.Goal
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/goals", api.NewGoal{OwnerId: api.Ali, Title: "Bike", TargetAmount: 40000}, &goal))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/goals/"+goal.Id+"/contributions", api.Contribute{BankAccountId: acc.Id, Amount: 40000}, &goal))
	assert.Equal(t, "1.0000", goal.Progress)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/accounts/"+acc.Id, nil, &acc))
	assert.Equal(t, int64(40000), acc.BlockedBalance)
	assert.Equal(t, int64(60000), acc.Available)

	var apiErr api.Error
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, "/accounts/"+acc.Id+"/expenses", api.NewExpense{Amount: 60001, Category: "food"}, &apiErr))
	assert.Equal(t, "insufficient_funds", apiErr.Code)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/goals/"+goal.Id+"/achieve", api.AchieveGoal{ActualCost: 40000}, &goal))
	assert.True(t, goal.IsAchieved)

	var journal api.Journal
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/accounts/"+acc.Id+"/journal", nil, &journal))
	assert.Equal(t, int64(60000), journal.Account.Balance)
	require.Len(t, journal.Expenses, 1)
	require.NotNil(t, journal.Expenses[0].SubType)
	assert.Equal(t, "goal_saved_portion", *journal.Expenses[0].SubType)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/expenses/"+journal.Expenses[0].Id, nil, &apiErr))
	assert.Equal(t, "invalid_state", apiErr.Code)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/goals/"+goal.Id+"/revert", nil, &goal))
	assert.False(t, goal.IsAchieved)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/accounts/"+acc.Id, nil, &acc))
	assert.Equal(t, int64(100000), acc.Balance)
	assert.Equal(t, int64(40000), acc.BlockedBalance)
}

func TestCheckEndpoints(t *testing.T) {
	c := newClient(t)

	var acc api.Account
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/accounts", api.NewAccount{OwnerId: api.SharedAccount, Name: "Joint", InitialBalance: 200000}, &acc))

	var chk api.Check
	body := map[string]any{"bank_account_id": acc.Id, "amount": 50000, "payee": "Landlord", "due_date": "2026-06-01"}
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/checks", body, &chk))
	assert.Equal(t, api.Pending, chk.Status)
	assert.Equal(t, "2026-06-01", chk.DueDate.Format("2006-01-02"))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/checks/"+chk.Id+"/clear", nil, &chk))
	assert.Equal(t, api.Cleared, chk.Status)

	var apiErr api.Error
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/checks/"+chk.Id+"/clear", nil, &apiErr))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/checks/"+chk.Id, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/accounts/"+acc.Id, nil, &acc))
	assert.Equal(t, int64(200000), acc.Balance)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/checks/"+chk.Id, nil, &apiErr))
}

func TestLoanAndDebtEndpoints(t *testing.T) {
	c := newClient(t)

	var acc api.Account
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/accounts", api.NewAccount{OwnerId: api.Fatemeh, Name: "Salary", InitialBalance: 5000}, &acc))

	var loan api.Loan
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/loans", api.NewLoan{Title: "Car", Amount: 3000, InstallmentAmount: 1000}, &loan))

	var payment api.Payment
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/loans/"+loan.Id+"/payments", api.NewPayment{BankAccountId: acc.Id, Amount: 1000}, &payment))
	assert.Equal(t, loan.Id, payment.ParentId)

	var apiErr api.Error
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/loans/"+loan.Id+"/payments", api.NewPayment{BankAccountId: acc.Id, Amount: 2001}, &apiErr))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/loans/"+loan.Id, nil, &apiErr))

	var payments []api.Payment
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/loans/"+loan.Id+"/payments", nil, &payments))
	assert.Len(t, payments, 1)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/loan-payments/"+payment.Id, nil, &loan))
	assert.Equal(t, int64(3000), loan.RemainingAmount)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/loans/"+loan.Id, nil, nil))

	var debt api.Debt
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/debts", api.NewDebt{Person: "Reza", Amount: 700}, &debt))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/debts/"+debt.Id+"/payments", api.NewPayment{BankAccountId: acc.Id, Amount: 700}, &payment))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/debts/"+debt.Id, nil, &debt))
	assert.True(t, debt.Settled)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/accounts/"+acc.Id, nil, &acc))
	assert.Equal(t, int64(4300), acc.Balance)
}

func TestMalformedBodyAndMetrics(t *testing.T) {
	c := newClient(t)

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{"))
	req.Header.Set(respond.MemberHeader, "fatemeh")
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var acc api.Account
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/accounts", api.NewAccount{OwnerId: api.Ali, Name: "Card"}, &acc))

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr = httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `ledger_operations_total{operation="create_account",outcome="committed"} 1`)
}

func TestRegisteredByHeader(t *testing.T) {
	c := newClient(t)
	body := api.NewAccount{OwnerId: api.Ali, Name: "Card"}

	for _, member := range []string{"", "bob", "shared_account"} {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/accounts", &buf)
		if member != "" {
			req.Header.Set(respond.MemberHeader, member)
		}
		rr := httptest.NewRecorder()
		c.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, member)
		var apiErr api.Error
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Equal(t, "invalid_member", apiErr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var accs []api.Account
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/accounts", nil, &accs))
	assert.Empty(t, accs)
}
