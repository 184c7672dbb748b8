package processor

import (
	"context"
	"testing"

	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayLoanInstallment(t *testing.T) {
	ctx := context.Background()

	t.Run("Exactly Available", func(t *testing.T) {
		f := newFixture(t, nil)
		f.seedAccount(t, "c", 10000000, 0)
		f.seed(t, storage.Loans, "l", models.Loan{ID: "l", Title: "Car", Amount: 480000000, InstallmentAmount: 10000000, RemainingAmount: 480000000})

		loan, payment, err := f.p.PayLoanInstallment(ctx, PayLoanInput{LoanID: "l", BankAccountID: "c", Amount: 10000000, RegisteredBy: models.OwnerAli})
		require.NoError(t, err)
		assert.Equal(t, int64(470000000), loan.RemainingAmount)
		assert.Equal(t, 1, loan.PaidInstallments)
		assert.Equal(t, "l", payment.LoanID)

		assert.Equal(t, int64(0), f.account(t, "c").Balance)
		assert.Equal(t, 1, f.store.Len(storage.LoanPayments))
		assert.Equal(t, 1, f.store.Len(storage.Expenses))

		j, err := f.p.AccountJournal(ctx, "c")
		require.NoError(t, err)
		require.Len(t, j.Expenses, 1)
		assert.Equal(t, payment.ID, j.Expenses[0].LoanPaymentID)
	})

	t.Run("Overpayment Changes Nothing", func(t *testing.T) {
		f := newFixture(t, nil)
		f.seedAccount(t, "c", 1000000, 0)
		f.seed(t, storage.Loans, "l", models.Loan{ID: "l", Title: "Car", Amount: 900, RemainingAmount: 300, PaidInstallments: 2})

		_, _, err := f.p.PayLoanInstallment(ctx, PayLoanInput{LoanID: "l", BankAccountID: "c", Amount: 301})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)

		loan, err := f.p.Loan(ctx, "l")
		require.NoError(t, err)
		assert.Equal(t, int64(300), loan.RemainingAmount)
		assert.Equal(t, 2, loan.PaidInstallments)
		assert.Equal(t, int64(1000000), f.account(t, "c").Balance)
		assert.Equal(t, 0, f.store.Len(storage.LoanPayments))
		assert.Equal(t, 0, f.store.Len(storage.Expenses))
	})

	t.Run("Blocked Funds Are Not Spendable", func(t *testing.T) {
		f := newFixture(t, nil)
		f.seedAccount(t, "c", 1000, 900)
		f.seed(t, storage.Loans, "l", models.Loan{ID: "l", Amount: 500, RemainingAmount: 500})

		_, _, err := f.p.PayLoanInstallment(ctx, PayLoanInput{LoanID: "l", BankAccountID: "c", Amount: 101})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	})
}

func TestDeleteLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seedAccount(t, "c", 5000, 0)

	loan, err := f.p.CreateLoan(ctx, CreateLoanInput{Title: "Home", Amount: 3000, InstallmentAmount: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), loan.RemainingAmount)

	_, payment, err := f.p.PayLoanInstallment(ctx, PayLoanInput{LoanID: loan.ID, BankAccountID: "c", Amount: 1000})
	require.NoError(t, err)
	require.NotEmpty(t, payment.ExpenseID)

	err = f.p.DeleteLoan(ctx, loan.ID, models.OwnerAli)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, 1, f.store.Len(storage.Loans))

	payments, err := f.p.LoanPayments(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	// The payment names its expense, so a lagging index does not matter.
	f.p.store = laggingIndex{f.store}
	loan, err = f.p.DeleteLoanPayment(ctx, payment.ID, models.OwnerAli)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), loan.RemainingAmount)
	assert.Equal(t, 0, loan.PaidInstallments)
	assert.Equal(t, int64(5000), f.account(t, "c").Balance)
	assert.Equal(t, 0, f.store.Len(storage.Expenses))
	assert.Equal(t, 0, f.store.Len(storage.LoanPayments))

	require.NoError(t, f.p.DeleteLoan(ctx, loan.ID, models.OwnerAli))
	assert.Equal(t, 0, f.store.Len(storage.Loans))
}

func TestPayDebt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seedAccount(t, "a", 20000, 5000)

	debt, err := f.p.CreateDebt(ctx, CreateDebtInput{Person: "Reza", Amount: 12000})
	require.NoError(t, err)

	debt, payment, err := f.p.PayDebt(ctx, PayDebtInput{DebtID: debt.ID, BankAccountID: "a", Amount: 12000})
	require.NoError(t, err)
	assert.True(t, debt.IsSettled())
	assert.Equal(t, 1, debt.PaidInstallments)
	assert.Equal(t, int64(8000), f.account(t, "a").Balance)

	_, _, err = f.p.PayDebt(ctx, PayDebtInput{DebtID: debt.ID, BankAccountID: "a", Amount: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	err = f.p.DeleteDebt(ctx, debt.ID, models.OwnerAli)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	f.p.store = laggingIndex{f.store}
	debt, err = f.p.DeleteDebtPayment(ctx, payment.ID, models.OwnerAli)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), debt.RemainingAmount)
	assert.Equal(t, int64(20000), f.account(t, "a").Balance)

	payments, err := f.p.DebtPayments(ctx, debt.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	require.NoError(t, f.p.DeleteDebt(ctx, debt.ID, models.OwnerAli))
	_, err = f.p.Debt(ctx, debt.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteLegacyLoanPayment(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *fixture {
		f := newFixture(t, nil)
		f.seedAccount(t, "c", 4000, 0)
		f.seed(t, storage.Loans, "l", models.Loan{ID: "l", Amount: 3000, RemainingAmount: 2000, PaidInstallments: 1})
		f.seed(t, storage.LoanPayments, "lp", models.LoanPayment{ID: "lp", LoanID: "l", BankAccountID: "c", Amount: 1000})
		f.seed(t, storage.Expenses, "e", models.Expense{ID: "e", BankAccountID: "c", Amount: 1000, LoanPaymentID: "lp"})
		return f
	}

	t.Run("Waits For Index", func(t *testing.T) {
		f := setup(t)
		f.p.store = laggingIndex{f.store}

		_, err := f.p.DeleteLoanPayment(ctx, "lp", models.OwnerAli)
		var conflict *apperrors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, int64(4000), f.account(t, "c").Balance)
		assert.Equal(t, 1, f.store.Len(storage.LoanPayments))
		assert.Equal(t, 1, f.store.Len(storage.Expenses))
	})

	t.Run("Found Through Index", func(t *testing.T) {
		f := setup(t)

		loan, err := f.p.DeleteLoanPayment(ctx, "lp", models.OwnerAli)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), loan.RemainingAmount)
		assert.Equal(t, int64(5000), f.account(t, "c").Balance)
		assert.Equal(t, 0, f.store.Len(storage.Expenses))
	})
}
