// Package journal writes the Expense and Income entries that mirror every
// balance change. An entry and the balance change it describes are always
// written together, so the journal sums to balance - initialBalance.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/household-ledger/pkg/accounts"
	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/storage"
	"github.com/google/uuid"
)

// Journal records and reverses journal entries.
type Journal struct {
	accounts *accounts.Store
}

// New creates a Journal on top of the account store.
func New(accts *accounts.Store) *Journal {
	return &Journal{accounts: accts}
}

// Debit takes e.Amount out of e.BankAccountID and writes e with its
// before/after balances filled in. Callers check available funds first.
func (j *Journal) Debit(ctx context.Context, tx storage.Tx, e *models.Expense) (*models.BankAccount, error) {
	acc, err := j.accounts.Get(ctx, tx, e.BankAccountID)
	if err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.BalanceBefore = acc.Balance
	if acc, err = j.accounts.SetBalance(ctx, tx, acc.ID, acc.Balance-e.Amount); err != nil {
		return nil, err
	}
	e.BalanceAfter = acc.Balance

	if err := tx.Put(storage.Expenses, e.ID, e); err != nil {
		return nil, err
	}
	return acc, nil
}

// Credit adds in.Amount to in.BankAccountID and writes in.
func (j *Journal) Credit(ctx context.Context, tx storage.Tx, in *models.Income) (*models.BankAccount, error) {
	acc, err := j.accounts.Get(ctx, tx, in.BankAccountID)
	if err != nil {
		return nil, err
	}
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	in.BalanceBefore = acc.Balance
	if acc, err = j.accounts.SetBalance(ctx, tx, acc.ID, acc.Balance+in.Amount); err != nil {
		return nil, err
	}
	in.BalanceAfter = acc.Balance

	if err := tx.Put(storage.Incomes, in.ID, in); err != nil {
		return nil, err
	}
	return acc, nil
}

// ReverseExpense puts the amount back on the account and deletes the entry.
func (j *Journal) ReverseExpense(ctx context.Context, tx storage.Tx, e *models.Expense) (*models.BankAccount, error) {
	acc, err := j.accounts.Get(ctx, tx, e.BankAccountID)
	if err != nil {
		return nil, err
	}
	if acc, err = j.accounts.SetBalance(ctx, tx, acc.ID, acc.Balance+e.Amount); err != nil {
		return nil, err
	}
	tx.Delete(storage.Expenses, e.ID)
	return acc, nil
}

// ReverseIncome takes the amount back off the account and deletes the entry.
func (j *Journal) ReverseIncome(ctx context.Context, tx storage.Tx, in *models.Income) (*models.BankAccount, error) {
	acc, err := j.accounts.Get(ctx, tx, in.BankAccountID)
	if err != nil {
		return nil, err
	}
	if acc, err = j.accounts.SetBalance(ctx, tx, acc.ID, acc.Balance-in.Amount); err != nil {
		return nil, err
	}
	tx.Delete(storage.Incomes, in.ID)
	return acc, nil
}

// Expense retrieves a single expense.
func (j *Journal) Expense(ctx context.Context, tx storage.Reader, id string) (*models.Expense, error) {
	var e models.Expense
	if err := tx.Get(ctx, storage.Expenses, id, &e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Kind: "expense", ID: id}
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &e, nil
}

// Income retrieves a single income.
func (j *Journal) Income(ctx context.Context, tx storage.Reader, id string) (*models.Income, error) {
	var in models.Income
	if err := tx.Get(ctx, storage.Incomes, id, &in); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Kind: "income", ID: id}
		}
		return nil, fmt.Errorf("failed to get income: %w", err)
	}
	return &in, nil
}

// ExpensesBy returns every expense whose back-reference field equals value.
func (j *Journal) ExpensesBy(ctx context.Context, tx storage.Reader, field, value string) ([]models.Expense, error) {
	var es []models.Expense
	if err := tx.Query(ctx, storage.Expenses, field, value, &es); err != nil {
		return nil, fmt.Errorf("failed to look up expenses by %s: %w", field, err)
	}
	return es, nil
}

// IncomesFor returns every income booked on an account.
func (j *Journal) IncomesFor(ctx context.Context, tx storage.Reader, accountID string) ([]models.Income, error) {
	var ins []models.Income
	if err := tx.Query(ctx, storage.Incomes, models.FieldBankAccountID, accountID, &ins); err != nil {
		return nil, fmt.Errorf("failed to look up incomes: %w", err)
	}
	return ins, nil
}

// ExpenseFor returns the single expense produced by a check or payment, or
// nil when there is none.
func (j *Journal) ExpenseFor(ctx context.Context, tx storage.Reader, field, value string) (*models.Expense, error) {
	es, err := j.ExpensesBy(ctx, tx, field, value)
	if err != nil {
		return nil, err
	}
	switch len(es) {
	case 0:
		return nil, nil
	case 1:
		return &es[0], nil
	default:
		return nil, fmt.Errorf("%d expenses reference %s %s, expected one", len(es), field, value)
	}
}
